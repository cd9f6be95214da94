// Package models holds the data types shared across the fingerprinting
// pipeline and the storage layer.
package models

// Address field widths, most-significant first: anchor freq bin (9
// bits) | target freq bin (9 bits) | delta-t in ms (14 bits).
const (
	AnchorFreqBits = 9
	TargetFreqBits = 9
	DeltaMsBits    = 14
)

// Peak is a single STFT landmark: the absolute time into the clip and
// the raw complex coefficient at the winning frequency bin. Freq is
// kept as the complex STFT value, not a Hz-converted float, because
// address encoding needs its real part truncated to an integer.
type Peak struct {
	Time float64
	Freq complex128
}

// Couple is the value side of a fingerprint entry: which song, and at
// what offset into that song the anchor peak occurred.
type Couple struct {
	AnchorTimeMs uint32
	SongID       uint32
}

// Song is a registered track's metadata.
type Song struct {
	ID     uint32
	Title  string
	Artist string
	Key    string
}

// Match is one ranked result of a query.
type Match struct {
	SongID    uint32
	Title     string
	Artist    string
	Timestamp uint32
	Score     float64
}
