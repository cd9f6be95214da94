// Package db implements the FingerprintStore contract: a persistent
// Songs table and a persistent address -> []Couple multimap, backed
// by either MongoDB (the primary backend) or SQLite (an offline/test
// backend).
package db

import "soundtrace/models"

// FingerprintStore is the storage contract the matching pipeline
// depends on. Reads (GetCouples, GetSongByID, GetSongByKey) are safe
// to call concurrently with anything. RegisterSong must be
// serializable with respect to itself to keep key uniqueness and ID
// allocation race-free; implementations use either a DB-side unique
// constraint or an internal mutex.
type FingerprintStore interface {
	// RegisterSong allocates a songID and stores title/artist/key.
	// Returns ErrDuplicateKey if the (title, artist) key already
	// exists; the store is left unchanged on failure.
	RegisterSong(title, artist string) (uint32, error)

	GetSongByID(id uint32) (*models.Song, error)
	GetSongByKey(key string) (*models.Song, error)
	GetAllSongs() ([]models.Song, error)

	// DeleteSongByID removes the song row only; it does not cascade
	// to fingerprints referencing that songID (deliberate — see the
	// Matcher's stale-fingerprint tolerance).
	DeleteSongByID(id uint32) error

	TotalSongs() (int, error)
	TotalFingerprints() (int, error)

	// StoreFingerprints upserts every (address, couple) pair,
	// appending couple to the list already stored at address.
	// Implementations enforce uniqueness on the full (address,
	// anchorTimeMs, songID) triple, so re-storing an identical batch
	// is a no-op rather than duplicating rows.
	StoreFingerprints(fingerprints map[uint32]models.Couple) error

	// GetCouples returns couples for every address that has at least
	// one; addresses with no stored couples are simply absent from
	// the result, not present with an empty slice.
	GetCouples(addresses []uint32) (map[uint32][]models.Couple, error)

	DeleteCollection(name string) error

	Close() error
}
