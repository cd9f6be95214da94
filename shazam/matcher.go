package shazam

import (
	"sort"

	"soundtrace/models"
)

// maxHitsPerSong caps the number of (query, db) time-pairs scored for
// a single candidate song before the O(n^2) coherence pass, so one
// pathologically popular song's anchors can't dominate match latency.
// Permitted by spec: doesn't change the ordering of normal results,
// since genuine matches rarely approach this many colliding
// addresses.
const maxHitsPerSong = 200

// coherenceWindowMs is the tolerance for two (query, db) time-gaps to
// be considered "aligned": the clip plays back at the same tempo as
// the stored recording.
const coherenceWindowMs = 100.0

// Store is the subset of FingerprintStore the Matcher needs.
type Store interface {
	GetCouples(addresses []uint32) (map[uint32][]models.Couple, error)
	GetSongByID(id uint32) (*models.Song, error)
}

// Matcher scores a query's fingerprints against a FingerprintStore by
// time-offset coherence.
type Matcher struct {
	store Store
}

// NewMatcher builds a Matcher bound to store.
func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store}
}

type timePair struct {
	queryMs uint32
	dbMs    uint32
}

// Match probes the store with every address in queryFingerprints
// (address -> query-side anchor time in ms), scores each candidate
// song by time-offset coherence, and returns results sorted by score
// descending. Songs with fewer than two aligned address hits score
// zero and are dropped; stale fingerprints pointing at a deleted song
// are skipped, not treated as an error.
func (m *Matcher) Match(queryFingerprints map[uint32]uint32) ([]models.Match, error) {
	if len(queryFingerprints) == 0 {
		return nil, nil
	}

	addresses := make([]uint32, 0, len(queryFingerprints))
	for addr := range queryFingerprints {
		addresses = append(addresses, addr)
	}

	couples, err := m.store.GetCouples(addresses)
	if err != nil {
		return nil, err
	}

	hitsBySong := make(map[uint32][]timePair)
	for addr, queryMs := range queryFingerprints {
		for _, couple := range couples[addr] {
			hits := hitsBySong[couple.SongID]
			if len(hits) >= maxHitsPerSong {
				continue
			}
			hitsBySong[couple.SongID] = append(hits, timePair{queryMs: queryMs, dbMs: couple.AnchorTimeMs})
		}
	}

	var matches []models.Match
	for songID, hits := range hitsBySong {
		if len(hits) < 2 {
			continue
		}

		score := scoreCoherence(hits)
		if score == 0 {
			continue
		}

		song, err := m.store.GetSongByID(songID)
		if err != nil || song == nil {
			continue // stale fingerprints referencing a deleted song: skip, not an error
		}

		minDbMs := hits[0].dbMs
		for _, h := range hits[1:] {
			if h.dbMs < minDbMs {
				minDbMs = h.dbMs
			}
		}

		matches = append(matches, models.Match{
			SongID:    songID,
			Title:     song.Title,
			Artist:    song.Artist,
			Timestamp: minDbMs,
			Score:     score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

// scoreCoherence counts unordered pairs (i, j) whose query-side and
// db-side time gaps agree to within coherenceWindowMs.
func scoreCoherence(hits []timePair) float64 {
	var count float64
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			queryDiff := absDiff(hits[i].queryMs, hits[j].queryMs)
			dbDiff := absDiff(hits[i].dbMs, hits[j].dbMs)
			if absDiffFloat(queryDiff, dbDiff) < coherenceWindowMs {
				count++
			}
		}
	}
	return count
}

func absDiff(a, b uint32) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

func absDiffFloat(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
