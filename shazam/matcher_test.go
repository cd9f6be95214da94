package shazam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundtrace/models"
)

type fakeStore struct {
	couples map[uint32][]models.Couple
	songs   map[uint32]models.Song
}

func (f fakeStore) GetCouples(addresses []uint32) (map[uint32][]models.Couple, error) {
	result := make(map[uint32][]models.Couple)
	for _, a := range addresses {
		if c, ok := f.couples[a]; ok {
			result[a] = c
		}
	}
	return result, nil
}

func (f fakeStore) GetSongByID(id uint32) (*models.Song, error) {
	s, ok := f.songs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func TestMatcher_EmptyQueryYieldsNoMatches(t *testing.T) {
	m := NewMatcher(fakeStore{})
	matches, err := m.Match(nil)
	require.NoError(t, err)
	assert.Nil(t, matches)
}

func TestMatcher_StaleFingerprintsAreSkippedNotErrored(t *testing.T) {
	store := fakeStore{
		couples: map[uint32][]models.Couple{
			1: {{AnchorTimeMs: 0, SongID: 99}},
			2: {{AnchorTimeMs: 100, SongID: 99}},
		},
		songs: map[uint32]models.Song{}, // songID 99 was deleted
	}

	m := NewMatcher(store)
	matches, err := m.Match(map[uint32]uint32{1: 0, 2: 100})

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcher_CoherentHitsScoreAboveSingleHit(t *testing.T) {
	store := fakeStore{
		couples: map[uint32][]models.Couple{
			1: {{AnchorTimeMs: 0, SongID: 1}},
			2: {{AnchorTimeMs: 500, SongID: 1}},
			3: {{AnchorTimeMs: 5000, SongID: 1}}, // not coherent with the others
		},
		songs: map[uint32]models.Song{
			1: {ID: 1, Title: "T", Artist: "A"},
		},
	}

	m := NewMatcher(store)
	matches, err := m.Match(map[uint32]uint32{1: 0, 2: 500, 3: 501})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "T", matches[0].Title)
	assert.Greater(t, matches[0].Score, 0.0)
}
