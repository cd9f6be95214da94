package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundtrace/apperrors"
	"soundtrace/models"
)

func TestMemoryClient_DuplicateKeyRejected(t *testing.T) {
	client := NewMemoryClient()

	id, err := client.RegisterSong("Song", "Artist")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = client.RegisterSong("Song", "Artist")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	total, err := client.TotalSongs()
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMemoryClient_StoreAndGetCouplesRoundTrip(t *testing.T) {
	client := NewMemoryClient()

	songID, err := client.RegisterSong("Song", "Artist")
	require.NoError(t, err)

	fingerprints := map[uint32]models.Couple{
		1: {AnchorTimeMs: 100, SongID: songID},
		2: {AnchorTimeMs: 200, SongID: songID},
	}
	require.NoError(t, client.StoreFingerprints(fingerprints))

	// re-storing the same batch must not duplicate rows (triple-uniqueness).
	require.NoError(t, client.StoreFingerprints(fingerprints))

	couples, err := client.GetCouples([]uint32{1, 2, 3})
	require.NoError(t, err)

	assert.Len(t, couples[1], 1)
	assert.Len(t, couples[2], 1)
	assert.NotContains(t, couples, uint32(3))

	total, err := client.TotalFingerprints()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestMemoryClient_DeleteSongDoesNotCascade(t *testing.T) {
	client := NewMemoryClient()

	songID, err := client.RegisterSong("Song", "Artist")
	require.NoError(t, err)

	require.NoError(t, client.StoreFingerprints(map[uint32]models.Couple{
		9: {AnchorTimeMs: 50, SongID: songID},
	}))

	require.NoError(t, client.DeleteSongByID(songID))

	song, err := client.GetSongByID(songID)
	require.NoError(t, err)
	assert.Nil(t, song)

	couples, err := client.GetCouples([]uint32{9})
	require.NoError(t, err)
	assert.Len(t, couples[9], 1, "fingerprints referencing a deleted song are left in place")
}
