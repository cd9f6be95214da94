package shazam

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundtrace/apperrors"
	"soundtrace/models"
)

// fakeDecoder returns pre-baked PCM for a given file path, standing in
// for an actual container decode in tests.
type fakeDecoder struct {
	samples    map[string][]float64
	sampleRate int
	duration   float64
}

func (f fakeDecoder) Decode(filePath string) ([]float64, int, float64, error) {
	samples, ok := f.samples[filePath]
	if !ok {
		return nil, 0, 0, apperrors.ErrDecodeFailure
	}
	return samples, f.sampleRate, f.duration, nil
}

// memStore is a minimal FullStore for tests that don't need the full
// db package's persistence machinery.
type memStore struct {
	songs        map[uint32]models.Song
	byKey        map[string]uint32
	fingerprints map[uint32][]models.Couple
	nextID       uint32
}

func newMemStore() *memStore {
	return &memStore{
		songs:        make(map[uint32]models.Song),
		byKey:        make(map[string]uint32),
		fingerprints: make(map[uint32][]models.Couple),
	}
}

func (m *memStore) RegisterSong(title, artist string) (uint32, error) {
	key := title + "---" + artist
	if _, exists := m.byKey[key]; exists {
		return 0, apperrors.ErrDuplicateKey
	}
	m.nextID++
	m.songs[m.nextID] = models.Song{ID: m.nextID, Title: title, Artist: artist, Key: key}
	m.byKey[key] = m.nextID
	return m.nextID, nil
}

func (m *memStore) GetSongByID(id uint32) (*models.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) DeleteSongByID(id uint32) error {
	delete(m.songs, id)
	return nil
}

func (m *memStore) StoreFingerprints(fp map[uint32]models.Couple) error {
	for addr, couple := range fp {
		m.fingerprints[addr] = append(m.fingerprints[addr], couple)
	}
	return nil
}

func (m *memStore) GetCouples(addresses []uint32) (map[uint32][]models.Couple, error) {
	result := make(map[uint32][]models.Couple)
	for _, addr := range addresses {
		if couples, ok := m.fingerprints[addr]; ok && len(couples) > 0 {
			result[addr] = couples
		}
	}
	return result, nil
}

// tone synthesizes a short multi-partial waveform, standing in for a
// decoded audio clip with enough spectral structure to produce peaks.
// Distinct freqs/seed pairs give spectrally distinguishable "songs" so
// coherence scoring actually discriminates between them.
func tone(sampleRate int, seconds float64, freqs []float64, seed int64) []float64 {
	n := int(float64(sampleRate) * seconds)
	samples := make([]float64, n)
	r := rand.New(rand.NewSource(seed))
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		var v float64
		for _, f := range freqs {
			v += math.Sin(2*math.Pi*f*t) / float64(len(freqs))
		}
		v += 0.01 * r.Float64()
		samples[i] = v
	}
	return samples
}

func TestPipeline_IngestQueryIdentity(t *testing.T) {
	const sampleRate = 8000
	const duration = 10.0

	clip := tone(sampleRate, duration, []float64{220, 440, 880, 1760}, 1)
	other1 := tone(sampleRate, duration, []float64{233, 311, 587, 987}, 2)
	other2 := tone(sampleRate, duration, []float64{277, 349, 659, 1108}, 3)

	decoder := fakeDecoder{
		samples: map[string][]float64{
			"clip.wav":   clip,
			"other1.wav": other1,
			"other2.wav": other2,
			"query.wav":  clip,
		},
		sampleRate: sampleRate,
		duration:   duration,
	}

	store := newMemStore()
	pipeline := NewPipeline(decoder, store)

	result, err := pipeline.Ingest("clip.wav", "Title", "Artist")
	require.NoError(t, err)
	assert.Greater(t, result.Fingerprints, 0)

	_, err = pipeline.Ingest("other1.wav", "Other1", "Artist")
	require.NoError(t, err)
	_, err = pipeline.Ingest("other2.wav", "Other2", "Artist")
	require.NoError(t, err)

	matches, err := pipeline.Query("query.wav")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	assert.Equal(t, "Title", matches[0].Title)
	for _, m := range matches[1:] {
		assert.Less(t, m.Score, matches[0].Score)
	}
}

func TestPipeline_BoundaryTooShortAudio(t *testing.T) {
	const sampleRate = 8000
	tiny := make([]float64, 10) // far under one frame at this config

	decoder := fakeDecoder{
		samples:    map[string][]float64{"tiny.wav": tiny},
		sampleRate: sampleRate,
		duration:   10.0 / float64(sampleRate),
	}

	store := newMemStore()
	pipeline := NewPipeline(decoder, store)

	_, err := pipeline.Ingest("tiny.wav", "Title", "Artist")
	assert.ErrorIs(t, err, apperrors.ErrEmptyResult)

	matches, err := pipeline.Query("tiny.wav")
	assert.NoError(t, err)
	assert.Nil(t, matches)
}
