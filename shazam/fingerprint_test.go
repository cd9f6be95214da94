package shazam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soundtrace/models"
)

func syntheticPeaks(n int) []models.Peak {
	peaks := make([]models.Peak, n)
	for i := range peaks {
		peaks[i] = models.Peak{
			Time: float64(i) * 0.05,
			Freq: complex(float64(100+i), 0),
		}
	}
	return peaks
}

func TestFingerprint_SizeInvariant(t *testing.T) {
	cfg := DefaultMusicConfig()
	peaks := syntheticPeaks(50)

	fp := Fingerprint(peaks, 7, cfg)

	assert.LessOrEqual(t, len(fp), len(peaks)*cfg.TargetZoneSize)
	assert.NotEmpty(t, fp)

	for _, couple := range fp {
		assert.Equal(t, uint32(7), couple.SongID)
	}
}

func TestFingerprint_EmptyPeaksYieldsEmptyMap(t *testing.T) {
	cfg := DefaultMusicConfig()
	fp := Fingerprint(nil, 1, cfg)
	assert.Empty(t, fp)
}
