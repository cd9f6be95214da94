package shazam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample_FourToOne(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	y, err := Downsample(x, 8000, 2000)
	require.NoError(t, err)

	assert.Equal(t, []float64{2.5, 6.5}, y)
}

func TestDownsample_RatioOneIsIdentity(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	y, err := Downsample(x, 8000, 8000)
	require.NoError(t, err)

	assert.Equal(t, x, y)
}

func TestDownsample_InvalidRate(t *testing.T) {
	_, err := Downsample([]float64{1, 2, 3}, 8000, 0)
	assert.Error(t, err)
}
