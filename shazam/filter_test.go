package shazam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowPassFilter_DCStep(t *testing.T) {
	const n = 1000
	x := make([]float64, n)
	for i := 500; i < n; i++ {
		x[i] = 1
	}

	y := LowPassFilter(100, 8000, x)

	assert.Equal(t, 0.0, y[0])
	assert.Greater(t, y[n-1], 0.99)

	for i := 501; i < n; i++ {
		assert.GreaterOrEqual(t, y[i], y[i-1], "output should rise monotonically after the step")
	}
}
