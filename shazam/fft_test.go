package shazam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFT_PureCosine(t *testing.T) {
	const n = 8
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * 1 * float64(i) / n)
	}

	X := FFT(x)

	assert.InDelta(t, 4.0, cmplxAbs(X[1]), 1e-9)
	assert.InDelta(t, 4.0, cmplxAbs(X[7]), 1e-9)

	for _, k := range []int{0, 2, 3, 4, 5, 6} {
		assert.LessOrEqual(t, cmplxAbs(X[k]), 1e-9, "bin %d should be near zero", k)
	}
}

func TestFFT_PanicsOnNonPowerOfTwo(t *testing.T) {
	assert.Panics(t, func() {
		FFT(make([]float64, 5))
	})
}
