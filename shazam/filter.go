package shazam

import "math"

// LowPassFilter applies a single-pole IIR low-pass to input, a fresh
// instance per call (not reused across streams). alpha is derived
// from cutoffFrequency and sampleRate the standard RC way. The first
// sample is special-cased to x[0]*alpha to stay bit-compatible with
// existing fingerprint corpora; it happens to equal the general
// recurrence with y[-1]=0, but is written out explicitly per the
// source.
func LowPassFilter(cutoffFrequency, sampleRate float64, input []float64) []float64 {
	rc := 1.0 / (2 * math.Pi * cutoffFrequency)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	filtered := make([]float64, len(input))
	var prev float64

	for i, x := range input {
		if i == 0 {
			filtered[i] = x * alpha
		} else {
			filtered[i] = alpha*x + (1-alpha)*prev
		}
		prev = filtered[i]
	}
	return filtered
}
