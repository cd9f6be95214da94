package shazam

import "math"

// Spectrogram runs the STFT chain: low-pass filter, integer-ratio
// downsample, Hamming-windowed framing, FFT. Each returned frame is
// the full WindowSize-length complex FFT output (unnormalized, in
// natural order); peak extraction (peaks.go) reads both magnitude and
// the raw complex coefficient from these frames, the latter feeding
// directly into address encoding. Frequency bands only ever index
// into the lower half in practice (FreqBands tops out at 512 of a
// 1024-point window), so the redundant upper half costs nothing but
// memory.
//
// Framing reproduces an idiosyncrasy carried from the source: frame
// count is computed as downsampledLen/(WindowSize-HopSize), as if the
// stride were WindowSize-HopSize rather than HopSize. This
// under-counts frames relative to a naive sliding window and is kept
// verbatim for compatibility with existing fingerprint corpora — see
// the "framing drift" note in the design ledger.
func Spectrogram(samples []float64, sampleRate int, cfg FingerprintConfig) ([][]complex128, error) {
	filtered := LowPassFilter(cfg.MaxFreqHz, float64(sampleRate), samples)

	targetRate := sampleRate / cfg.DSPRatio
	downsampled, err := Downsample(filtered, sampleRate, targetRate)
	if err != nil {
		return nil, err
	}
	filtered = nil // free early; chunked ingestion keeps this path memory-bounded

	window := hammingWindow(cfg.WindowSize)

	stride := cfg.WindowSize - cfg.HopSize
	if stride <= 0 {
		stride = cfg.HopSize
	}
	numFrames := len(downsampled) / stride

	spectrogram := make([][]complex128, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * cfg.HopSize
		frame := make([]float64, cfg.WindowSize)
		end := start + cfg.WindowSize
		if end > len(downsampled) {
			end = len(downsampled)
		}
		if start < len(downsampled) {
			copy(frame, downsampled[start:end])
		}

		for j, w := range window {
			frame[j] *= w
		}

		spectrogram = append(spectrogram, FFT(frame))
	}

	return spectrogram, nil
}

func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
