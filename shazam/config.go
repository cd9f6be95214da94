package shazam

// FingerprintConfig controls every tunable parameter in the
// spectrogram, peak extraction, and fingerprint generation pipeline.
// The address-encoding bit widths (see address.go) are not part of
// this struct: changing them would break compatibility with any
// existing fingerprint index, so they stay fixed constants.
type FingerprintConfig struct {
	DSPRatio         int      // downsample factor applied to input audio
	WindowSize       int      // FFT window size in samples (must be power of 2)
	HopSize          int      // samples between successive FFT frames
	MaxFreqHz        float64  // low-pass cutoff before downsampling
	TargetZoneSize   int      // number of neighboring peaks to pair with each anchor
	FreqBands        [][2]int // (minBin, maxBin) pairs for peak extraction
	ChunkDurationSec float64  // seconds per processing chunk (0 = whole file)
}

// DefaultMusicConfig returns the spec-pinned Shazam-style parameters:
// FREQ_BIN_SIZE=1024, HOP_SIZE=32, DSP_RATIO=4, MAX_FREQ=5000Hz,
// TARGET_ZONE_SIZE=5, and the six log-spaced frequency bands. Every
// numerically pinned scenario in the testable-properties section runs
// against this config.
func DefaultMusicConfig() FingerprintConfig {
	return FingerprintConfig{
		DSPRatio:       4,
		WindowSize:     1024,
		HopSize:        32,
		MaxFreqHz:      5000,
		TargetZoneSize: 5,
		FreqBands: [][2]int{
			{0, 10}, {10, 20}, {20, 40},
			{40, 80}, {80, 160}, {160, 512},
		},
		ChunkDurationSec: 300,
	}
}

// DefaultAudiobookConfig trades frequency resolution for a far lower
// fingerprint rate, making multi-hour spoken-word files practical to
// store and match: ~16 fingerprints/sec instead of ~430.
func DefaultAudiobookConfig() FingerprintConfig {
	return FingerprintConfig{
		DSPRatio:       8,    // effective rate 5512 Hz, covers speech fine
		WindowSize:     2048, // ~371ms frames at 5512 Hz
		HopSize:        2048, // no overlap, ~2.7 fps
		MaxFreqHz:      3000, // speech doesn't need above 3 kHz
		TargetZoneSize: 3,
		FreqBands: [][2]int{
			{0, 100},    // fundamental frequency
			{100, 350},  // first formant region
			{350, 1024}, // higher formants
		},
		ChunkDurationSec: 120,
	}
}
