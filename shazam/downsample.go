package shazam

import (
	"github.com/mdobak/go-xerrors"

	"soundtrace/apperrors"
)

// Downsample block-averages input from originalSampleRate down to
// targetSampleRate using an integer ratio. The last block may be
// shorter than ratio when len(input) isn't a multiple of it.
func Downsample(input []float64, originalSampleRate, targetSampleRate int) ([]float64, error) {
	if originalSampleRate <= 0 || targetSampleRate <= 0 {
		return nil, xerrors.New(apperrors.ErrInvalidParameter, xerrors.Field("reason", "sample rates must be positive"))
	}
	if targetSampleRate > originalSampleRate {
		return nil, xerrors.New(apperrors.ErrInvalidParameter, xerrors.Field("reason", "target sample rate must be <= original"))
	}

	ratio := originalSampleRate / targetSampleRate
	if ratio <= 0 {
		return nil, xerrors.New(apperrors.ErrInvalidParameter, xerrors.Field("reason", "invalid ratio from sample rates"))
	}

	resampled := make([]float64, 0, len(input)/ratio+1)
	for i := 0; i < len(input); i += ratio {
		end := i + ratio
		if end > len(input) {
			end = len(input)
		}

		var sum float64
		for j := i; j < end; j++ {
			sum += input[j]
		}
		resampled = append(resampled, sum/float64(end-i))
	}

	return resampled, nil
}
