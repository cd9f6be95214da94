package shazam

import "soundtrace/models"

// ExtractPeaks tiles each spectrogram frame into the configured
// frequency bands, keeps the loudest bin per band, and emits a Peak
// for every band whose winner beats the frame's cross-band average
// magnitude. This is a cheap adaptive threshold: robust to overall
// volume since it only compares bands within the same frame.
func ExtractPeaks(spectrogram [][]complex128, audioDuration float64, cfg FingerprintConfig) []models.Peak {
	if len(spectrogram) == 0 {
		return nil
	}

	binDuration := audioDuration / float64(len(spectrogram))

	type bandWinner struct {
		mag   float64
		freq  complex128
		binID int
	}

	var peaks []models.Peak
	for frameIdx, frame := range spectrogram {
		n := len(frame)

		winners := make([]bandWinner, 0, len(cfg.FreqBands))
		for _, band := range cfg.FreqBands {
			lo, hi := band[0], band[1]
			if hi > n {
				hi = n
			}
			if lo >= hi {
				continue
			}

			var best bandWinner
			best.binID = lo
			for k := lo; k < hi; k++ {
				mag := cmplxAbs(frame[k])
				if mag > best.mag {
					best = bandWinner{mag: mag, freq: frame[k], binID: k}
				}
			}
			winners = append(winners, best)
		}

		if len(winners) == 0 {
			continue
		}

		var sum float64
		for _, w := range winners {
			sum += w.mag
		}
		avg := sum / float64(len(winners))

		for _, w := range winners {
			if w.mag > avg {
				peakTime := float64(frameIdx)*binDuration + float64(w.binID)*binDuration/float64(n)
				peaks = append(peaks, models.Peak{
					Time: peakTime,
					Freq: w.freq,
				})
			}
		}
	}

	return peaks
}
