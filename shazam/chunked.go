package shazam

import (
	"log"

	"soundtrace/apperrors"
	"soundtrace/models"
	"soundtrace/utils"
)

// ChunkDecoder decodes bounded time windows of a file rather than the
// whole thing at once, keeping memory use flat regardless of file
// length. The wav package's FileDecoder implements this by shelling
// out to ffmpeg per chunk.
type ChunkDecoder interface {
	Duration(filePath string) (float64, error)
	DecodeChunk(filePath string, startSec, durationSec float64) (samples []float64, sampleRate int, err error)
}

// FingerprintAudioChunked fingerprints filePath in cfg.ChunkDurationSec
// windows instead of decoding the entire file into memory, the way
// audiobook-length input has to be handled. Each chunk's peak times are
// shifted by its start offset so the couples' anchor times sit on the
// same timeline a whole-file fingerprint would produce; chunks
// are merged with utils.ExtendMap, so a later chunk's couple wins any
// address collision with an earlier one (the same last-write-wins rule
// Fingerprint applies within a single chunk).
func FingerprintAudioChunked(decoder ChunkDecoder, filePath string, songID uint32, cfg FingerprintConfig) (map[uint32]models.Couple, error) {
	duration, err := decoder.Duration(filePath)
	if err != nil {
		return nil, apperrors.ErrDecodeFailure
	}
	if duration <= 0 {
		return nil, apperrors.ErrEmptyResult
	}

	chunkDur := cfg.ChunkDurationSec
	if chunkDur <= 0 {
		chunkDur = duration
	}

	result := make(map[uint32]models.Couple)

	for start := 0.0; start < duration; start += chunkDur {
		thisDur := chunkDur
		if remaining := duration - start; remaining < thisDur {
			thisDur = remaining
		}

		samples, sampleRate, err := decoder.DecodeChunk(filePath, start, thisDur)
		if err != nil || len(samples) == 0 {
			log.Printf("[fingerprint] skipping chunk at %.0fs: %v", start, err)
			continue
		}

		spectrogram, err := Spectrogram(samples, sampleRate, cfg)
		if err != nil || len(spectrogram) == 0 {
			continue
		}

		peaks := ExtractPeaks(spectrogram, thisDur, cfg)
		if len(peaks) == 0 {
			continue
		}
		for i := range peaks {
			peaks[i].Time += start
		}

		utils.ExtendMap(result, Fingerprint(peaks, songID, cfg))
	}

	return result, nil
}
