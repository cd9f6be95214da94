package shazam

import (
	"soundtrace/apperrors"
	"soundtrace/models"
)

// Decoder is the external PCM decoding collaborator (spec.md §6):
// given a file path, return mono float64 samples in [-1, 1], the
// sample rate, and the clip duration. Empty samples signal decode
// failure. MP3/WAV container parsing lives outside the core — see the
// wav package for a concrete implementation that shells out to
// ffmpeg/ffprobe.
type Decoder interface {
	Decode(filePath string) (samples []float64, sampleRate int, durationSeconds float64, err error)
}

// Pipeline composes Ingest and Query on top of a Decoder and a
// FingerprintStore, generalizing C10's orchestration to a
// configurable FingerprintConfig (so both DefaultMusicConfig and
// DefaultAudiobookConfig run through the same code path).
type Pipeline struct {
	decoder Decoder
	store   FullStore
	cfg     FingerprintConfig
}

// FullStore is the union Pipeline needs: Matcher's read path plus
// registration, deletion, and writes for Ingest.
type FullStore interface {
	Store
	RegisterSong(title, artist string) (uint32, error)
	DeleteSongByID(id uint32) error
	StoreFingerprints(fingerprints map[uint32]models.Couple) error
}

// NewPipeline builds a Pipeline using DefaultMusicConfig; use
// NewPipelineWithConfig for audiobook-style ingestion.
func NewPipeline(decoder Decoder, store FullStore) *Pipeline {
	return NewPipelineWithConfig(decoder, store, DefaultMusicConfig())
}

// NewPipelineWithConfig builds a Pipeline with an explicit
// FingerprintConfig.
func NewPipelineWithConfig(decoder Decoder, store FullStore, cfg FingerprintConfig) *Pipeline {
	return &Pipeline{decoder: decoder, store: store, cfg: cfg}
}

// IngestResult reports the outcome of an Ingest call.
type IngestResult struct {
	SongID       uint32
	Fingerprints int
}

// Ingest decodes filePath, fingerprints it under a freshly registered
// song, and persists the result. On a store failure the song
// registration is rolled back (DeleteSongByID) before the error is
// returned, per spec.md §4.10 and §7's StoreUnavailable handling.
func (p *Pipeline) Ingest(filePath, title, artist string) (*IngestResult, error) {
	samples, sampleRate, duration, err := p.decoder.Decode(filePath)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, apperrors.ErrDecodeFailure
	}

	songID, err := p.store.RegisterSong(title, artist)
	if err != nil {
		return nil, err
	}

	fingerprints, err := p.fingerprint(samples, sampleRate, duration, songID)
	if err != nil {
		p.store.DeleteSongByID(songID)
		return nil, err
	}
	if len(fingerprints) == 0 {
		p.store.DeleteSongByID(songID)
		return nil, apperrors.ErrEmptyResult
	}

	if err := p.store.StoreFingerprints(fingerprints); err != nil {
		p.store.DeleteSongByID(songID)
		return nil, apperrors.ErrStoreUnavailable
	}

	return &IngestResult{SongID: songID, Fingerprints: len(fingerprints)}, nil
}

// Query decodes filePath, fingerprints it under a throwaway songID
// (the Matcher never reads it), and returns ranked matches.
func (p *Pipeline) Query(filePath string) ([]models.Match, error) {
	samples, sampleRate, duration, err := p.decoder.Decode(filePath)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, apperrors.ErrDecodeFailure
	}

	fingerprints, err := p.fingerprint(samples, sampleRate, duration, throwawaySongID)
	if err != nil {
		return nil, err
	}
	if len(fingerprints) == 0 {
		return nil, nil
	}

	queryFP := make(map[uint32]uint32, len(fingerprints))
	for address, couple := range fingerprints {
		queryFP[address] = couple.AnchorTimeMs
	}

	matcher := NewMatcher(p.store)
	return matcher.Match(queryFP)
}

// throwawaySongID is any nonzero placeholder; the Matcher ignores the
// songID embedded in query-side couples entirely.
const throwawaySongID = 0xFFFFFFFF

func (p *Pipeline) fingerprint(samples []float64, sampleRate int, duration float64, songID uint32) (map[uint32]models.Couple, error) {
	spectrogram, err := Spectrogram(samples, sampleRate, p.cfg)
	if err != nil {
		return nil, err
	}
	if len(spectrogram) == 0 {
		return nil, nil
	}

	peaks := ExtractPeaks(spectrogram, duration, p.cfg)
	if len(peaks) == 0 {
		return nil, nil
	}

	return Fingerprint(peaks, songID, p.cfg), nil
}
