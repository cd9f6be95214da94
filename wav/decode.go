package wav

import (
	"encoding/binary"
	"fmt"
	"os"

	"soundtrace/apperrors"
)

// wavHeader mirrors the canonical 44-byte PCM WAV header.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// ReadWavInfo holds the decoded result of a mono WAV file: float64
// samples in [-1, 1], the sample rate, and the clip duration.
type ReadWavInfo struct {
	Samples    []float64
	SampleRate int
	Duration   float64
}

// ReadPCM16Mono reads a 16-bit PCM mono WAV file (the format
// ConvertToWAV/ExtractChunkAsWAV always produce) into float64 samples
// scaled to [-1, 1], the standard int16 -> float conversion used
// throughout the source (/32768.0).
func ReadPCM16Mono(path string) (*ReadWavInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.ErrDecodeFailure
	}
	if len(data) < 44 {
		return nil, apperrors.ErrDecodeFailure
	}

	var hdr wavHeader
	copy(hdr.ChunkID[:], data[0:4])
	hdr.ChunkSize = binary.LittleEndian.Uint32(data[4:8])
	copy(hdr.Format[:], data[8:12])
	copy(hdr.Subchunk1ID[:], data[12:16])
	hdr.Subchunk1Size = binary.LittleEndian.Uint32(data[16:20])
	hdr.AudioFormat = binary.LittleEndian.Uint16(data[20:22])
	hdr.NumChannels = binary.LittleEndian.Uint16(data[22:24])
	hdr.SampleRate = binary.LittleEndian.Uint32(data[24:28])
	hdr.ByteRate = binary.LittleEndian.Uint32(data[28:32])
	hdr.BlockAlign = binary.LittleEndian.Uint16(data[32:34])
	hdr.BitsPerSample = binary.LittleEndian.Uint16(data[34:36])

	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", apperrors.ErrDecodeFailure)
	}
	if hdr.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: only 16-bit PCM is supported, got %d-bit", apperrors.ErrDecodeFailure, hdr.BitsPerSample)
	}

	dataOffset, dataSize, err := findDataChunk(data)
	if err != nil {
		return nil, err
	}

	channels := int(hdr.NumChannels)
	if channels < 1 {
		channels = 1
	}
	frameSize := 2 * channels
	numFrames := dataSize / frameSize

	samples := make([]float64, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		off := dataOffset + i*frameSize

		var sum int32
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(data[off+ch*2 : off+ch*2+2]))
			sum += int32(raw)
		}
		mixed := float64(sum) / float64(channels) / 32768.0
		samples = append(samples, mixed)
	}

	if len(samples) == 0 {
		return nil, apperrors.ErrEmptyResult
	}

	duration := float64(len(samples)) / float64(hdr.SampleRate)

	return &ReadWavInfo{
		Samples:    samples,
		SampleRate: int(hdr.SampleRate),
		Duration:   duration,
	}, nil
}

// findDataChunk walks the RIFF chunk list past fmt (and any other
// chunks, e.g. LIST/INFO metadata) to locate the "data" chunk.
func findDataChunk(data []byte) (offset, size int, err error) {
	pos := 12 // past RIFF header
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if chunkID == "data" {
			end := body + chunkSize
			if end > len(data) {
				end = len(data)
			}
			return body, end - body, nil
		}

		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}
	return 0, 0, fmt.Errorf("%w: no data chunk found", apperrors.ErrDecodeFailure)
}

// FileDecoder adapts ffmpeg/ffprobe container handling plus
// ReadPCM16Mono into the shazam.Decoder interface: any input format
// ffmpeg understands becomes mono float64 PCM. It extracts the whole
// file as a temporary WAV chunk rather than converting in place, so
// the caller's input file is never touched.
type FileDecoder struct{}

// Decode extracts filePath to mono 16-bit PCM WAV and reads it into
// float64 samples.
func (FileDecoder) Decode(filePath string) ([]float64, int, float64, error) {
	duration, err := GetAudioDuration(filePath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err)
	}

	wavPath, err := ExtractChunkAsWAV(filePath, 0, duration)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err)
	}
	defer os.Remove(wavPath)

	info, err := ReadPCM16Mono(wavPath)
	if err != nil {
		return nil, 0, 0, err
	}

	return info.Samples, info.SampleRate, info.Duration, nil
}

// Duration implements shazam.ChunkDecoder via ffprobe.
func (FileDecoder) Duration(filePath string) (float64, error) {
	return GetAudioDuration(filePath)
}

// DecodeChunk implements shazam.ChunkDecoder by extracting just
// [startSec, startSec+durationSec) as a temporary WAV file, so callers
// never hold more than one chunk's samples in memory at a time.
func (FileDecoder) DecodeChunk(filePath string, startSec, durationSec float64) ([]float64, int, error) {
	wavPath, err := ExtractChunkAsWAV(filePath, startSec, durationSec)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrDecodeFailure, err)
	}
	defer os.Remove(wavPath)

	info, err := ReadPCM16Mono(wavPath)
	if err != nil {
		return nil, 0, err
	}
	return info.Samples, info.SampleRate, nil
}
