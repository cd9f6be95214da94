package wav

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestWAV builds a minimal 16-bit PCM mono WAV file with the
// given samples and returns its path.
func writeTestWAV(t *testing.T, samples []int16, sampleRate uint32) string {
	t.Helper()

	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestReadPCM16Mono_ScalesAndReportsDuration(t *testing.T) {
	path := writeTestWAV(t, []int16{0, 16384, -32768, 32767}, 8000)

	info, err := ReadPCM16Mono(path)
	require.NoError(t, err)

	require.Len(t, info.Samples, 4)
	assert.InDelta(t, 0.0, info.Samples[0], 1e-9)
	assert.InDelta(t, 0.5, info.Samples[1], 1e-9)
	assert.InDelta(t, -1.0, info.Samples[2], 1e-9)
	assert.Equal(t, 8000, info.SampleRate)
	assert.InDelta(t, 4.0/8000.0, info.Duration, 1e-9)
}

func TestReadPCM16Mono_RejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file, but long enough to pass the length check"), 0o644))

	_, err := ReadPCM16Mono(path)
	assert.Error(t, err)
}
