package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv_FallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("SOUNDTRACE_TEST_VAR")
	assert.Equal(t, "fallback", GetEnv("SOUNDTRACE_TEST_VAR", "fallback"))

	os.Setenv("SOUNDTRACE_TEST_VAR", "set")
	defer os.Unsetenv("SOUNDTRACE_TEST_VAR")
	assert.Equal(t, "set", GetEnv("SOUNDTRACE_TEST_VAR", "fallback"))
}

func TestGenerateSongKey(t *testing.T) {
	assert.Equal(t, "Title---Artist", GenerateSongKey("Title", "Artist"))
}

func TestGenerateUniqueID_NeverZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.NotZero(t, GenerateUniqueID())
	}
}

func TestExtendMap_OverwritesCollidingKeys(t *testing.T) {
	dst := map[string]int{"a": 1, "b": 2}
	src := map[string]int{"b": 20, "c": 3}

	ExtendMap(dst, src)

	assert.Equal(t, map[string]int{"a": 1, "b": 20, "c": 3}, dst)
}

func TestCreateFolder(t *testing.T) {
	dir := t.TempDir() + "/nested/dir"
	require.NoError(t, CreateFolder(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
