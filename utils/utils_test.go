package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueIDIsUniqueAndHex(t *testing.T) {
	a, err := GenerateUniqueID()
	require.NoError(t, err)
	b, err := GenerateUniqueID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 16) // 8 bytes hex-encoded
}

func TestGenerateSongKeyNormalizes(t *testing.T) {
	assert.Equal(t, "dontstopbelieving", GenerateSongKey("Don't Stop \"Believing\""))
	assert.Equal(t, "simongarfunkel", GenerateSongKey("  Simon & Garfunkel  "))
	assert.Equal(t, "track", GenerateSongKey("TRACK"))
}

func TestCreateFolderIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, CreateFolder(dir))
	require.NoError(t, CreateFolder(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMoveFileWithinSameDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, MoveFile(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGetEnvFallback(t *testing.T) {
	const key = "SOUNDTRACE_TEST_ENV_VAR_UNSET"
	os.Unsetenv(key)
	assert.Equal(t, "fallback", GetEnv(key, "fallback"))

	os.Setenv(key, "set-value")
	defer os.Unsetenv(key)
	assert.Equal(t, "set-value", GetEnv(key, "fallback"))
}

func TestExtendMapMergesAndOverwrites(t *testing.T) {
	dst := map[string]int{"a": 1, "b": 2}
	src := map[string]int{"b": 20, "c": 3}

	out := ExtendMap(dst, src)
	assert.Equal(t, map[string]int{"a": 1, "b": 20, "c": 3}, out)
}

func TestExtendMapNilDst(t *testing.T) {
	out := ExtendMap[string, int](nil, map[string]int{"x": 1})
	assert.Equal(t, map[string]int{"x": 1}, out)
}
