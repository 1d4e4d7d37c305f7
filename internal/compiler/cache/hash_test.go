package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile_MatchesHashString(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sfn")
	source := `fn main() -> void { print.info("hi"); }`
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	fh := NewFileHasher()
	fromFile, err := fh.HashFile(path)
	require.NoError(t, err)

	assert.Equal(t, fh.HashString(source), fromFile,
		"in-memory source must hash to the same key as the file")
	assert.Len(t, fromFile, 64, "BLAKE2b-256 hex digest")
}

func TestHashFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sfn")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1;"), 0o644))

	fh := NewFileHasher()
	first, err := fh.HashFile(path)
	require.NoError(t, err)
	second, err := fh.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHashString_ChangesWithContent(t *testing.T) {
	fh := NewFileHasher()
	assert.NotEqual(t, fh.HashString("let x = 1;"), fh.HashString("let x = 2;"))
}

func TestHashFile_Missing(t *testing.T) {
	fh := NewFileHasher()
	_, err := fh.HashFile(filepath.Join(t.TempDir(), "missing.sfn"))
	assert.Error(t, err)
}
