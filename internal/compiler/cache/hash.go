// Package cache provides incremental-compilation support for watch mode
// and batch builds: content hashing for cache keys, an in-memory AST
// cache, an import-dependency graph for invalidation, persistent target
// stores (embedded SQLite, optional Redis for shared build farms), and
// a coordinator that ties them together.
package cache

import (
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// FileHasher computes deterministic content hashes used as cache keys.
type FileHasher struct{}

func NewFileHasher() *FileHasher {
	return &FileHasher{}
}

// HashFile computes a BLAKE2b-256 hash of the file contents.
func (fh *FileHasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashContent computes a BLAKE2b-256 hash of the given content.
func (fh *FileHasher) HashContent(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString computes a BLAKE2b-256 hash of the given string, producing
// the same key HashFile would for a file with identical contents.
func (fh *FileHasher) HashString(content string) string {
	return fh.HashContent([]byte(content))
}
