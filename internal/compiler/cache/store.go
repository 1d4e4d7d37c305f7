package cache

import "time"

// TargetEntry is one persisted compile result: the emitted target
// source for a given source file at a given content hash.
type TargetEntry struct {
	Hash       string // BLAKE2b content hash of the source file
	SourcePath string
	Target     string // emitted target-language source
	CreatedAt  time.Time
}

// TargetStore persists emitted programs across compiler invocations,
// keyed by source content hash. The embedded SQLite store is the
// default; the Redis store serves build farms where several workers
// share one cache.
type TargetStore interface {
	// Get returns the entry for hash, or ok=false on a miss.
	Get(hash string) (*TargetEntry, bool, error)

	// Put stores or replaces the entry for entry.Hash.
	Put(entry *TargetEntry) error

	// Delete removes the entry for hash; deleting a missing entry is
	// not an error.
	Delete(hash string) error

	// Len reports the number of stored entries.
	Len() (int, error)

	// Close releases the store's underlying resources.
	Close() error
}
