package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default persistent target cache, one self-contained
// database file per project (usually .sailfin/cache.db).
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS targets (
	hash        TEXT PRIMARY KEY,
	source_path TEXT NOT NULL,
	target      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
`

// NewSQLiteStore opens (creating if needed) the cache database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	store, err := NewSQLiteStoreWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStoreWithDB wraps an already-open database handle, which is
// how tests substitute a mock connection.
func NewSQLiteStoreWithDB(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(hash string) (*TargetEntry, bool, error) {
	row := s.db.QueryRow(
		"SELECT hash, source_path, target, created_at FROM targets WHERE hash = ?", hash)

	var entry TargetEntry
	var createdAt int64
	err := row.Scan(&entry.Hash, &entry.SourcePath, &entry.Target, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	entry.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &entry, true, nil
}

func (s *SQLiteStore) Put(entry *TargetEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO targets (hash, source_path, target, created_at) VALUES (?, ?, ?, ?)",
		entry.Hash, entry.SourcePath, entry.Target, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(hash string) error {
	if _, err := s.db.Exec("DELETE FROM targets WHERE hash = ?", hash); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Len() (int, error) {
	row := s.db.QueryRow("SELECT COUNT(*) FROM targets")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
