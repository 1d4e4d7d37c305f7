package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	entry := &TargetEntry{
		Hash:       "abc123",
		SourcePath: "/src/main.sfn",
		Target:     "print(\"hi\")\n",
	}
	require.NoError(t, store.Put(entry))

	got, ok, err := store.Get("abc123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.SourcePath, got.SourcePath)
	assert.Equal(t, entry.Target, got.Target)
	assert.False(t, got.CreatedAt.IsZero())

	count, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete("abc123"))
	_, ok, err = store.Get("abc123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_MissIsNotAnError(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_PutReplaces(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(&TargetEntry{Hash: "h", SourcePath: "/a.sfn", Target: "old"}))
	require.NoError(t, store.Put(&TargetEntry{Hash: "h", SourcePath: "/a.sfn", Target: "new"}))

	got, ok, err := store.Get("h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.Target)

	count, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// The sqlmock tests pin down the exact SQL the store issues, without a
// database file.

func TestSQLiteStore_GetQueryShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS targets").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewSQLiteStoreWithDB(db)
	require.NoError(t, err)

	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"hash", "source_path", "target", "created_at"}).
		AddRow("abc", "/src/main.sfn", "print()", created.Unix())
	mock.ExpectQuery("SELECT hash, source_path, target, created_at FROM targets").
		WithArgs("abc").
		WillReturnRows(rows)

	got, ok, err := store.Get("abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_PutStatementShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS targets").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := NewSQLiteStoreWithDB(db)
	require.NoError(t, err)

	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT OR REPLACE INTO targets").
		WithArgs("abc", "/src/main.sfn", "print()", created.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Put(&TargetEntry{
		Hash:       "abc",
		SourcePath: "/src/main.sfn",
		Target:     "print()",
		CreatedAt:  created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
