package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := NewRedisStore(RedisOptions{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newTestRedisStore(t)

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
}

func TestRedisStore_MissIsNotAnError(t *testing.T) {
	store := newTestRedisStore(t)

	_, ok, err := store.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_DeleteAndLen(t *testing.T) {
	store := newTestRedisStore(t)

	require.NoError(t, store.Put(&TargetEntry{Hash: "a", SourcePath: "/a.sfn", Target: "x"}))
	require.NoError(t, store.Put(&TargetEntry{Hash: "b", SourcePath: "/b.sfn", Target: "y"}))

	count, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Delete("a"))
	count, err = store.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := NewRedisStore(RedisOptions{Addr: srv.Addr(), Prefix: "proj:"})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(&TargetEntry{Hash: "h", SourcePath: "/a.sfn", Target: "x"}))
	assert.True(t, srv.Exists("proj:h"))
}

func TestRedisStore_ConnectFailure(t *testing.T) {
	_, err := NewRedisStore(RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
