package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

func fnProgram(name string) *ast.Program {
	return &ast.Program{
		Declarations: []ast.Declaration{
			&ast.FnDecl{Name: name, Body: &ast.BlockStmt{}},
		},
	}
}

func declName(t *testing.T, prog *ast.Program) string {
	t.Helper()
	require.NotEmpty(t, prog.Declarations)
	fn, ok := prog.Declarations[0].(*ast.FnDecl)
	require.True(t, ok)
	return fn.Name
}

func TestASTCache_SetAndGet(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/main.sfn", fnProgram("main"), "hash-1")

	cached, exists := cache.Get("/src/main.sfn")
	require.True(t, exists)
	assert.Equal(t, "hash-1", cached.Hash)
	assert.Equal(t, "main", declName(t, cached.Program))
}

func TestASTCache_GetMissing(t *testing.T) {
	cache := NewASTCache()
	_, exists := cache.Get("/src/missing.sfn")
	assert.False(t, exists)
}

func TestASTCache_GetByHash(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/util.sfn", fnProgram("helper"), "hash-util")

	cached, exists := cache.GetByHash("hash-util")
	require.True(t, exists)
	assert.Equal(t, "/src/util.sfn", cached.Path)
}

func TestASTCache_SetOverwrites(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/main.sfn", fnProgram("old"), "hash-old")
	cache.Set("/src/main.sfn", fnProgram("new"), "hash-new")

	cached, exists := cache.Get("/src/main.sfn")
	require.True(t, exists)
	assert.Equal(t, "hash-new", cached.Hash)
	assert.Equal(t, "new", declName(t, cached.Program))
	assert.Equal(t, 1, cache.Size())
}

func TestASTCache_Invalidate(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/main.sfn", fnProgram("main"), "hash-1")
	cache.Invalidate("/src/main.sfn")

	_, exists := cache.Get("/src/main.sfn")
	assert.False(t, exists)
}

func TestASTCache_InvalidateAll(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/a.sfn", fnProgram("a"), "hash-a")
	cache.Set("/src/b.sfn", fnProgram("b"), "hash-b")

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Size())
}

func TestASTCache_GetAllReturnsCopy(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/a.sfn", fnProgram("a"), "hash-a")

	all := cache.GetAll()
	delete(all, "/src/a.sfn")
	assert.Equal(t, 1, cache.Size(), "mutating the snapshot must not touch the cache")
}

func TestASTCache_Prune(t *testing.T) {
	cache := NewASTCache()
	cache.Set("/src/old.sfn", fnProgram("old"), "hash-old")

	// Entries newer than maxAge survive.
	pruned := cache.Prune(time.Hour)
	assert.Equal(t, 0, pruned)
	assert.Equal(t, 1, cache.Size())

	// A negative maxAge prunes every entry.
	pruned = cache.Prune(-time.Second)
	assert.Equal(t, 1, pruned)
	assert.Equal(t, 0, cache.Size())
}
