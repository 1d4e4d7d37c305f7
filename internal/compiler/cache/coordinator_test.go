package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCoordinator_CompileAndCacheHit(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.sfn", `fn main() -> void { print.info("hi"); }`)

	cc := NewCompilationCoordinator()

	results, metrics, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.False(t, results[0].Cached)
	assert.NotNil(t, results[0].Program)
	assert.Equal(t, 1, metrics.CacheMisses)

	// Unchanged file: second compile is a hit and reuses the parse.
	results2, metrics2, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)
	assert.True(t, results2[0].Cached)
	assert.Same(t, results[0].Program, results2[0].Program)
	assert.Equal(t, 1, metrics2.CacheHits)
	assert.InDelta(t, 100.0, metrics2.CacheHitRate(), 0.01)
}

func TestCoordinator_ChangedFileRecompiles(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.sfn", `fn main() -> void { print.info("one"); }`)

	cc := NewCompilationCoordinator()
	_, _, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)

	writeSource(t, dir, "main.sfn", `fn main() -> void { print.info("two"); }`)
	results, metrics, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)
	assert.False(t, results[0].Cached)
	assert.Equal(t, 1, metrics.CacheMisses)
}

func TestCoordinator_RenamedFileHitsByHash(t *testing.T) {
	dir := t.TempDir()
	src := `fn helper() -> number { return 1; }`
	oldPath := writeSource(t, dir, "old.sfn", src)

	cc := NewCompilationCoordinator()
	_, _, err := cc.CompileFiles([]string{oldPath}, false)
	require.NoError(t, err)

	newPath := writeSource(t, dir, "new.sfn", src)
	results, metrics, err := cc.CompileFiles([]string{newPath}, false)
	require.NoError(t, err)
	assert.True(t, results[0].Cached, "identical content under a new name is a hash hit")
	assert.Equal(t, 1, metrics.CacheHits)
}

func TestCoordinator_ParseErrorReported(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.sfn", `fn main( { }`)

	cc := NewCompilationCoordinator()
	results, _, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)
	assert.Error(t, results[0].Err)
}

func TestCoordinator_InvalidateFilePropagates(t *testing.T) {
	dir := t.TempDir()
	util := writeSource(t, dir, "util.sfn", `fn helper() -> number { return 1; }`)
	main := writeSource(t, dir, "main.sfn", `
import { helper } from "./util.sfn"
fn main() -> void { print.info(helper()); }
`)

	cc := NewCompilationCoordinator()
	_, _, err := cc.CompileFiles([]string{util, main}, false)
	require.NoError(t, err)

	invalidated := cc.InvalidateFile(util)
	assert.Contains(t, invalidated, util)
	assert.Contains(t, invalidated, main)
}

func TestCoordinator_WatchModeRecompilesDependents(t *testing.T) {
	dir := t.TempDir()
	util := writeSource(t, dir, "util.sfn", `fn helper() -> number { return 1; }`)
	main := writeSource(t, dir, "main.sfn", `
import { helper } from "./util.sfn"
fn main() -> void { print.info(helper()); }
`)

	cc := NewCompilationCoordinator()
	_, _, err := cc.CompileFiles([]string{util, main}, false)
	require.NoError(t, err)

	results, _, err := cc.WatchModeCompile([]string{util})
	require.NoError(t, err)

	paths := make([]string, 0, len(results))
	for _, r := range results {
		require.NoError(t, r.Err)
		paths = append(paths, r.Path)
	}
	assert.ElementsMatch(t, []string{util, main}, paths)
}

func TestCoordinator_ParallelCompile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSource(t, dir, "a.sfn", `fn a() -> number { return 1; }`),
		writeSource(t, dir, "b.sfn", `fn b() -> number { return 2; }`),
		writeSource(t, dir, "c.sfn", `fn c() -> number { return 3; }`),
	}

	cc := NewCompilationCoordinator()
	results, metrics, err := cc.CompileFiles(paths, true)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	assert.Equal(t, 3, metrics.FilesCompiled)
}

func TestCoordinator_Clear(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.sfn", `fn main() -> void { }`)

	cc := NewCompilationCoordinator()
	_, _, err := cc.CompileFiles([]string{path}, false)
	require.NoError(t, err)
	cc.Clear()

	stats := cc.GetCacheStats()
	assert.Equal(t, 0, stats["cache_size"])
	assert.Equal(t, 0, stats["dep_graph_size"])
}

func TestScanDirectory_FindsSailfinSources(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.sfn", `fn main() -> void { }`)
	writeSource(t, dir, "notes.txt", `not source`)
	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writeSource(t, sub, "util.sfn", `fn helper() -> number { return 1; }`)

	files, err := ScanDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, ".sfn", filepath.Ext(f))
	}
}
