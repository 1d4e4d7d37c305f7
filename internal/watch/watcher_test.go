package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDebouncer_BatchesRapidChanges(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var batches [][]string
	d.SetCallback(func(files []string) {
		mu.Lock()
		batches = append(batches, files)
		mu.Unlock()
	})

	d.Add("/a.sfn")
	d.Add("/b.sfn")
	d.Add("/a.sfn")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"/a.sfn", "/b.sfn"}, batches[0])
}

func TestDebouncer_NoCallbackWithoutChanges(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	called := false
	d.SetCallback(func([]string) { called = true })

	time.Sleep(50 * time.Millisecond)
	assert.False(t, called)
}

func TestFileWatcher_PatternsAndIgnores(t *testing.T) {
	fw := &FileWatcher{
		patterns: []string{"*.sfn"},
		ignored:  []string{".sailfin"},
	}

	assert.True(t, fw.matchesPattern("/proj/main.sfn"))
	assert.False(t, fw.matchesPattern("/proj/readme.md"))
	assert.True(t, fw.shouldIgnore("/proj/.git/config"))
	assert.True(t, fw.shouldIgnore("/proj/.sailfin/cache.db"))
	assert.False(t, fw.shouldIgnore("/proj/main.sfn"))
}

func TestFileWatcher_ReportsChangedSource(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	fw, err := NewFileWatcher(dir, []string{"*.sfn"}, nil, zap.NewNop(), func(files []string) error {
		mu.Lock()
		seen = append(seen, files...)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	path := filepath.Join(dir, "main.sfn")
	require.NoError(t, os.WriteFile(path, []byte(`fn main() -> void { }`), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range seen {
			if f == path {
				return true
			}
		}
		return false
	}, 3*time.Second, 25*time.Millisecond)
}

func TestFileWatcher_IgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	count := 0
	fw, err := NewFileWatcher(dir, []string{"*.sfn"}, nil, zap.NewNop(), func(files []string) error {
		mu.Lock()
		count += len(files)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}
