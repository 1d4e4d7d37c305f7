package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
	"github.com/sailfin-lang/sailfin/internal/compiler/parser"
)

// CompilationMetrics tracks one batch compile's cache behavior and
// timings, for the watch server's status endpoint and `sailfin cache
// stats`.
type CompilationMetrics struct {
	TotalFiles      int
	CacheHits       int
	CacheMisses     int
	FilesCompiled   int
	ParallelBatches int
	TotalDuration   time.Duration
	LexingDuration  time.Duration
	ParsingDuration time.Duration
	StartTime       time.Time
	EndTime         time.Time
}

// CacheHitRate returns the cache hit rate as a percentage.
func (cm *CompilationMetrics) CacheHitRate() float64 {
	if cm.TotalFiles == 0 {
		return 0.0
	}
	return float64(cm.CacheHits) / float64(cm.TotalFiles) * 100.0
}

// CompilationResult is the outcome of front-end-compiling one file:
// its parsed program on success, or the first error encountered.
type CompilationResult struct {
	Path    string
	Program *ast.Program
	Hash    string
	Err     error
	Cached  bool
}

// CompilationCoordinator manages incremental front-end compilation
// (lex + parse) with AST caching and import-graph invalidation. Code
// generation is not cached here; the persistent TargetStore covers the
// emitted output.
type CompilationCoordinator struct {
	astCache *ASTCache
	depGraph *DependencyGraph
	hasher   *FileHasher
	metrics  *CompilationMetrics
	mu       sync.Mutex
}

func NewCompilationCoordinator() *CompilationCoordinator {
	return &CompilationCoordinator{
		astCache: NewASTCache(),
		depGraph: NewDependencyGraph(),
		hasher:   NewFileHasher(),
		metrics:  &CompilationMetrics{},
	}
}

// CompileFiles compiles paths with caching, in parallel batches over
// the import graph when parallel is set.
func (cc *CompilationCoordinator) CompileFiles(paths []string, parallel bool) ([]*CompilationResult, *CompilationMetrics, error) {
	cc.mu.Lock()
	cc.metrics = &CompilationMetrics{
		TotalFiles: len(paths),
		StartTime:  time.Now(),
	}
	cc.mu.Unlock()

	var results []*CompilationResult
	if parallel {
		results = cc.compileParallel(paths)
	} else {
		results = cc.compileSequential(paths)
	}

	cc.mu.Lock()
	cc.metrics.EndTime = time.Now()
	cc.metrics.TotalDuration = cc.metrics.EndTime.Sub(cc.metrics.StartTime)
	metrics := cc.metrics
	cc.mu.Unlock()

	return results, metrics, nil
}

func (cc *CompilationCoordinator) compileSequential(paths []string) []*CompilationResult {
	results := make([]*CompilationResult, len(paths))
	for i, path := range paths {
		results[i] = cc.compileFile(path)
	}
	return results
}

// compileParallel compiles independent files concurrently, batch by
// batch: a file joins a batch once every import it declares has been
// compiled. Falls back to sequential order when the graph has a cycle
// (the compile itself will then report the circular import).
func (cc *CompilationCoordinator) compileParallel(paths []string) []*CompilationResult {
	order, err := cc.depGraph.GetTopologicalOrder()
	if err != nil {
		return cc.compileSequential(paths)
	}

	pathSet := make(map[string]bool, len(paths))
	for _, p := range paths {
		pathSet[p] = true
	}

	orderedPaths := make([]string, 0, len(paths))
	for _, p := range order {
		if pathSet[p] {
			orderedPaths = append(orderedPaths, p)
		}
	}
	for _, p := range paths {
		if !contains(orderedPaths, p) {
			orderedPaths = append(orderedPaths, p)
		}
	}

	resultMap := make(map[string]*CompilationResult, len(orderedPaths))
	var resultMu sync.Mutex
	compiled := make(map[string]bool, len(orderedPaths))
	batchNum := 0

	for len(compiled) < len(orderedPaths) {
		batch := make([]string, 0)
		for _, path := range orderedPaths {
			if compiled[path] {
				continue
			}
			ready := true
			for _, dep := range cc.depGraph.GetDependencies(path) {
				if pathSet[dep] && !compiled[dep] {
					ready = false
					break
				}
			}
			if ready {
				batch = append(batch, path)
			}
		}
		if len(batch) == 0 {
			break
		}

		batchNum++
		cc.mu.Lock()
		cc.metrics.ParallelBatches = batchNum
		cc.mu.Unlock()

		var wg sync.WaitGroup
		for _, path := range batch {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				result := cc.compileFile(p)
				resultMu.Lock()
				resultMap[p] = result
				resultMu.Unlock()
			}(path)
		}
		wg.Wait()

		for _, path := range batch {
			compiled[path] = true
		}
	}

	results := make([]*CompilationResult, len(orderedPaths))
	for i, path := range orderedPaths {
		if result, exists := resultMap[path]; exists {
			results[i] = result
		} else {
			results[i] = &CompilationResult{
				Path: path,
				Err:  fmt.Errorf("file not compiled: %s", path),
			}
		}
	}
	return results
}

// compileFile front-end-compiles one file, consulting the AST cache by
// path first and by content hash second (so a renamed file keeps its
// cached parse).
func (cc *CompilationCoordinator) compileFile(path string) *CompilationResult {
	hash, err := cc.hasher.HashFile(path)
	if err != nil {
		return &CompilationResult{Path: path, Err: fmt.Errorf("failed to hash file: %w", err)}
	}

	if cached, exists := cc.astCache.Get(path); exists {
		if cached.Hash == hash {
			cc.recordHit()
			return &CompilationResult{Path: path, Program: cached.Program, Hash: hash, Cached: true}
		}
		cc.astCache.Invalidate(path)
	}

	if cached, exists := cc.astCache.GetByHash(hash); exists {
		cc.recordHit()
		cc.astCache.Set(path, cached.Program, hash)
		return &CompilationResult{Path: path, Program: cached.Program, Hash: hash, Cached: true}
	}

	cc.mu.Lock()
	cc.metrics.CacheMisses++
	cc.metrics.FilesCompiled++
	cc.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return &CompilationResult{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	source := string(content)

	lexStart := time.Now()
	tokens, lexErrors := lexer.New(source).ScanTokens()
	cc.mu.Lock()
	cc.metrics.LexingDuration += time.Since(lexStart)
	cc.mu.Unlock()

	if len(lexErrors) > 0 {
		return &CompilationResult{Path: path, Err: fmt.Errorf("%s: %w", path, lexErrors[0])}
	}

	parseStart := time.Now()
	program, parseErrors := parser.Parse(tokens, strings.Split(source, "\n"))
	cc.mu.Lock()
	cc.metrics.ParsingDuration += time.Since(parseStart)
	cc.mu.Unlock()

	if len(parseErrors) > 0 {
		return &CompilationResult{Path: path, Err: fmt.Errorf("%s: %w", path, parseErrors[0])}
	}
	program.Path = path

	cc.astCache.Set(path, program, hash)
	cc.depGraph.BuildDependencies(path, program)

	return &CompilationResult{Path: path, Program: program, Hash: hash, Cached: false}
}

func (cc *CompilationCoordinator) recordHit() {
	cc.mu.Lock()
	cc.metrics.CacheHits++
	cc.mu.Unlock()
}

// InvalidateFile invalidates a file and everything that transitively
// imports it, returning the full invalidated set.
func (cc *CompilationCoordinator) InvalidateFile(path string) []string {
	dependents := cc.depGraph.GetTransitiveDependents(path)

	cc.astCache.Invalidate(path)
	for _, dep := range dependents {
		cc.astCache.Invalidate(dep)
	}

	return append([]string{path}, dependents...)
}

// GetMetrics returns a copy of the current compilation metrics.
func (cc *CompilationCoordinator) GetMetrics() *CompilationMetrics {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	metrics := *cc.metrics
	return &metrics
}

// GetCacheStats returns cache statistics for display.
func (cc *CompilationCoordinator) GetCacheStats() map[string]interface{} {
	return map[string]interface{}{
		"cache_size":     cc.astCache.Size(),
		"dep_graph_size": cc.depGraph.Size(),
	}
}

// Clear clears all caches and the dependency graph.
func (cc *CompilationCoordinator) Clear() {
	cc.astCache.InvalidateAll()
	cc.depGraph.Clear()
	cc.mu.Lock()
	cc.metrics = &CompilationMetrics{}
	cc.mu.Unlock()
}

// WatchModeCompile recompiles changed files plus everything their
// changes invalidate, keeping parsed ASTs hot between edits.
func (cc *CompilationCoordinator) WatchModeCompile(changedFiles []string) ([]*CompilationResult, *CompilationMetrics, error) {
	allInvalidated := make(map[string]bool)
	for _, path := range changedFiles {
		for _, inv := range cc.InvalidateFile(path) {
			allInvalidated[inv] = true
		}
	}

	filesToCompile := make([]string, 0, len(allInvalidated))
	for path := range allInvalidated {
		filesToCompile = append(filesToCompile, path)
	}

	return cc.CompileFiles(filesToCompile, true)
}

// ScanDirectory finds every .sfn source file under dir.
func ScanDirectory(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".sfn" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
