package cache

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

// FileDependency records one source file's position in the import graph.
type FileDependency struct {
	Path       string   // the file path
	DependsOn  []string // files this file imports, directly
	DependedBy []string // files that import this file, directly
}

// DependencyGraph tracks import relationships between .sfn files so a
// change to one module invalidates everything that (transitively)
// imports it.
type DependencyGraph struct {
	nodes map[string]*FileDependency
	mu    sync.RWMutex
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*FileDependency),
	}
}

// AddFile registers a file with no edges yet.
func (dg *DependencyGraph) AddFile(path string) {
	dg.mu.Lock()
	defer dg.mu.Unlock()
	dg.ensureNode(path)
}

func (dg *DependencyGraph) ensureNode(path string) *FileDependency {
	node, exists := dg.nodes[path]
	if !exists {
		node = &FileDependency{
			Path:       path,
			DependsOn:  make([]string, 0),
			DependedBy: make([]string, 0),
		}
		dg.nodes[path] = node
	}
	return node
}

// AddDependency records that from imports to.
func (dg *DependencyGraph) AddDependency(from, to string) {
	dg.mu.Lock()
	defer dg.mu.Unlock()

	fromNode := dg.ensureNode(from)
	toNode := dg.ensureNode(to)

	if !contains(fromNode.DependsOn, to) {
		fromNode.DependsOn = append(fromNode.DependsOn, to)
	}
	if !contains(toNode.DependedBy, from) {
		toNode.DependedBy = append(toNode.DependedBy, from)
	}
}

// GetDependencies returns the files path imports directly.
func (dg *DependencyGraph) GetDependencies(path string) []string {
	dg.mu.RLock()
	defer dg.mu.RUnlock()

	if node, exists := dg.nodes[path]; exists {
		result := make([]string, len(node.DependsOn))
		copy(result, node.DependsOn)
		return result
	}
	return []string{}
}

// GetDependents returns the files that import path directly.
func (dg *DependencyGraph) GetDependents(path string) []string {
	dg.mu.RLock()
	defer dg.mu.RUnlock()

	if node, exists := dg.nodes[path]; exists {
		result := make([]string, len(node.DependedBy))
		copy(result, node.DependedBy)
		return result
	}
	return []string{}
}

// GetTransitiveDependents returns every file whose compiled output can
// change when path changes.
func (dg *DependencyGraph) GetTransitiveDependents(path string) []string {
	dg.mu.RLock()
	defer dg.mu.RUnlock()

	visited := make(map[string]bool)
	result := make([]string, 0)

	var visit func(string)
	visit = func(p string) {
		if visited[p] {
			return
		}
		visited[p] = true

		if node, exists := dg.nodes[p]; exists {
			for _, dependent := range node.DependedBy {
				if !visited[dependent] {
					result = append(result, dependent)
					visit(dependent)
				}
			}
		}
	}

	visit(path)
	return result
}

// GetIndependentFiles returns files with no imports, which can always
// compile first.
func (dg *DependencyGraph) GetIndependentFiles() []string {
	dg.mu.RLock()
	defer dg.mu.RUnlock()

	result := make([]string, 0)
	for path, node := range dg.nodes {
		if len(node.DependsOn) == 0 {
			result = append(result, path)
		}
	}
	return result
}

// GetTopologicalOrder returns files in dependency order, imports first,
// using Kahn's algorithm. A cycle is reported as a CycleError rather
// than a partial order.
func (dg *DependencyGraph) GetTopologicalOrder() ([]string, error) {
	dg.mu.RLock()
	defer dg.mu.RUnlock()

	inDegree := make(map[string]int)
	for path, node := range dg.nodes {
		inDegree[path] = len(node.DependsOn)
	}

	queue := make([]string, 0)
	for path, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, path)
		}
	}

	result := make([]string, 0, len(dg.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		if node, exists := dg.nodes[current]; exists {
			for _, dependent := range node.DependedBy {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					queue = append(queue, dependent)
				}
			}
		}
	}

	if len(result) != len(dg.nodes) {
		return nil, &CycleError{Message: "circular dependency detected in module graph"}
	}
	return result, nil
}

// RemoveFile drops a file and all its edges.
func (dg *DependencyGraph) RemoveFile(path string) {
	dg.mu.Lock()
	defer dg.mu.Unlock()

	if node, exists := dg.nodes[path]; exists {
		for _, dependent := range node.DependedBy {
			if depNode, ok := dg.nodes[dependent]; ok {
				depNode.DependsOn = removeString(depNode.DependsOn, path)
			}
		}
		for _, dependency := range node.DependsOn {
			if depNode, ok := dg.nodes[dependency]; ok {
				depNode.DependedBy = removeString(depNode.DependedBy, path)
			}
		}
		delete(dg.nodes, path)
	}
}

// Clear removes all entries from the dependency graph.
func (dg *DependencyGraph) Clear() {
	dg.mu.Lock()
	defer dg.mu.Unlock()
	dg.nodes = make(map[string]*FileDependency)
}

// Size returns the number of files in the graph.
func (dg *DependencyGraph) Size() int {
	dg.mu.RLock()
	defer dg.mu.RUnlock()
	return len(dg.nodes)
}

// BuildDependencies walks a parsed program's import declarations and
// records an edge for every local module import, resolved against the
// importing file's directory. Built-in sailfin/* modules live in the
// runtime, not on disk, and add no edge.
func (dg *DependencyGraph) BuildDependencies(path string, program *ast.Program) {
	dg.AddFile(path)

	for _, decl := range program.Declarations {
		imp, ok := decl.(*ast.ImportDecl)
		if !ok {
			continue
		}
		if strings.HasPrefix(imp.SourcePath, "sailfin/") {
			continue
		}
		resolved := imp.SourcePath
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(filepath.Dir(path), resolved)
		}
		resolved = filepath.Clean(resolved)
		dg.AddDependency(path, resolved)
	}
}

// CycleError reports a circular dependency in the module graph.
type CycleError struct {
	Message string
}

func (e *CycleError) Error() string {
	return e.Message
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func removeString(slice []string, item string) []string {
	result := make([]string, 0, len(slice))
	for _, s := range slice {
		if s != item {
			result = append(result, s)
		}
	}
	return result
}
