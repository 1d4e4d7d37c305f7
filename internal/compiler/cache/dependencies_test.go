package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

func TestDependencyGraph_AddAndQuery(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/src/main.sfn", "/src/util.sfn")

	assert.Equal(t, []string{"/src/util.sfn"}, dg.GetDependencies("/src/main.sfn"))
	assert.Equal(t, []string{"/src/main.sfn"}, dg.GetDependents("/src/util.sfn"))
	assert.Equal(t, 2, dg.Size())
}

func TestDependencyGraph_DuplicateEdgesCollapse(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/a", "/b")
	dg.AddDependency("/a", "/b")
	assert.Len(t, dg.GetDependencies("/a"), 1)
	assert.Len(t, dg.GetDependents("/b"), 1)
}

func TestDependencyGraph_TransitiveDependents(t *testing.T) {
	// main -> util -> base: a change to base invalidates util and main.
	dg := NewDependencyGraph()
	dg.AddDependency("/src/main.sfn", "/src/util.sfn")
	dg.AddDependency("/src/util.sfn", "/src/base.sfn")

	dependents := dg.GetTransitiveDependents("/src/base.sfn")
	assert.ElementsMatch(t, []string{"/src/util.sfn", "/src/main.sfn"}, dependents)
}

func TestDependencyGraph_TopologicalOrder(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/main", "/util")
	dg.AddDependency("/util", "/base")

	order, err := dg.GetTopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := map[string]int{}
	for i, p := range order {
		pos[p] = i
	}
	assert.Less(t, pos["/base"], pos["/util"])
	assert.Less(t, pos["/util"], pos["/main"])
}

func TestDependencyGraph_CycleDetection(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/a", "/b")
	dg.AddDependency("/b", "/a")

	_, err := dg.GetTopologicalOrder()
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestDependencyGraph_RemoveFile(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/main", "/util")
	dg.RemoveFile("/util")

	assert.Empty(t, dg.GetDependencies("/main"))
	assert.Equal(t, 1, dg.Size())
}

func TestDependencyGraph_IndependentFiles(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("/main", "/util")
	dg.AddFile("/standalone")

	assert.ElementsMatch(t, []string{"/util", "/standalone"}, dg.GetIndependentFiles())
}

func TestBuildDependencies_ExtractsLocalImports(t *testing.T) {
	prog := &ast.Program{
		Declarations: []ast.Declaration{
			&ast.ImportDecl{SourcePath: "./util.sfn", Items: []string{"helper"}},
			&ast.ImportDecl{SourcePath: "sailfin/io", Items: []string{"read_file"}},
			&ast.FnDecl{Name: "main", Body: &ast.BlockStmt{}},
		},
	}

	dg := NewDependencyGraph()
	mainPath := filepath.Join("/proj", "main.sfn")
	dg.BuildDependencies(mainPath, prog)

	deps := dg.GetDependencies(mainPath)
	require.Len(t, deps, 1, "built-in sailfin/* imports add no file edge")
	assert.Equal(t, filepath.Join("/proj", "util.sfn"), deps[0])
}
