package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoader_EmbedsRelativeImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "mathlib.sfn", `
fn double(x: number) -> number { return x * 2; }
`)
	mainPath := writeModule(t, dir, "main.sfn", `
import { double } from "./mathlib.sfn"
fn main() -> void { print.info(double(21)); }
`)

	out, diags := NewSession(dir).CompileFile(mainPath)
	require.False(t, diags.HasErrors(), "diagnostics: %s", diagnostics.FormatList(diags))

	// The dependency is embedded, executed into an isolated scope, and
	// its exports bound through a namespace object.
	assert.Contains(t, out, "_base64.b64decode(")
	assert.Contains(t, out, "mathlib = _module_mathlib()")
	assert.Contains(t, out, "double = mathlib.double")
	assert.Contains(t, out, "print(double(21))")
	// Self-contained: no file references to the dependency at run time.
	assert.NotContains(t, out, "mathlib.sfn")
}

func TestLoader_EmbeddedModuleHasNoEntryBlock(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.sfn", `
fn helper() -> number { return 1; }
fn main() -> void { print.info("should not run"); }
`)
	mainPath := writeModule(t, dir, "main.sfn", `
import { helper } from "./util.sfn"
fn main() -> void { print.info(helper()); }
`)

	out, diags := NewSession(dir).CompileFile(mainPath)
	require.False(t, diags.HasErrors())

	sess := NewSession(dir)
	_, _ = sess.CompileFile(mainPath)
	mod := sess.loaded[mustAbs(t, filepath.Join(dir, "util.sfn"))]
	require.NotNil(t, mod)
	assert.NotContains(t, mod.Source, `if __name__ == "__main__":`)
	assert.NotContains(t, mod.Source, "from __future__")
	assert.Contains(t, out, `if __name__ == "__main__":`)
}

func TestLoader_SamePathCompiledOnce(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "shared.sfn", `
fn answer() -> number { return 42; }
`)
	mainPath := writeModule(t, dir, "main.sfn", `
import { answer } from "./shared.sfn"
import { answer } from "./shared.sfn"
fn main() -> void { print.info(answer()); }
`)

	sess := NewSession(dir)
	out, diags := sess.CompileFile(mainPath)
	require.False(t, diags.HasErrors())

	first, err := sess.loadModule("./shared.sfn", mainPath)
	require.Nil(t, err)
	second, err := sess.loadModule("./shared.sfn", mainPath)
	require.Nil(t, err)
	assert.Same(t, first, second, "same path must yield the same cached artifact")

	// The parent embeds the dependency once and reuses the namespace.
	assert.Equal(t, 1, countOccurrences(out, "_scope_shared = {}"))
}

func TestLoader_CircularImportRejected(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.sfn", `
import { b_fn } from "./b.sfn"
fn a_fn() -> number { return 1; }
`)
	writeModule(t, dir, "b.sfn", `
import { a_fn } from "./a.sfn"
fn b_fn() -> number { return 2; }
`)
	mainPath := writeModule(t, dir, "main.sfn", `
import { a_fn } from "./a.sfn"
fn main() -> void { print.info(a_fn()); }
`)

	out, diags := NewSession(dir).CompileFile(mainPath)
	require.True(t, diags.HasErrors())
	assert.Empty(t, out, "no target may be produced for a cyclic program")

	d := diags.Items()[0]
	assert.Equal(t, diagnostics.KindImport, d.Kind)
	assert.Contains(t, d.Message, "circular import")
	assert.Contains(t, d.Message, "a.sfn")
	assert.Contains(t, d.Message, "b.sfn")
}

func TestLoader_MissingModule(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeModule(t, dir, "main.sfn", `
import { gone } from "./nope.sfn"
fn main() -> void { }
`)

	_, diags := NewSession(dir).CompileFile(mainPath)
	require.True(t, diags.HasErrors())
	assert.Equal(t, diagnostics.KindImport, diags.Items()[0].Kind)
}

func TestLoader_BuiltinModulePassesThrough(t *testing.T) {
	out, diags := NewSession("").CompileSource(`
import { read_file } from "sailfin/io"
fn main() -> void { print.info(read_file("x")); }
`, "main.sfn")
	require.False(t, diags.HasErrors())
	assert.Contains(t, out, "from sailfin.io import read_file")
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}
