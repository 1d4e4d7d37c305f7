// Package codegen emits a self-contained Python/asyncio program from a
// validated Sailfin AST.
//
// Emission is two-pass: a read-only scan pass (scan.go) computes which
// functions contain routines, which routines appear at module scope,
// which names are module-scope globals, and which generic type
// parameters need runtime TypeVar declarations; the emit pass then
// produces source text without ever mutating the AST. All generated
// helper names come from a per-generator counter, so the output is
// byte-identical across runs for the same input.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

// Generator holds the state of one emit pass over one module.
type Generator struct {
	lines   []string
	indent  int
	imports map[string]bool

	scan *analysis

	tests            []testCase
	topLevelRoutines []string

	// currentFn is the stack of enclosing named-function names,
	// innermost last; asyncDepth counts enclosing async contexts
	// (async functions, async blocks, routine bodies), which is what
	// legitimizes an await.
	currentFn  []string
	inFunction bool
	asyncDepth int

	// channelVars records local/global names bound to a Channel(...)
	// construction, so send/receive lowering can tell a channel from a
	// WebSocket-like object that happens to have a send method.
	channelVars map[string]bool

	uniqueSeq map[string]int

	// embedded suppresses the __future__ header and the entry-point
	// block when this module's output is embedded inside a parent
	// program by the module loader.
	embedded bool

	loader      *Session
	currentFile string

	// embeddedNS maps an already-embedded dependency path to the
	// namespace object bound for it, so importing the same module twice
	// from one file reuses the first embedding.
	embeddedNS map[string]string

	err *diagnostics.Diagnostic
}

func newGenerator() *Generator {
	return &Generator{
		imports:     map[string]bool{},
		channelVars: map[string]bool{},
		uniqueSeq:   map[string]int{},
		embeddedNS:  map[string]string{},
	}
}

// Emit generates a standalone Python program for prog. Programs with
// relative imports need a Session (which resolves and embeds them);
// emitting one without a session reports an ImportError.
func Emit(prog *ast.Program) (string, *diagnostics.Diagnostic) {
	g := newGenerator()
	return g.emitProgram(prog)
}

func (g *Generator) emitProgram(prog *ast.Program) (string, *diagnostics.Diagnostic) {
	g.scan = scanProgram(prog)

	for _, decl := range prog.Declarations {
		if g.err != nil {
			return "", g.err
		}
		g.emitDecl(decl)
	}
	if g.err != nil {
		return "", g.err
	}

	if !g.embedded {
		g.emitEntryPoint(prog)
	}

	return g.assemble(), g.err
}

// assemble prepends the import block and TypeVar declarations to the
// accumulated body lines. Imports and type variables are sorted so the
// output is deterministic.
func (g *Generator) assemble() string {
	var header []string
	if !g.embedded {
		header = append(header, "from __future__ import annotations")
	}

	if len(g.scan.typeVars) > 0 {
		g.addImport("from typing import TypeVar")
	}

	imports := make([]string, 0, len(g.imports))
	for imp := range g.imports {
		imports = append(imports, imp)
	}
	sort.Strings(imports)
	header = append(header, imports...)

	if len(g.scan.typeVars) > 0 {
		typeVars := make([]string, 0, len(g.scan.typeVars))
		for tv := range g.scan.typeVars {
			typeVars = append(typeVars, tv)
		}
		sort.Strings(typeVars)
		header = append(header, "")
		for _, tv := range typeVars {
			header = append(header, fmt.Sprintf("%s = TypeVar('%s')", tv, tv))
		}
	}
	header = append(header, "")

	return strings.Join(append(header, g.lines...), "\n")
}

// ---- line and name plumbing ----

func (g *Generator) write(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		g.lines = append(g.lines, "")
		return
	}
	g.lines = append(g.lines, strings.Repeat("    ", g.indent)+line)
}

func (g *Generator) blank() {
	g.lines = append(g.lines, "")
}

func (g *Generator) addImport(imp string) {
	g.imports[imp] = true
}

// uniqueName returns prefix_N with a per-prefix counter, giving stable
// generated names for a given AST regardless of anything outside the
// generator.
func (g *Generator) uniqueName(prefix string) string {
	g.uniqueSeq[prefix]++
	return fmt.Sprintf("_%s_%d", prefix, g.uniqueSeq[prefix])
}

func (g *Generator) fail(d *diagnostics.Diagnostic) {
	if g.err == nil {
		g.err = d
	}
}

func (g *Generator) failf(loc ast.SourceLocation, nodeDesc, format string, args ...interface{}) {
	g.fail(diagnostics.NewValidationError(loc.Line, loc.Column, nodeDesc, fmt.Sprintf(format, args...)))
}

func (g *Generator) currentFunction() string {
	if len(g.currentFn) == 0 {
		return ""
	}
	return g.currentFn[len(g.currentFn)-1]
}

func (g *Generator) pushFunction(name string, async bool) {
	g.currentFn = append(g.currentFn, name)
	g.inFunction = true
	if async {
		g.asyncDepth++
	}
}

func (g *Generator) popFunction(async bool) {
	g.currentFn = g.currentFn[:len(g.currentFn)-1]
	g.inFunction = len(g.currentFn) > 0
	if async {
		g.asyncDepth--
	}
}

// fnShouldBeAsync reports whether a function must be emitted `async
// def`: either it was declared async, or the scan pass saw a routine in
// its body.
func (g *Generator) fnShouldBeAsync(fn *ast.FnDecl) bool {
	return fn.IsAsync || g.scan.functionsWithRoutines[scanFnKey(fn)]
}

// pyStringQuote renders s as a double-quoted Python string literal.
func pyStringQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
