package codegen

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
	"github.com/sailfin-lang/sailfin/internal/compiler/parser"
	"github.com/sailfin-lang/sailfin/internal/compiler/validator"
)

// Session owns one compilation: the module-load caches, the cycle
// detector, and the base path import specifiers resolve against. It is
// single-threaded and not reentrant; a concurrent caller creates a new
// Session.
type Session struct {
	basePath string

	// loaded caches each resolved path's compiled artifact, so importing
	// the same module twice yields the same artifact; loading is the
	// in-progress set that turns a cycle into an ImportError instead of
	// infinite recursion.
	loaded  map[string]*compiledModule
	loading map[string]bool

	// loadStack records the chain of in-progress module paths, outermost
	// first, so a cycle error can name the whole loop.
	loadStack []string
}

// compiledModule is the cached result of compiling one dependency.
type compiledModule struct {
	Path   string
	Source string // generated Python, embedded-module form
}

// Encoded returns the module source in the base64 form the parent
// program embeds, so no temp file is needed at run time.
func (m *compiledModule) Encoded() string {
	return base64.StdEncoding.EncodeToString([]byte(m.Source))
}

// NewSession creates a compiler session rooted at basePath, which
// anchors bare import specifiers when there is no importing file.
func NewSession(basePath string) *Session {
	return &Session{
		basePath: basePath,
		loaded:   map[string]*compiledModule{},
		loading:  map[string]bool{},
	}
}

// CompileFile reads and compiles one Sailfin source file to a complete
// Python program.
func (s *Session) CompileFile(path string) (string, *diagnostics.List) {
	data, err := os.ReadFile(path)
	if err != nil {
		list := &diagnostics.List{}
		list.Add(diagnostics.NewImportError("", path, nil))
		return "", list
	}
	return s.CompileSource(string(data), path)
}

// CompileSource runs the full pipeline — lex, parse, validate, emit —
// over source, resolving imports relative to path. On failure the
// returned list holds every diagnostic the failing stage produced.
func (s *Session) CompileSource(source, path string) (string, *diagnostics.List) {
	return s.compile(source, path, false)
}

func (s *Session) compile(source, path string, embedded bool) (string, *diagnostics.List) {
	list := &diagnostics.List{}
	sourceLines := strings.Split(source, "\n")

	tokens, lexErrs := lexer.New(source).ScanTokens()
	for _, e := range lexErrs {
		list.Add(diagnostics.NewLexerError(e.Line, e.Column, e.Message, e.SourceLine, e.CaretOffset))
	}
	if list.HasErrors() {
		return "", list
	}

	prog, parseErrs := parser.Parse(tokens, sourceLines)
	for _, d := range parseErrs {
		list.Add(d)
	}
	if list.HasErrors() {
		return "", list
	}
	prog.Path = path

	if d := validator.Validate(prog); d != nil {
		list.Add(d)
		return "", list
	}

	g := newGenerator()
	g.loader = s
	g.currentFile = path
	g.embedded = embedded
	out, d := g.emitProgram(prog)
	if d != nil {
		list.Add(d)
		return "", list
	}
	return out, list
}

// loadModule resolves, compiles, and caches the module at specifier
// relative to currentFile. Loading is fully recursive: a dependency's
// own imports are resolved (and embedded into its compiled source)
// before the dependency is returned.
func (s *Session) loadModule(specifier, currentFile string) (*compiledModule, *diagnostics.Diagnostic) {
	resolved, err := s.resolvePath(specifier, currentFile)
	if err != nil {
		return nil, diagnostics.NewImportError(currentFile, specifier, nil)
	}

	if mod, ok := s.loaded[resolved]; ok {
		return mod, nil
	}

	if s.loading[resolved] {
		cycle := append(append([]string{}, s.loadStack...), resolved)
		return nil, diagnostics.NewImportError(currentFile, resolved, cycle)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, diagnostics.NewImportError(currentFile, specifier, nil)
	}

	s.loading[resolved] = true
	s.loadStack = append(s.loadStack, resolved)
	defer func() {
		delete(s.loading, resolved)
		s.loadStack = s.loadStack[:len(s.loadStack)-1]
	}()

	source, list := s.compile(string(data), resolved, true)
	if list.HasErrors() {
		return nil, list.Items()[0]
	}

	mod := &compiledModule{Path: resolved, Source: source}
	s.loaded[resolved] = mod
	return mod, nil
}

// resolvePath maps an import specifier to an absolute file path.
// Absolute specifiers are used as written. Every other specifier resolves
// against the importing file's directory; only a bare (not ./ or ../)
// specifier with no importing file falls back to the session base path.
func (s *Session) resolvePath(specifier, currentFile string) (string, error) {
	var candidate string
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		candidate = filepath.Join(filepath.Dir(currentFile), specifier)
	} else if filepath.IsAbs(specifier) {
		candidate = specifier
	} else if currentFile != "" {
		candidate = filepath.Join(filepath.Dir(currentFile), specifier)
	} else {
		candidate = filepath.Join(s.basePath, specifier)
	}
	return filepath.Abs(candidate)
}

// moduleStem returns the namespace-object name for a module path:
// the file stem with anything Python would reject replaced by an
// underscore.
func moduleStem(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for i, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
