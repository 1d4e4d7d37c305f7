// Package diagnostics defines the compiler's error taxonomy: every
// failure the core compiler can produce is one of the five kinds named
// in this file, each carrying enough span and context information for
// Format (formatter.go) to render a source-line-and-caret message.
//
// There is no recovery inside the core: the lexer and parser each
// accumulate every error they find in one pass (so a user sees every
// problem in a file at once), but validation and code generation stop
// at the first diagnostic they produce. InternalError must never
// originate from user input — it marks a compiler bug.
package diagnostics

import "fmt"

// Kind discriminates the compiler's five diagnostic categories.
type Kind int

const (
	KindLexer Kind = iota
	KindParser
	KindValidation
	KindImport
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "LexerError"
	case KindParser:
		return "ParserError"
	case KindValidation:
		return "ValidationError"
	case KindImport:
		return "ImportError"
	case KindInternal:
		return "InternalError"
	default:
		return "UnknownError"
	}
}

// Diagnostic is a single structured compiler error.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
	Column  int

	// Parser-specific detail (zero values elsewhere).
	Found    string
	Expected []string

	// Import-specific detail (zero values elsewhere).
	FromPath string
	ToPath   string

	// SourceLine and CaretOffset let the formatter render the offending
	// line with a caret under the exact column; populated by whichever
	// stage raises the diagnostic, since only that stage has the
	// original source text at hand.
	SourceLine  string
	CaretOffset int
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", d.Kind, d.Line, d.Column, d.Message)
}

// NewLexerError wraps a lexer-reported problem as a Diagnostic.
func NewLexerError(line, col int, message, sourceLine string, caretOffset int) *Diagnostic {
	return &Diagnostic{
		Kind:        KindLexer,
		Message:     message,
		Line:        line,
		Column:      col,
		SourceLine:  sourceLine,
		CaretOffset: caretOffset,
	}
}

// NewParserError reports that `found` appeared where one of `expected`
// was required.
func NewParserError(line, col int, found string, expected []string, sourceLine string) *Diagnostic {
	msg := fmt.Sprintf("unexpected %s", found)
	if len(expected) > 0 {
		msg = fmt.Sprintf("expected %s, found %s", joinOr(expected), found)
	}
	return &Diagnostic{
		Kind:        KindParser,
		Message:     msg,
		Line:        line,
		Column:      col,
		Found:       found,
		Expected:    expected,
		SourceLine:  sourceLine,
		CaretOffset: col - 1,
	}
}

// NewValidationError reports a well-formedness violation anchored to a
// node's location and a human-readable description of the node kind.
func NewValidationError(line, col int, nodeDesc, message string) *Diagnostic {
	return &Diagnostic{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", nodeDesc, message),
		Line:    line,
		Column:  col,
	}
}

// NewImportError reports a missing module or an import cycle. When
// cyclePath is non-empty the message names every path in the cycle, so
// both ends of the loop are visible.
func NewImportError(fromPath, toPath string, cyclePath []string) *Diagnostic {
	if len(cyclePath) > 0 {
		return &Diagnostic{
			Kind:     KindImport,
			Message:  fmt.Sprintf("circular import: %s", joinArrow(cyclePath)),
			FromPath: fromPath,
			ToPath:   toPath,
		}
	}
	return &Diagnostic{
		Kind:     KindImport,
		Message:  fmt.Sprintf("cannot find module %q imported from %q", toPath, fromPath),
		FromPath: fromPath,
		ToPath:   toPath,
	}
}

// NewInternalError wraps a compiler-internal invariant violation. This
// must never be constructed in response to anything a user wrote; it
// exists so a broken invariant fails loudly instead of producing
// corrupted output.
func NewInternalError(message string) *Diagnostic {
	return &Diagnostic{
		Kind:    KindInternal,
		Message: message,
	}
}

// List accumulates diagnostics from a single compiler stage.
type List struct {
	items []*Diagnostic
}

func (l *List) Add(d *Diagnostic) {
	if d != nil {
		l.items = append(l.items, d)
	}
}

func (l *List) Items() []*Diagnostic { return l.items }
func (l *List) HasErrors() bool      { return len(l.items) > 0 }
func (l *List) Len() int             { return len(l.items) }

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		out := items[0]
		for i := 1; i < len(items)-1; i++ {
			out += ", " + items[i]
		}
		out += " or " + items[len(items)-1]
		return out
	}
}

func joinArrow(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}
