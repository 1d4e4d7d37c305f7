package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

// RenderDiagnostic writes one compiler diagnostic with the kind
// highlighted and a caret under the offending column, the terminal-
// facing sibling of diagnostics.Format.
func RenderDiagnostic(w io.Writer, d *diagnostics.Diagnostic, noColor bool) {
	kindColor := color.New(color.FgRed, color.Bold)
	lineColor := color.New(color.Faint)
	caretColor := color.New(color.FgYellow, color.Bold)
	if noColor {
		kindColor.DisableColor()
		lineColor.DisableColor()
		caretColor.DisableColor()
	}

	if d.Line > 0 {
		fmt.Fprintf(w, "%s: %s (line %d, column %d)\n", kindColor.Sprint(d.Kind.String()), d.Message, d.Line, d.Column)
	} else {
		fmt.Fprintf(w, "%s: %s\n", kindColor.Sprint(d.Kind.String()), d.Message)
	}

	if d.SourceLine != "" {
		fmt.Fprintf(w, "  %s\n", lineColor.Sprint(d.SourceLine))
		offset := d.CaretOffset
		if offset < 0 {
			offset = 0
		}
		fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", offset), caretColor.Sprint("^"))
	}
}

// RenderDiagnostics writes every diagnostic in the list, blank-line
// separated.
func RenderDiagnostics(w io.Writer, list *diagnostics.List, noColor bool) {
	for i, d := range list.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		RenderDiagnostic(w, d, noColor)
	}
}
