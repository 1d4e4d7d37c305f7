package diagnostics

import (
	"fmt"
	"strings"
)

// Format renders a single diagnostic as a human-readable, multi-line
// message with a source line and a caret under the offending column.
func Format(d *Diagnostic) string {
	var b strings.Builder

	if d.Line > 0 {
		fmt.Fprintf(&b, "%s: %s (line %d, column %d)\n", d.Kind, d.Message, d.Line, d.Column)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", d.Kind, d.Message)
	}

	if d.SourceLine != "" {
		fmt.Fprintf(&b, "  %s\n", d.SourceLine)
		offset := d.CaretOffset
		if offset < 0 {
			offset = 0
		}
		b.WriteString("  " + strings.Repeat(" ", offset) + "^\n")
	}

	return b.String()
}

// FormatList renders every diagnostic in l, separated by blank lines.
func FormatList(l *List) string {
	var b strings.Builder
	for i, d := range l.Items() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Format(d))
	}
	return b.String()
}
