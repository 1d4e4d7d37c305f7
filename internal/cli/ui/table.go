package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table renders aligned columnar output for commands like `sailfin
// cache stats`. A column whose every cell is numeric is right-aligned
// so counts and sizes line up by magnitude; any other column is
// left-aligned.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior.
type TableOptions struct {
	NoColor bool
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	noColor := false
	if opts != nil {
		noColor = opts.NoColor
	}
	return &Table{
		writer:  w,
		headers: headers,
		rows:    make([][]string, 0),
		noColor: noColor,
	}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table: bold headers, a rule, then the rows.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	numeric := make([]bool, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
		numeric[i] = len(t.rows) > 0
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
			if !isNumericCell(cell) {
				numeric[i] = false
			}
		}
	}

	headerColor := color.New(color.Bold, color.FgCyan)
	ruleColor := color.New(color.FgHiBlack)
	if t.noColor {
		headerColor.DisableColor()
		ruleColor.DisableColor()
	}

	for i, header := range t.headers {
		headerColor.Fprint(t.writer, pad(header, widths[i], false))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for i, width := range widths {
		ruleColor.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			ruleColor.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			fmt.Fprint(t.writer, pad(cell, widths[i], numeric[i]))
			if i < len(row)-1 {
				fmt.Fprint(t.writer, "  ")
			}
		}
		fmt.Fprintln(t.writer)
	}
}

func isNumericCell(cell string) bool {
	if cell == "" {
		return false
	}
	for _, r := range cell {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return false
		}
	}
	return true
}

// pad left- or right-aligns s within width.
func pad(s string, width int, alignRight bool) string {
	if len(s) >= width {
		return s
	}
	fill := strings.Repeat(" ", width-len(s))
	if alignRight {
		return fill + s
	}
	return s + fill
}

// KeyValueTable renders colon-aligned key/value pairs, e.g. `sailfin
// version`'s build metadata.
type KeyValueTable struct {
	writer  io.Writer
	rows    []kvRow
	noColor bool
}

type kvRow struct {
	key   string
	value string
}

func NewKeyValueTable(w io.Writer, noColor bool) *KeyValueTable {
	return &KeyValueTable{writer: w, noColor: noColor}
}

// AddRow appends one key/value pair.
func (t *KeyValueTable) AddRow(key, value string) {
	t.rows = append(t.rows, kvRow{key: key, value: value})
}

// Render writes the pairs with keys padded to a common width.
func (t *KeyValueTable) Render() {
	if len(t.rows) == 0 {
		return
	}

	maxKeyWidth := 0
	for _, row := range t.rows {
		if len(row.key) > maxKeyWidth {
			maxKeyWidth = len(row.key)
		}
	}

	keyColor := color.New(color.FgCyan)
	if t.noColor {
		keyColor.DisableColor()
	}
	for _, row := range t.rows {
		keyColor.Fprint(t.writer, pad(row.key+":", maxKeyWidth+1, false))
		fmt.Fprintf(t.writer, " %s\n", row.value)
	}
}

// SignatureTable renders the stdlib registry's signature/description
// shape (`sailfin docs`): signatures in cyan, descriptions dimmed,
// grouped under an optional bold title.
type SignatureTable struct {
	writer  io.Writer
	title   string
	rows    []kvRow
	noColor bool
}

// NewSignatureTable creates a signature listing under title ("" for no
// heading).
func NewSignatureTable(w io.Writer, title string, noColor bool) *SignatureTable {
	return &SignatureTable{writer: w, title: title, noColor: noColor}
}

// Add appends one signature with its description.
func (t *SignatureTable) Add(signature, description string) {
	t.rows = append(t.rows, kvRow{key: signature, value: description})
}

// Render writes the listing. Empty tables render nothing, so a command
// can build one per namespace unconditionally.
func (t *SignatureTable) Render() {
	if len(t.rows) == 0 {
		return
	}

	titleColor := color.New(color.Bold, color.FgCyan)
	sigColor := color.New(color.FgCyan)
	descColor := color.New(color.Faint)
	if t.noColor {
		titleColor.DisableColor()
		sigColor.DisableColor()
		descColor.DisableColor()
	}

	if t.title != "" {
		titleColor.Fprintln(t.writer, t.title)
	}

	maxSigWidth := 0
	for _, row := range t.rows {
		if len(row.key) > maxSigWidth {
			maxSigWidth = len(row.key)
		}
	}
	for _, row := range t.rows {
		fmt.Fprint(t.writer, "  ")
		sigColor.Fprint(t.writer, pad(row.key, maxSigWidth, false))
		fmt.Fprint(t.writer, "  ")
		descColor.Fprintln(t.writer, row.value)
	}
}
