package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_RendersHeadersRuleAndRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Backend", "Entries"}, &TableOptions{NoColor: true})
	table.AddRow("sqlite", "12")
	table.Render()

	out := buf.String()
	assert.Contains(t, out, "Backend")
	assert.Contains(t, out, "─")
	assert.Contains(t, out, "sqlite")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header, rule, one row")
}

func TestTable_NumericColumnsRightAlign(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"File", "Lines"}, &TableOptions{NoColor: true})
	table.AddRow("main.sfn", "7")
	table.AddRow("util.sfn", "123")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[2], "  7"), "short counts pad from the left: %q", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "123"))
}

func TestTable_MixedColumnStaysLeftAligned(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Key", "Value"}, &TableOptions{NoColor: true})
	table.AddRow("workers", "4")
	table.AddRow("backend", "sqlite")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.True(t, strings.Contains(lines[2], "workers  4"), "non-numeric column keeps left alignment: %q", lines[2])
}

func TestTable_EmptyHeadersRenderNothing(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, nil, &TableOptions{NoColor: true}).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("commit", "abc1234")
	kv.AddRow("go version", "go1.23.1")
	kv.Render()

	out := buf.String()
	assert.Contains(t, out, "commit:")
	assert.Contains(t, out, "go version: go1.23.1")
	// Keys pad to a common width so values align.
	assert.Contains(t, out, "commit:     abc1234")
}

func TestKeyValueTable_EmptyRendersNothing(t *testing.T) {
	var buf bytes.Buffer
	NewKeyValueTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestSignatureTable_RendersRegistryShape(t *testing.T) {
	var buf bytes.Buffer
	st := NewSignatureTable(&buf, "print", true)
	st.Add("info(value: any) -> void", "Writes a value to standard output")
	st.Add("warn(value: any) -> void", "Writes a value to standard output (warning channel)")
	st.Render()

	out := buf.String()
	assert.Contains(t, out, "print\n")
	assert.Contains(t, out, "  info(value: any) -> void")
	assert.Contains(t, out, "Writes a value to standard output")
}

func TestSignatureTable_EmptyRendersNothing(t *testing.T) {
	var buf bytes.Buffer
	NewSignatureTable(&buf, "sailfin/io", true).Render()
	assert.Empty(t, buf.String())
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", pad("ab", 5, false))
	assert.Equal(t, "   ab", pad("ab", 5, true))
	assert.Equal(t, "abcdef", pad("abcdef", 3, false))
}
