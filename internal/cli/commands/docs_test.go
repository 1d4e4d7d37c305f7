package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsCommand_ListsEverything(t *testing.T) {
	out, err := executeCommand(t, "docs")
	require.NoError(t, err)

	assert.Contains(t, out, "Built-in generic types")
	assert.Contains(t, out, "Channel")
	assert.Contains(t, out, "Namespaces")
	assert.Contains(t, out, "print")
	assert.Contains(t, out, "seq.map")
}

func TestDocsCommand_SingleNamespace(t *testing.T) {
	out, err := executeCommand(t, "docs", "print")
	require.NoError(t, err)
	assert.Contains(t, out, "info(value: any) -> void")
}

func TestDocsCommand_UnknownNamespaceSuggests(t *testing.T) {
	_, err := executeCommand(t, "docs", "prin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown namespace")
	assert.Contains(t, err.Error(), "print")
}
