package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		verbose bool
	}{
		{"production", false},
		{"development", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.verbose)
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Equal(t, tc.verbose, logger.Core().Enabled(-1), "debug level only in verbose mode")
			_ = logger.Sync()
		})
	}
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)
	logger.Info("discarded")
}
