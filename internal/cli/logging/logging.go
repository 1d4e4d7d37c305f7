// Package logging builds the zap logger used by long-running Sailfin
// processes (watch mode, the cache). One-shot compiles talk to the user
// through the diagnostics formatter instead; log lines and compiler
// diagnostics are different channels and must not interleave.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a production logger, or a human-readable development
// logger when verbose is set (the CLI's --verbose flag).
func New(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// NewNop returns a logger that discards everything, for tests and for
// code paths that require a logger but run inside a one-shot compile.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
