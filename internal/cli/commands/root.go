// Package commands defines the sailfin CLI command tree.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

var (
	flagVerbose bool
	flagNoColor bool
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sailfin",
		Short: "Sailfin programming language compiler and tooling",
		Long: color.CyanString(`Sailfin - a statically-typed language with structs, enums,
interfaces, generics, pattern matching, and channel-based concurrency.

The bootstrap compiler reads .sfn source, checks it, and emits a
self-contained program for the host runtime.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagNoColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable diagnostic dumps and debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		NewBuildCommand(),
		NewRunCommand(),
		NewWatchCommand(),
		NewCacheCommand(),
		NewInitCommand(),
		NewDocsCommand(),
		NewVersionCommand(),
		NewCompletionCommand(),
	)

	return rootCmd
}
