package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/ui"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sailfin %s\n", Version)

			kv := ui.NewKeyValueTable(out, flagNoColor)
			kv.AddRow("commit", GitCommit)
			kv.AddRow("built", BuildDate)
			kv.AddRow("go version", GoVersion)
			kv.Render()
		},
	}
}
