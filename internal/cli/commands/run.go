package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/config"
	"github.com/sailfin-lang/sailfin/internal/cli/ui"
)

var (
	runCompileOnly bool
	runTimeout     time.Duration
	runInterpreter string
)

// NewRunCommand creates the run command: compile a source file and
// execute the result on the host runtime.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file.sfn>",
		Short: "Compile and execute a Sailfin program",
		Example: `  # Compile and run
  sailfin run main.sfn

  # Compile only, skip execution
  sailfin run main.sfn --compile-only

  # Bound execution time (used by the example-runner harness)
  sailfin run server.sfn --run-timeout 2s`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}

	cmd.Flags().BoolVar(&runCompileOnly, "compile-only", false, "Compile without executing")
	cmd.Flags().DurationVar(&runTimeout, "run-timeout", 0, "Kill the program after this duration (0 = no limit)")
	cmd.Flags().StringVar(&runInterpreter, "interpreter", "python3", "Host interpreter to execute the target with")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	target, diags, err := compileToTarget(cmd, cfg, sourcePath)
	if diags != nil && diags.HasErrors() {
		ui.RenderDiagnostics(cmd.ErrOrStderr(), diags, flagNoColor || !cfg.Color)
	}
	if err != nil {
		return err
	}

	outputPath := defaultOutputPath(sourcePath)
	if err := os.WriteFile(outputPath, []byte(target), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if runCompileOnly {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = outputPath
	}
	proc := exec.CommandContext(ctx, runInterpreter, abs)
	proc.Stdout = cmd.OutOrStdout()
	proc.Stderr = cmd.ErrOrStderr()
	proc.Stdin = os.Stdin

	if err := proc.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("program exceeded --run-timeout of %s", runTimeout)
		}
		return fmt.Errorf("program exited with error: %w", err)
	}
	return nil
}
