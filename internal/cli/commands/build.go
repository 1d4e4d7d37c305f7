package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/config"
	"github.com/sailfin-lang/sailfin/internal/cli/ui"
	"github.com/sailfin-lang/sailfin/internal/compiler/cache"
	"github.com/sailfin-lang/sailfin/internal/compiler/codegen"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

var (
	buildOutput         string
	buildNoCache        bool
	buildForceBootstrap bool
)

// NewBuildCommand creates the build command: compile one Sailfin source
// file to a target program without executing it.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file.sfn>",
		Short: "Compile a Sailfin source file to a target program",
		Long: `Compile a .sfn source file through the full pipeline — lex, parse,
validate, emit — and write the target program. Imports are resolved
relative to the source file and embedded, so the output is
self-contained.`,
		Example: `  # Compile next to the input (main.sfn -> main.py)
  sailfin build main.sfn

  # Compile to an explicit output path
  sailfin build main.sfn -o dist/main.py`,
		Args: cobra.ExactArgs(1),
		RunE: runBuild,
	}

	cmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output path (default: adjacent to the input)")
	cmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Bypass the persistent compile cache")
	cmd.Flags().BoolVar(&buildForceBootstrap, "force-bootstrap", false, "Accepted for compatibility; has no effect")
	_ = cmd.Flags().MarkHidden("force-bootstrap")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	sourcePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	spinner := ui.NewCompileSpinner(cmd.ErrOrStderr(), sourcePath, flagNoColor || !cfg.Color)
	spinner.Start()
	target, diags, err := compileToTarget(cmd, cfg, sourcePath)
	spinner.Stop()
	if diags != nil && diags.HasErrors() {
		ui.RenderDiagnostics(cmd.ErrOrStderr(), diags, flagNoColor || !cfg.Color)
	}
	if err != nil {
		return err
	}

	outputPath := buildOutput
	if outputPath == "" {
		outputPath = cfg.OutputPath
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(sourcePath)
	} else if info, statErr := os.Stat(outputPath); statErr == nil && info.IsDir() {
		outputPath = filepath.Join(outputPath, filepath.Base(defaultOutputPath(sourcePath)))
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(target), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(),
		"Compiled %s -> %s (%s)\n", sourcePath, outputPath, time.Since(start).Round(time.Millisecond))
	return nil
}

// compileToTarget compiles sourcePath with the persistent target cache
// in front of the session: an unchanged file returns its stored target
// without re-running the pipeline. Compiler diagnostics come back in
// the list for the caller to render (after any spinner has cleared the
// line); the error carries no duplicate text.
func compileToTarget(cmd *cobra.Command, cfg *config.Config, sourcePath string) (string, *diagnostics.List, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", sourcePath, err)
	}
	source := string(data)

	var store cache.TargetStore
	if !buildNoCache {
		store = openTargetStore(cfg)
		if store != nil {
			defer store.Close()
		}
	}

	hasher := cache.NewFileHasher()
	hash := hasher.HashString(source)

	if store != nil {
		if entry, ok, getErr := store.Get(hash); getErr == nil && ok {
			if flagVerbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "cache hit for %s\n", sourcePath)
			}
			return entry.Target, nil, nil
		}
	}

	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		absPath = sourcePath
	}
	session := codegen.NewSession(filepath.Dir(absPath))
	target, diags := session.CompileSource(source, absPath)
	if diags.HasErrors() {
		return "", diags, fmt.Errorf("compilation failed with %d error(s)", diags.Len())
	}

	if store != nil {
		_ = store.Put(&cache.TargetEntry{
			Hash:       hash,
			SourcePath: absPath,
			Target:     target,
		})
	}
	return target, nil, nil
}

// openTargetStore opens the configured persistent cache, or returns nil
// when the cache is unavailable (a build must never fail because its
// cache does).
func openTargetStore(cfg *config.Config) cache.TargetStore {
	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisStore(cache.RedisOptions{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil
		}
		return store
	}
	dbPath, err := cfg.CacheDBPath()
	if err != nil {
		return nil
	}
	store, err := cache.NewSQLiteStore(dbPath)
	if err != nil {
		return nil
	}
	return store
}

// defaultOutputPath maps main.sfn to main.py adjacent to the input.
func defaultOutputPath(sourcePath string) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	return base + ".py"
}
