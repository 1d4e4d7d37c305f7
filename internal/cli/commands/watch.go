package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/config"
	"github.com/sailfin-lang/sailfin/internal/cli/logging"
	"github.com/sailfin-lang/sailfin/internal/watch"
)

var (
	watchHost string
	watchPort int
)

// NewWatchCommand creates the watch command: recompile on change and
// serve compile events to connected clients.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a project and recompile on change",
		Long: `Watch every .sfn file under the directory (default: the current
one), recompiling changed modules and their dependents incrementally.
Compile results and diagnostics are served at /status and streamed over
a WebSocket at /events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&watchHost, "host", "", "Bind host (default from config)")
	cmd.Flags().IntVar(&watchPort, "port", 0, "Bind port (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	host := cfg.Watch.Host
	if watchHost != "" {
		host = watchHost
	}
	port := cfg.Watch.Port
	if watchPort != 0 {
		port = watchPort
	}

	logger, err := logging.New(flagVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := watch.NewServer(watch.Options{
		Root:   root,
		Host:   host,
		Port:   port,
		Logger: logger,
	})
	return server.Start(ctx)
}
