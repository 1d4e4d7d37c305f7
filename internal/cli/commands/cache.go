package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/config"
	"github.com/sailfin-lang/sailfin/internal/cli/ui"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the persistent compile cache",
	}
	cmd.AddCommand(newCacheStatsCommand(), newCacheClearCommand())
	return cmd
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store := openTargetStore(cfg)
			if store == nil {
				return fmt.Errorf("cache backend %q is not reachable", cfg.Cache.Backend)
			}
			defer store.Close()

			count, err := store.Len()
			if err != nil {
				return fmt.Errorf("failed to read cache stats: %w", err)
			}

			table := ui.NewTable(cmd.OutOrStdout(), []string{"Backend", "Location", "Entries"}, &ui.TableOptions{NoColor: flagNoColor || !cfg.Color})
			location := cfg.CacheDir
			if cfg.Cache.Backend == "redis" {
				location = cfg.Cache.RedisAddr
			}
			table.AddRow(cfg.Cache.Backend, location, fmt.Sprintf("%d", count))
			table.Render()
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached compile results (SQLite backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cfg.Cache.Backend == "sqlite" {
				dbPath, err := cfg.CacheDBPath()
				if err != nil {
					return err
				}
				if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove cache database: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return nil
			}

			store := openTargetStore(cfg)
			if store == nil {
				return fmt.Errorf("cache backend %q is not reachable", cfg.Cache.Backend)
			}
			defer store.Close()
			// No keys are removed for the Redis backend: its entries
			// expire via TTL, and the command only prints how to clear
			// the namespace by hand.
			fmt.Fprintln(cmd.OutOrStdout(), "Redis cache entries expire via TTL; clear the namespace with redis-cli if needed.")
			return nil
		},
	}
}
