package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/aksara/internal/cache"
	"github.com/ppiankov/aksara/internal/store"
)

// maintenanceCmd groups retention tasks on the scan store
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Retention tasks on the scan store",
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop segment details older than store.segment_grace",
	Args:  cobra.NoArgs,
	RunE: withJanitor(func(ctx context.Context, cmd *cobra.Command, j *store.Janitor, _ *store.Store) error {
		n, err := j.PurgeSegments(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Purged %d segments\n", n)
		return nil
	}),
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Delete scans older than store.history_retention",
	Args:  cobra.NoArgs,
	RunE: withJanitor(func(ctx context.Context, cmd *cobra.Command, j *store.Janitor, _ *store.Store) error {
		n, err := j.ExpireHistory(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Expired %d scans\n", n)
		return nil
	}),
}

var vacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Reclaim free space in the store",
	Args:  cobra.NoArgs,
	RunE: withJanitor(func(ctx context.Context, cmd *cobra.Command, j *store.Janitor, _ *store.Store) error {
		if err := j.Vacuum(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Vacuumed")
		return nil
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored scan",
	Args:  cobra.NoArgs,
	RunE: withJanitor(func(ctx context.Context, cmd *cobra.Command, _ *store.Janitor, s *store.Store) error {
		n, err := s.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d scans\n", n)
		return nil
	}),
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Drop cached oracle results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c, err := cache.New(cfg.Cache)
		if err != nil {
			return err
		}
		if c == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled")
			return nil
		}
		if closer, ok := c.(interface{ Close() error }); ok {
			defer func() { _ = closer.Close() }()
		}

		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Cache cleared")
		return nil
	},
}

type janitorTask func(ctx context.Context, cmd *cobra.Command, j *store.Janitor, s *store.Store) error

// withJanitor opens the configured store for the duration of one task
func withJanitor(task janitorTask) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		j := store.NewJanitor(s, cfg.Store.SegmentGrace, cfg.Store.HistoryRetention, nil)
		return task(cmd.Context(), cmd, j, s)
	}
}

func init() {
	rootCmd.AddCommand(maintenanceCmd)
	maintenanceCmd.AddCommand(purgeCmd, expireCmd, vacuumCmd, clearCmd, cacheCmd)
}
