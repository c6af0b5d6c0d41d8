package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dbvoir/internal/daemon"
	"dbvoir/internal/ledger"
	"dbvoir/internal/notifications"
	"dbvoir/internal/pipeline"
	"dbvoir/internal/preflight"
	"dbvoir/internal/services/beets"
	"dbvoir/internal/services/jellyfin"
	"dbvoir/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the download directory and import new music",
		Long: `Run the import pipeline in the foreground until interrupted.

New files in the download directory are left alone until they settle, then
imported into the library with beets. Each successful import triggers a
Jellyfin rescan when an API key is configured; without one the rescan is
skipped and imports continue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				if !result.Passed {
					logger.Warn("preflight check failed",
						slog.String("check", result.Name),
						slog.String("detail", result.Detail))
				}
			}
			if !preflight.AllPassed(results) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Some preflight checks failed; run `dbvoir check` for details")
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}

			w, err := watcher.New(cfg.Paths.DownloadDir, cfg.MusicExtensions(), logger)
			if err != nil {
				_ = store.Close()
				return err
			}

			importer, err := beets.New(cfg.Beets.Binary, cfg.Beets.ConfigPath, cfg.ImportTimeout())
			if err != nil {
				_ = store.Close()
				return err
			}

			notifier := notifications.NewService(cfg)
			manager, err := pipeline.NewManager(cfg, store, importer, jellyfin.NewFromConfig(cfg), notifier, logger)
			if err != nil {
				_ = store.Close()
				return err
			}

			d, err := daemon.New(cfg, store, logger, w, manager)
			if err != nil {
				_ = store.Close()
				return err
			}
			defer d.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", cfg.Paths.DownloadDir)
			<-runCtx.Done()
			d.Stop()

			health, err := d.LedgerHealth(cmd.Context())
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Session summary: %d imported, %d failed, %d pending\n",
					health.Imported, health.Failed, health.Pending)
			}
			return nil
		},
	}
}
