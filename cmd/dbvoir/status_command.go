package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dbvoir/internal/config"
	"dbvoir/internal/ledger"
	"dbvoir/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline configuration and ledger health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Configuration", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Download dir", statusInfo, cfg.Paths.DownloadDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Library dir", statusInfo, cfg.Paths.LibraryDir, colorize))
				fmt.Fprintln(out, renderStatusLine("Settle delay", statusInfo, cfg.WatchDelay().String(), colorize))

				jellyfinKind := statusWarn
				jellyfinMsg := "not configured, rescans skipped"
				if cfg.Jellyfin.APIKey != "" {
					jellyfinKind = statusOK
					jellyfinMsg = cfg.Jellyfin.URL
				}
				fmt.Fprintln(out, renderStatusLine("Jellyfin", jellyfinKind, jellyfinMsg, colorize))

				notifyMsg := "disabled"
				if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
					notifyMsg = "enabled"
				}
				fmt.Fprintln(out, renderStatusLine("Notifications", statusInfo, notifyMsg, colorize))

				beetsResult := preflight.CheckBeets(cfg.Beets.Binary)
				beetsKind := statusOK
				if !beetsResult.Passed {
					beetsKind = statusError
				}
				fmt.Fprintln(out, renderStatusLine("beets", beetsKind, beetsResult.Detail, colorize))

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Ledger", colorize) {
					fmt.Fprintln(out, line)
				}
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderStatusLine("Tracked", statusInfo, fmt.Sprintf("%d", health.Total), colorize))
				fmt.Fprintln(out, renderStatusLine("Pending", pendingKind(health.Pending), fmt.Sprintf("%d", health.Pending), colorize))
				fmt.Fprintln(out, renderStatusLine("Importing", statusInfo, fmt.Sprintf("%d", health.Importing), colorize))
				fmt.Fprintln(out, renderStatusLine("Imported", statusOK, fmt.Sprintf("%d", health.Imported), colorize))
				failedKind := statusOK
				if health.Failed > 0 {
					failedKind = statusError
				}
				fmt.Fprintln(out, renderStatusLine("Failed", failedKind, fmt.Sprintf("%d", health.Failed), colorize))
				return nil
			})
		},
	}
}

func pendingKind(pending int) statusKind {
	if pending > 0 {
		return statusWarn
	}
	return statusOK
}
