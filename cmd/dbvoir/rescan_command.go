package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dbvoir/internal/services/jellyfin"
)

func newRescanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Trigger a Jellyfin library rescan",
		Long: `Trigger a single Jellyfin library refresh and exit.

The request targets the whole library unless jellyfin.library_id (or
JELLYFIN_LIBRARY_ID) narrows it to one library. One attempt is made; a
failure is reported without retrying.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}

			client := jellyfin.NewFromConfig(cfg)
			if err := client.Refresh(cmd.Context()); err != nil {
				if errors.Is(err, jellyfin.ErrMissingCredential) {
					return errors.New("jellyfin api key is not configured; set jellyfin.api_key in the config file or export JELLYFIN_API_KEY")
				}
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Jellyfin.LibraryID != "" {
				fmt.Fprintf(out, "Jellyfin rescan triggered for library %s\n", cfg.Jellyfin.LibraryID)
			} else {
				fmt.Fprintln(out, "Jellyfin library rescan triggered")
			}
			return nil
		},
	}
}
