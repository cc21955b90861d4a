package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Envía la outbox y trae los cambios remotos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sync.SyncAll(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t("sync.failed", map[string]any{"Error": err.Error()}))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.t("sync.done", nil))
			return nil
		},
	}
}
