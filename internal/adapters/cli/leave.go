package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <actividad>",
		Short: "Bórrate de una actividad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			activity, err := app.activity(args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			session := app.session(ctx)
			if err := app.Registrations.Leave(ctx, activity, session); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.t("leave.done", map[string]any{"Activity": activity.Title}))
			app.syncBestEffort(ctx)
			return nil
		},
	}
}
