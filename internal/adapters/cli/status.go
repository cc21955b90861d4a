package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
)

func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Estado de la sincronización (outbox pendiente, último pull)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			entries, err := app.Store.ListOutboxOrdered(ctx)
			if err != nil {
				return err
			}
			blocked := 0
			for i := range entries {
				if entries[i].Status == domain.OutboxBlockedOnAuth {
					blocked++
				}
			}

			lastPull, err := app.Store.KvGet(ctx, domain.KeyLastPullAt)
			if err != nil {
				return err
			}
			if lastPull == "" {
				lastPull = "nunca"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "outbox: %d pendientes (%d esperando sesión)\n", len(entries), blocked)
			fmt.Fprintf(out, "último pull: %s\n", lastPull)
			if session := app.session(ctx); session != nil {
				fmt.Fprintf(out, "sesión: %s (%s)\n", session.Email, session.Role)
			} else {
				fmt.Fprintln(out, "sesión: sin sesión")
			}
			return nil
		},
	}
}
