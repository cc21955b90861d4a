package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
)

func newParticipantsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participants",
		Short: "Gestiona los participantes de tu cuenta",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista tus participantes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := app.session(ctx)
			if session == nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t("err.sin_sesion", nil))
				return domain.ErrSinSesion
			}
			list, err := app.Store.ListParticipantsByOwner(ctx, session.UserID, false)
			if err != nil {
				return err
			}
			for i := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", list[i].ID, list[i].DisplayName)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <nombre>",
		Short: "Crea un participante para apuntar a otra persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := app.session(ctx)
			p, err := app.Registrations.AddParticipant(ctx, session, args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.t("participant.added", map[string]any{"Name": p.DisplayName}))
			app.syncBestEffort(ctx)
			return nil
		},
	})

	return cmd
}
