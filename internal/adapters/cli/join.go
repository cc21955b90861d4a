package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlsanzbreton/puebla-bot/internal/ports/input"
)

func newJoinCommand(app *App) *cobra.Command {
	var (
		participantID string
		name          string
		asOrganizer   bool
	)

	cmd := &cobra.Command{
		Use:   "join <actividad>",
		Short: "Apúntate (o apunta a alguien) a una actividad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			activity, err := app.activity(args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			session := app.session(ctx)
			opts := input.JoinOptions{ParticipantID: participantID, AsOrganizer: asOrganizer}
			if name != "" {
				p, err := app.Registrations.AddParticipant(ctx, session, name)
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
					return err
				}
				opts.ParticipantID = p.ID
			}

			if _, err := app.Registrations.Join(ctx, activity, session, opts); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			data := map[string]any{"Activity": activity.Title}
			switch {
			case session == nil:
				fmt.Fprintln(cmd.OutOrStdout(), app.t("join.offline", data))
			case asOrganizer:
				fmt.Fprintln(cmd.OutOrStdout(), app.t("join.waived", data))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), app.t("join.saved", data))
			}

			app.syncBestEffort(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&participantID, "participant", "", "id del participante a inscribir (por defecto, tú)")
	cmd.Flags().StringVar(&name, "name", "", "crea o reutiliza un participante con este nombre")
	cmd.Flags().BoolVar(&asOrganizer, "as-organizer", false, "inscripción de organizador (pago condonado)")
	return cmd
}
