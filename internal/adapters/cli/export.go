package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/pkg/ics"
)

func newExportCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta tus inscripciones (CSV) o una actividad (ICS)",
	}

	var csvOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Vuelca tus inscripciones en CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := app.session(ctx)
			if session == nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t("err.sin_sesion", nil))
				return domain.ErrSinSesion
			}

			w := cmd.OutOrStdout()
			if csvOut != "" {
				f, err := os.Create(csvOut)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return app.Export.RegistrationsCSV(ctx, session.UserID, w)
		},
	}
	csvCmd.Flags().StringVarP(&csvOut, "output", "o", "", "fichero destino (por defecto stdout)")

	var icsOut string
	icsCmd := &cobra.Command{
		Use:   "ics <actividad>",
		Short: "Genera el calendario (.ics) de una actividad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := app.activity(args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			w := cmd.OutOrStdout()
			if icsOut != "" {
				f, err := os.Create(icsOut)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return ics.Write(w, activity, time.Now())
		},
	}
	icsCmd.Flags().StringVarP(&icsOut, "output", "o", "", "fichero destino (por defecto stdout)")

	cmd.AddCommand(csvCmd)
	cmd.AddCommand(icsCmd)
	return cmd
}
