package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the fiestas CLI.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fiestas",
		Short:         "Compañero de fiestas del pueblo: agenda e inscripciones offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&app.Locale, "locale", app.Locale, "message locale (es|en)")

	cmd.AddCommand(newAgendaCommand(app))
	cmd.AddCommand(newJoinCommand(app))
	cmd.AddCommand(newLeaveCommand(app))
	cmd.AddCommand(newParticipantsCommand(app))
	cmd.AddCommand(newSyncCommand(app))
	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newExportCommand(app))
	cmd.AddCommand(newAdminCommand(app))

	return cmd
}
