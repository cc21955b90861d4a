package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jlsanzbreton/puebla-bot/pkg/tz"
)

func newAgendaCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "agenda",
		Short: "Muestra el programa de fiestas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			registered := map[string]bool{}
			if session := app.session(ctx); session != nil {
				regs, err := app.Store.ListRegistrationsByCreator(ctx, session.UserID)
				if err != nil {
					return err
				}
				for i := range regs {
					if regs[i].Live() {
						registered[regs[i].EventID] = true
					}
				}
			}

			for _, act := range app.Catalog.All() {
				mark := " "
				if registered[act.ID] {
					mark = "*"
				}
				price := ""
				if act.PriceEUR != nil {
					price = " · " + strconv.FormatFloat(*act.PriceEUR, 'f', -1, 64) + "€"
				}
				when := act.StartsAt.In(tz.Madrid).Format("Mon 02 15:04")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-12s %s  %s (%s)%s\n",
					mark, act.ShortName, when, act.Title, act.Location, price)
			}
			return nil
		},
	}
}
