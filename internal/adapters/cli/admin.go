package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAdminCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Panel de organizador",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <actividad>",
		Short: "Lista los inscritos de una actividad",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			activity, err := app.activity(args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			// Refresh before listing, like the web admin panel did.
			app.syncBestEffort(ctx)

			regs, err := app.Store.ListLiveRegistrationsByEvent(ctx, activity.ID)
			if err != nil {
				return err
			}
			for i := range regs {
				r := &regs[i]
				amount := ""
				if r.PaymentAmount != nil {
					amount = " · " + strconv.FormatFloat(*r.PaymentAmount, 'f', -1, 64) + "€"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %s%s\n", r.ID, r.ParticipantName, r.PaymentStatus, amount)
			}
			return nil
		},
	})

	var (
		method string
		amount float64
	)
	paidCmd := &cobra.Command{
		Use:   "mark-paid <inscripcion>",
		Short: "Marca una inscripción como pagada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session := app.session(ctx)

			var amountPtr *float64
			if cmd.Flags().Changed("amount") {
				amountPtr = &amount
			}
			if err := app.Registrations.MarkPaid(ctx, session, args[0], method, amountPtr); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.t(messageKey(err), nil))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.t("admin.paid", map[string]any{"ID": args[0]}))
			app.syncBestEffort(ctx)
			return nil
		},
	}
	paidCmd.Flags().StringVar(&method, "method", "cash", "método de pago (cash|bizum|other)")
	paidCmd.Flags().Float64Var(&amount, "amount", 0, "importe cobrado")
	cmd.AddCommand(paidCmd)

	return cmd
}
