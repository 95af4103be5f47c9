package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rushilchauhan45/sitely/internal/report"
)

// NewReportCommand prints the per-worker balance table for a site.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <site-id>",
		Short: "Export the worker balance table for a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := opts.open(ctx)
			if err != nil {
				return err
			}
			siteID := args[0]

			workers, err := st.ListWorkers(ctx, siteID)
			if err != nil {
				return err
			}
			wages, err := st.ListWageRecords(ctx, siteID)
			if err != nil {
				return err
			}
			expenses, err := st.ListExpenseRecords(ctx, siteID)
			if err != nil {
				return err
			}
			payments, err := st.ListPayments(ctx, siteID)
			if err != nil {
				return err
			}

			rows := report.WorkerBalances(workers, wages, expenses, payments)
			fmt.Fprint(cmd.OutOrStdout(), report.Render(rows))
			return nil
		},
	}
}
