package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// DashboardCmd prints ticket statistics for the signed-in account.
func DashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show ticket statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.requireSession(cmd)
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			out := cmd.OutOrStdout()

			stats := app.Stats.GetTicketStats(cmd.Context())
			fmt.Fprintf(out, "Welcome to Your Dashboard, %s\n\n", session.Name)
			fmt.Fprintf(out, "  Total Tickets: %d\n", stats.Total)
			fmt.Fprintf(out, "  Open:          %s\n", color.New(color.FgGreen).Sprint(stats.Open))
			fmt.Fprintf(out, "  In Progress:   %s\n", color.New(color.FgYellow).Sprint(stats.InProgress))
			fmt.Fprintf(out, "  Closed:        %s\n", color.New(color.FgHiBlack).Sprint(stats.Closed))

			if verbose && app.Metrics != nil {
				fmt.Fprintln(out, "\nOperation counters:")
				counts := app.Metrics.Snapshot(cmd.Context())
				if len(counts) == 0 {
					fmt.Fprintln(out, "  none recorded")
				}
				for _, c := range counts {
					fmt.Fprintf(out, "  %-32s %d\n", c.Key, c.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Also print operation counters kept across runs")
	return cmd
}
