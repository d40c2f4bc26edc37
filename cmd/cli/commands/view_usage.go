package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/services"
)

// ViewUsageCmd creates the viewUsage command
func ViewUsageCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewUsage [week]",
		Short: "Show everyone's charger hours for a week (defaults to the current week)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wk, err := resolveWeek(app, args)
			if err != nil {
				return err
			}

			report, err := services.ViewWeekUsage(app.Ctx, app.Database, app.Logger, wk)
			if err != nil {
				return err
			}

			printWeekUsage(cmd, report)
			return nil
		},
	}
}

func printWeekUsage(cmd *cobra.Command, report *services.WeekUsageReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nCharger usage for week %s\n\n", report.Week)

	if len(report.Rows) == 0 {
		fmt.Fprintln(out, "No usage recorded.")
	} else {
		fmt.Fprintf(out, "%-28s %s\n", "User", breakdownHeader())
		for _, row := range report.Rows {
			name := row.UserName
			if name == "" {
				name = row.UserID
			}
			fmt.Fprintf(out, "%-28s %s\n", truncate(name, 28), formatBreakdown(row.Breakdown, row.Total))
		}
	}

	if len(report.UnassignedUsers) > 0 {
		fmt.Fprintf(out, "\nNo hours this week (%d):\n", len(report.UnassignedUsers))
		for _, u := range report.UnassignedUsers {
			fmt.Fprintf(out, "  - %s\n", displayName(u, u.ID))
		}
	}
	fmt.Fprintln(out)
}
