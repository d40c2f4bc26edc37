package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AutoAssignCmd creates the autoAssign command
func AutoAssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoAssign",
		Short: "Assign this week's charger hours now (the same run the scheduler does every Monday)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dateStr, _ := cmd.Flags().GetString("date")

			now := app.now()
			if dateStr != "" {
				date, err := parseDate(dateStr, app.Location)
				if err != nil {
					return err
				}
				now = date
			}

			app.Logger.Debug("autoAssign command", zap.Time("now", now))

			report, err := runAssignment(app.Ctx, app, now)
			if err != nil {
				return err
			}

			printAssignmentReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Run as if today were this date (YYYY-MM-DD)")

	return cmd
}

func printAssignmentReport(out io.Writer, report *AssignmentReport) {
	result := report.Result

	if result.NoUsers {
		fmt.Fprintf(out, "\nNo users registered - nothing assigned for week %s.\n\n", result.Week)
		return
	}

	fmt.Fprintf(out, "\n✓ Charger assigned for week %s (ranked by usage in %s)\n\n", result.Week, result.PreviousWeek)

	if len(result.Assignments) > 0 {
		fmt.Fprintf(out, "%-28s %s\n", "User", breakdownHeader())
		for _, a := range result.Assignments {
			name := displayName(result.Users[a.UserID], a.UserID)
			fmt.Fprintf(out, "%-28s %s\n", truncate(name, 28), formatBreakdown(a.Breakdown, a.Total))
		}
		fmt.Fprintln(out)
	}

	if len(result.SkippedUserIDs) > 0 {
		fmt.Fprintf(out, "\nNo schedule this month (%d):\n", len(result.SkippedUserIDs))
		for _, id := range result.SkippedUserIDs {
			fmt.Fprintf(out, "  - %s\n", displayName(result.Users[id], id))
		}
	}

	if len(report.EmailsSent) > 0 || len(report.EmailsFailed) > 0 {
		fmt.Fprintf(out, "\nEmails sent: %d\n", len(report.EmailsSent))
		for _, fe := range report.EmailsFailed {
			fmt.Fprintf(out, "  ✗ %s (%s): %s\n", fe.UserName, fe.Email, fe.Error)
		}
	}
	if report.NotifyErr != nil {
		fmt.Fprintf(out, "\n⚠️  Notifications failed: %v\n", report.NotifyErr)
	}

	if len(report.PlansPublished) > 0 || len(report.PlansFailed) > 0 {
		fmt.Fprintf(out, "\nCharger plans published: %d\n", len(report.PlansPublished))
		for _, fp := range report.PlansFailed {
			fmt.Fprintf(out, "  ✗ %s (%s): %s\n", fp.UserID, fp.Topic, fp.Error)
		}
	}
	if report.PublishErr != nil {
		fmt.Fprintf(out, "\n⚠️  Charger plan publishing failed: %v\n", report.PublishErr)
	}

	fmt.Fprintf(out, "\nAssigned %d user(s).\n\n", result.AssignedCount)
}
