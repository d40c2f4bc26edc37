package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/services"
)

// RecordUsageCmd creates the recordUsage command
func RecordUsageCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recordUsage <user_id> <date> <hours>",
		Short: "Add hours a user actually charged on a weekday",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[1], app.Location)
			if err != nil {
				return err
			}

			hours, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("hours must be a number: %w", err)
			}

			usage, err := services.RecordUsage(app.Ctx, app.Database, app.Logger, args[0], date, hours)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Usage recorded for week %s\n\n", usage.Week)
			fmt.Fprintf(out, "%s\n%s\n\n", breakdownHeader(), formatBreakdown(usage.Breakdown, usage.HoursUsed))

			return nil
		},
	}
}
