package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/services"
)

// PublishWeekCmd creates the publishWeek command
func PublishWeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishWeek [week]",
		Short: "Write a week's charger hours to the rota spreadsheet (defaults to the current week)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.SheetsClient == nil {
				return fmt.Errorf("publishing is not configured (set publishing.spreadsheetID and google.credentialsFile)")
			}

			wk, err := resolveWeek(app, args)
			if err != nil {
				return err
			}

			sheet, err := services.PublishWeek(app.Ctx, app.Database, app.SheetsClient, app.Cfg.Publishing.SpreadsheetID, app.Logger, wk)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Week %s (%s) published: %d row(s), %d user(s) without hours\n\n",
				sheet.Week, sheet.DateRange, len(sheet.Rows), len(sheet.Unassigned))

			return nil
		},
	}
}
