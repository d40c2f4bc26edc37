package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/clients/sheetsclient"
	"github.com/plazacoche/charger-rota/pkg/core/week"
)

// WeekSheetPublisher defines the operations needed to publish a week to Google Sheets
type WeekSheetPublisher interface {
	PublishWeek(spreadsheetID string, week *sheetsclient.WeekSheet) error
}

// PublishWeek writes a week's charger hours to the rota spreadsheet and returns what was written
func PublishWeek(
	ctx context.Context,
	store ViewWeekUsageStore,
	sheets WeekSheetPublisher,
	spreadsheetID string,
	logger *zap.Logger,
	wk string,
) (*sheetsclient.WeekSheet, error) {
	if spreadsheetID == "" {
		return nil, invalidInput("no spreadsheet configured for publishing")
	}

	// Step 1: Load the week's usage
	report, err := ViewWeekUsage(ctx, store, logger, wk)
	if err != nil {
		return nil, err
	}

	// Step 2: Build the sheet
	monday, err := week.Monday(wk)
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	friday := monday.AddDate(0, 0, 4)

	sheet := &sheetsclient.WeekSheet{
		Week:      wk,
		DateRange: fmt.Sprintf("%s - %s", monday.Format("Mon Jan 02 2006"), friday.Format("Mon Jan 02 2006")),
		Rows:      make([]sheetsclient.WeekSheetRow, 0, len(report.Rows)),
	}

	for _, row := range report.Rows {
		sheet.Rows = append(sheet.Rows, sheetsclient.WeekSheetRow{
			Name:  row.UserName,
			Email: row.Email,
			Hours: row.Breakdown,
			Total: row.Total,
		})
	}

	for _, u := range report.UnassignedUsers {
		sheet.Unassigned = append(sheet.Unassigned, userDisplayName(u))
	}

	// Step 3: Publish
	logger.Debug("Publishing week to sheets",
		zap.String("week", wk),
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("rows", len(sheet.Rows)))

	if err := sheets.PublishWeek(spreadsheetID, sheet); err != nil {
		return nil, fmt.Errorf("failed to publish week: %w", err)
	}

	logger.Info("Week published", zap.String("week", wk), zap.Int("rows", len(sheet.Rows)))

	return sheet, nil
}
