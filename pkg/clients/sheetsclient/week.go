package sheetsclient

import (
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// WeekSheetRow is one user's charger hours in a published week
type WeekSheetRow struct {
	Name  string
	Email string
	Hours [5]int // monday..friday
	Total int
}

// WeekSheet is the charger rota for one week as it appears in the spreadsheet
type WeekSheet struct {
	Week       string // tab title, e.g. "2025-43"
	DateRange  string // e.g. "Mon Oct 20 2025 - Fri Oct 24 2025"
	Rows       []WeekSheetRow
	Unassigned []string // names of users with no hours this week
}

var weekHeader = []interface{}{"Name", "Email", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Total"}

// PublishWeek writes a week's charger rota to a tab titled with the week label.
// The tab is created if it doesn't exist and fully overwritten if it does.
func (c *Client) PublishWeek(spreadsheetID string, week *WeekSheet) error {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	exists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == week.Week {
			exists = true
			break
		}
	}

	if exists {
		_, err := c.service.Spreadsheets.Values.Clear(
			spreadsheetID,
			fmt.Sprintf("%s!A1:ZZ", week.Week),
			&sheets.ClearValuesRequest{},
		).Do()
		if err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, week.Week); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	valueRange := &sheets.ValueRange{
		Values: weekSheetValues(week),
	}

	_, err = c.service.Spreadsheets.Values.Update(
		spreadsheetID,
		fmt.Sprintf("%s!A1", week.Week),
		valueRange,
	).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write week data: %w", err)
	}

	return nil
}

// weekSheetValues lays out the tab: a title row, a blank row, the header, then one row per user.
// Users without hours are listed after a blank row.
func weekSheetValues(week *WeekSheet) [][]interface{} {
	values := [][]interface{}{
		{fmt.Sprintf("Charger rota %s", week.Week), week.DateRange},
		{},
		weekHeader,
	}

	for _, row := range week.Rows {
		sheetRow := []interface{}{row.Name, row.Email}
		for _, h := range row.Hours {
			sheetRow = append(sheetRow, h)
		}
		sheetRow = append(sheetRow, row.Total)
		values = append(values, sheetRow)
	}

	if len(week.Unassigned) > 0 {
		values = append(values, []interface{}{}, []interface{}{"No hours this week"})
		for _, name := range week.Unassigned {
			values = append(values, []interface{}{name})
		}
	}

	return values
}
