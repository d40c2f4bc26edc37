package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plazacoche/charger-rota/pkg/core/week"
)

// WeekCmd creates the week command
func WeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:         "week [date]",
		Short:       "Show the week label for a date (defaults to today)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{SkipInitAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			date := app.now()
			if len(args) > 0 {
				var err error
				date, err = parseDate(args[0], app.Location)
				if err != nil {
					return err
				}
			}

			label := week.Label(date)
			monday, err := week.Monday(label)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:          %s\n", formatDay(date))
			fmt.Fprintf(out, "Week:          %s\n", label)
			fmt.Fprintf(out, "Previous week: %s\n", week.Previous(date))
			fmt.Fprintf(out, "Runs from:     %s to %s\n",
				formatDay(monday), formatDay(monday.AddDate(0, 0, 4)))

			return nil
		},
	}
}

// resolveWeek returns the label given on the command line, or the current week
func resolveWeek(app *AppContext, args []string) (string, error) {
	if len(args) == 0 {
		return week.Label(app.now()), nil
	}
	if _, _, err := week.Parse(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func formatDay(t time.Time) string {
	return t.Format("Mon 2006-01-02")
}
