package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/plazacoche/charger-rota/pkg/core/allocator"
	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/services"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// scheduleFile is the YAML layout of a submitted schedule:
//
//	month: 10
//	year: 2025
//	days:
//	  monday: [8, 9, 10]
//	  wednesday: [14]
type scheduleFile struct {
	Month int              `yaml:"month"`
	Year  int              `yaml:"year"`
	Days  map[string][]int `yaml:"days"`
}

// SubmitScheduleCmd creates the submitSchedule command
func SubmitScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submitSchedule <user_id> <schedule.yaml>",
		Short: "Create or replace a user's monthly availability from a YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readScheduleFile(args[1])
			if err != nil {
				return err
			}

			days, err := file.scheduleDays()
			if err != nil {
				return err
			}

			schedule, err := services.SubmitSchedule(app.Ctx, app.Database, app.Logger, args[0], file.Month, file.Year, days)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Schedule saved for %04d-%02d\n\n", schedule.Year, schedule.Month)

			windows := allocator.ExtractWindows(schedule)
			countable := allocator.ExtractAvailability(schedule)
			for _, d := range schedule.Days {
				hours := make([]string, len(d.Hours))
				for i, h := range d.Hours {
					hours[i] = fmt.Sprintf("%02d:00", h)
				}
				w := windows[d.Weekday]
				fmt.Fprintf(out, "  %-10s %s (%02d:00-%02d:00, %dh assignable)\n",
					d.Weekday, strings.Join(hours, ", "), w.Earliest, w.Latest, countable.Get(d.Weekday))
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}

func readScheduleFile(path string) (*scheduleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	return &file, nil
}

// scheduleDays converts the day map into schedule days in weekday order
func (f *scheduleFile) scheduleDays() ([]db.ScheduleDay, error) {
	days := make([]db.ScheduleDay, 0, len(f.Days))
	for name, hours := range f.Days {
		weekday, err := model.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, db.ScheduleDay{Weekday: weekday, Hours: hours})
	}

	slices.SortFunc(days, func(a, b db.ScheduleDay) int {
		return int(a.Weekday) - int(b.Weekday)
	})

	return days, nil
}
