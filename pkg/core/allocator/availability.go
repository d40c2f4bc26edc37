package allocator

import (
	"slices"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// DailyCap is the most charger hours a single day's schedule entry can contribute to an allocation
const DailyCap = 2

// ExtractAvailability counts the hour slots listed for each weekday of the schedule, capped at DailyCap.
// Only the number of slots matters, not their values. Weekdays missing from the schedule count as 0,
// as does every day of a nil schedule.
func ExtractAvailability(schedule *db.Schedule) model.Breakdown {
	var available model.Breakdown
	if schedule == nil {
		return available
	}

	for _, day := range schedule.Days {
		if !day.Weekday.IsValid() || len(day.Hours) == 0 {
			continue
		}
		// A later entry for the same weekday replaces an earlier one
		available[day.Weekday] = min(len(day.Hours), DailyCap)
	}

	return available
}

// DayWindow summarises one weekday of a schedule for display
type DayWindow struct {
	Slots    int
	Earliest int
	Latest   int
}

// ExtractWindows reports, for each weekday with at least one slot, how many slots were listed
// and the earliest and latest hour. Days without slots are omitted.
func ExtractWindows(schedule *db.Schedule) map[model.Weekday]DayWindow {
	windows := make(map[model.Weekday]DayWindow)
	if schedule == nil {
		return windows
	}

	for _, day := range schedule.Days {
		if !day.Weekday.IsValid() || len(day.Hours) == 0 {
			continue
		}
		windows[day.Weekday] = DayWindow{
			Slots:    len(day.Hours),
			Earliest: slices.Min(day.Hours),
			Latest:   slices.Max(day.Hours),
		}
	}

	return windows
}
