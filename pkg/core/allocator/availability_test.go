package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

func TestExtractAvailability_CapsEachDay(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Monday, Hours: []int{8, 9, 10, 11, 12}},
		},
	}

	available := ExtractAvailability(schedule)

	assert.Equal(t, 2, available.Get(model.Monday), "5 listed slots should be capped at 2")
}

func TestExtractAvailability_CountsBelowCap(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Tuesday, Hours: []int{17}},
			{Weekday: model.Thursday, Hours: []int{8, 22}},
		},
	}

	available := ExtractAvailability(schedule)

	assert.Equal(t, model.Breakdown{0, 1, 0, 2, 0}, available)
}

func TestExtractAvailability_AbsentDaysAreZero(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Monday, Hours: []int{8, 9, 10, 11, 12}},
			{Weekday: model.Wednesday, Hours: []int{14, 15}},
		},
	}

	available := ExtractAvailability(schedule)

	assert.Equal(t, model.Breakdown{2, 0, 2, 0, 0}, available)
}

func TestExtractAvailability_EmptyHourList(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Friday, Hours: []int{}},
		},
	}

	assert.Equal(t, model.Breakdown{}, ExtractAvailability(schedule))
}

func TestExtractAvailability_NilSchedule(t *testing.T) {
	assert.Equal(t, model.Breakdown{}, ExtractAvailability(nil))
}

func TestExtractAvailability_IgnoresInvalidWeekday(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Weekday(6), Hours: []int{9, 10}},
			{Weekday: model.Friday, Hours: []int{9}},
		},
	}

	assert.Equal(t, model.Breakdown{0, 0, 0, 0, 1}, ExtractAvailability(schedule))
}

func TestExtractWindows(t *testing.T) {
	schedule := &db.Schedule{
		Days: []db.ScheduleDay{
			{Weekday: model.Monday, Hours: []int{12, 8, 10}},
			{Weekday: model.Wednesday, Hours: []int{15}},
			{Weekday: model.Friday, Hours: nil},
		},
	}

	windows := ExtractWindows(schedule)

	assert.Len(t, windows, 2)
	assert.Equal(t, DayWindow{Slots: 3, Earliest: 8, Latest: 12}, windows[model.Monday])
	assert.Equal(t, DayWindow{Slots: 1, Earliest: 15, Latest: 15}, windows[model.Wednesday])
	_, hasFriday := windows[model.Friday]
	assert.False(t, hasFriday)
}

func TestExtractWindows_NilSchedule(t *testing.T) {
	assert.Empty(t, ExtractWindows(nil))
}
