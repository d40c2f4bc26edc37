// Package week computes the ISO-8601 week labels ("YYYY-WW") that key weekly usage records.
//
// Every week label in the application goes through Label so that records written by the
// allocation run, the additive usage command and any published rota share the same key.
package week

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Label returns the ISO-8601 week label of t's calendar date, e.g. "2025-01".
// Only the calendar date of t (in t's own location) matters; the computation runs at UTC midnight.
func Label(t time.Time) string {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	// Shift to the Thursday of the same ISO week; its year owns the week
	d = d.AddDate(0, 0, 4-isoWeekday(d))

	yearStart := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	daysSinceYearStart := int(d.Sub(yearStart) / day)

	// ceil((days + 1) / 7)
	weekNumber := (daysSinceYearStart + 7) / 7

	return fmt.Sprintf("%04d-%02d", d.Year(), weekNumber)
}

// Previous returns the label of the week seven days before now
func Previous(now time.Time) string {
	return Label(now.AddDate(0, 0, -7))
}

// Parse splits a week label into its ISO year and week number.
// Labels naming a week the year does not have (e.g. week 53 of a 52-week year) are rejected.
func Parse(label string) (year, week int, err error) {
	var rest string
	n, _ := fmt.Sscanf(label, "%4d-%2d%s", &year, &week, &rest)
	if n != 2 || len(label) != 7 || label[4] != '-' {
		return 0, 0, fmt.Errorf("invalid week label %q (expected YYYY-WW)", label)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("invalid week number in %q: %d", label, week)
	}

	if got := Label(mondayOf(year, week)); got != label {
		return 0, 0, fmt.Errorf("week label %q does not exist (resolves to %s)", label, got)
	}

	return year, week, nil
}

// Monday returns UTC midnight of the Monday that starts the labelled week
func Monday(label string) (time.Time, error) {
	year, week, err := Parse(label)
	if err != nil {
		return time.Time{}, err
	}
	return mondayOf(year, week), nil
}

// mondayOf finds week 1 through January 4th, which always falls in it
func mondayOf(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	firstMonday := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	return firstMonday.AddDate(0, 0, 7*(week-1))
}

// isoWeekday numbers Monday=1 through Sunday=7
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
