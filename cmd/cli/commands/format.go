package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// parseDate parses YYYY-MM-DD as midday wall-clock time in loc, so the date survives conversion
// between nearby zones. Noon is built directly because DST change days are not 24 hours long.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc), nil
}

func breakdownHeader() string {
	return fmt.Sprintf("%4s %4s %4s %4s %4s  %5s", "Mon", "Tue", "Wed", "Thu", "Fri", "Total")
}

func formatBreakdown(b model.Breakdown, total int) string {
	return fmt.Sprintf("%4d %4d %4d %4d %4d  %5d",
		b.Get(model.Monday), b.Get(model.Tuesday), b.Get(model.Wednesday),
		b.Get(model.Thursday), b.Get(model.Friday), total)
}

func displayName(u db.User, fallback string) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
