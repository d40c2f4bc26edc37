package db

import (
	"time"

	"github.com/plazacoche/charger-rota/pkg/core/model"
)

// User represents a database user record
type User struct {
	ID        string
	Name      string
	Email     string
	Role      model.Role
	HoursUsed int
	CreatedAt time.Time
}

// ScheduleDay lists the hour slots a user is available on one weekday
type ScheduleDay struct {
	Weekday model.Weekday
	Hours   []int
}

// Schedule represents a user's submitted availability for one month
type Schedule struct {
	ID        string
	UserID    string
	Month     int
	Year      int
	Days      []ScheduleDay
	CreatedAt time.Time
}

// WeeklyUsage represents a database weekly usage record.
// There is at most one record per (UserID, Week).
type WeeklyUsage struct {
	ID        string
	UserID    string
	Week      string
	HoursUsed int
	Breakdown model.Breakdown
	CreatedAt time.Time
	UpdatedAt time.Time
}
