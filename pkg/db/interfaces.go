package db

import (
	"context"

	"github.com/plazacoche/charger-rota/pkg/core/model"
)

// UserStore defines the interface for user database operations
type UserStore interface {
	FindUsersByRole(ctx context.Context, role model.Role) ([]User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	InsertUser(ctx context.Context, user *User) error
}

// ScheduleStore defines the interface for schedule database operations
type ScheduleStore interface {
	// FindScheduleByUserAndMonth returns nil and no error when the user has no schedule for the month
	FindScheduleByUserAndMonth(ctx context.Context, userID string, month, year int) (*Schedule, error)
	SaveSchedule(ctx context.Context, schedule *Schedule) error
}

// UsageStore defines the interface for weekly usage database operations
type UsageStore interface {
	// FindUsageByUserAndWeek returns nil and no error when no record exists for the pair
	FindUsageByUserAndWeek(ctx context.Context, userID, week string) (*WeeklyUsage, error)
	FindUsageByWeek(ctx context.Context, week string) ([]WeeklyUsage, error)
	// UpsertUsage creates the (userID, week) record or replaces its totals in place
	UpsertUsage(ctx context.Context, userID, week string, totalHours int, breakdown model.Breakdown) (*WeeklyUsage, error)
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	UserStore
	ScheduleStore
	UsageStore
}
