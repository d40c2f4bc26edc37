package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// SubmitScheduleStore defines the database operations needed for submitting a schedule
type SubmitScheduleStore interface {
	FindUserByID(ctx context.Context, id string) (*db.User, error)
	SaveSchedule(ctx context.Context, schedule *db.Schedule) error
}

// SubmitSchedule creates or replaces a user's availability for a month.
// Hour slots are sorted and deduplicated; each weekday may appear once.
func SubmitSchedule(
	ctx context.Context,
	store SubmitScheduleStore,
	logger *zap.Logger,
	userID string,
	month, year int,
	days []db.ScheduleDay,
) (*db.Schedule, error) {
	if month < 1 || month > 12 {
		return nil, invalidInput("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 9999 {
		return nil, invalidInput("year out of range: %d", year)
	}

	normalised, err := normaliseScheduleDays(days)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching user", zap.String("user_id", userID))
	user, err := store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, invalidInput("user %s not found", userID)
	}

	schedule := &db.Schedule{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Month:  month,
		Year:   year,
		Days:   normalised,
	}

	if err := store.SaveSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	logger.Info("Schedule saved",
		zap.String("user_id", user.ID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("days", len(normalised)))

	return schedule, nil
}

// normaliseScheduleDays validates weekdays and hour slots and drops days without slots
func normaliseScheduleDays(days []db.ScheduleDay) ([]db.ScheduleDay, error) {
	seen := make(map[model.Weekday]bool, len(days))
	out := make([]db.ScheduleDay, 0, len(days))

	for _, day := range days {
		if !day.Weekday.IsValid() {
			return nil, invalidInput("schedules only cover monday to friday, got %s", day.Weekday)
		}
		if seen[day.Weekday] {
			return nil, invalidInput("%s listed more than once", day.Weekday)
		}
		seen[day.Weekday] = true

		for _, h := range day.Hours {
			if h < 0 {
				return nil, invalidInput("negative hour slot %d on %s", h, day.Weekday)
			}
		}

		hours := normaliseHours(day.Hours)
		if len(hours) == 0 {
			continue
		}
		out = append(out, db.ScheduleDay{Weekday: day.Weekday, Hours: hours})
	}

	return out, nil
}
