package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/week"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// RecordUsageStore defines the database operations needed for recording charger usage
type RecordUsageStore interface {
	FindUserByID(ctx context.Context, id string) (*db.User, error)
	FindUsageByUserAndWeek(ctx context.Context, userID, week string) (*db.WeeklyUsage, error)
	UpsertUsage(ctx context.Context, userID, week string, totalHours int, breakdown model.Breakdown) (*db.WeeklyUsage, error)
}

// RecordUsage adds hours to the weekday of date in that week's usage record, creating the
// record if needed. Unlike the weekly assignment it adds to what is already there.
func RecordUsage(ctx context.Context, store RecordUsageStore, logger *zap.Logger, userID string, date time.Time, hours int) (*db.WeeklyUsage, error) {
	if hours <= 0 {
		return nil, invalidInput("hours must be positive, got %d", hours)
	}

	day, ok := model.WeekdayOf(date)
	if !ok {
		return nil, invalidInput("%s is a weekend day; the charger is only allocated monday to friday", date.Format("2006-01-02"))
	}

	user, err := store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, invalidInput("user %s not found", userID)
	}

	wk := week.Label(date)
	logger.Debug("Fetching usage record", zap.String("user_id", userID), zap.String("week", wk))

	existing, err := store.FindUsageByUserAndWeek(ctx, userID, wk)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage: %w", err)
	}

	var breakdown model.Breakdown
	if existing != nil {
		breakdown = existing.Breakdown
	}
	breakdown.Add(day, hours)

	usage, err := store.UpsertUsage(ctx, userID, wk, breakdown.Total(), breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to save usage: %w", err)
	}

	logger.Info("Usage recorded",
		zap.String("user_id", userID),
		zap.String("week", wk),
		zap.String("weekday", day.String()),
		zap.Int("hours", hours),
		zap.Int("week_total", usage.HoursUsed))

	return usage, nil
}
