package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// FindScheduleByUserAndMonth returns the user's schedule for a month with its days in weekday order.
// Returns nil and no error when the user has no schedule for that month.
func (d *DB) FindScheduleByUserAndMonth(ctx context.Context, userID string, month, year int) (*db.Schedule, error) {
	userID, ok := canonicalUUID(userID)
	if !ok {
		return nil, nil
	}

	var s db.Schedule
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, user_id::text, month, year, created_at
		FROM schedule
		WHERE user_id = $1::uuid AND month = $2 AND year = $3
	`, userID, month, year).Scan(&s.ID, &s.UserID, &s.Month, &s.Year, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT weekday, hours
		FROM schedule_day
		WHERE schedule_id = $1::uuid
	`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule days: %w", err)
	}

	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.ScheduleDay, error) {
		var name string
		var hours []int32
		if err := row.Scan(&name, &hours); err != nil {
			return db.ScheduleDay{}, err
		}
		weekday, err := model.ParseWeekday(name)
		if err != nil {
			return db.ScheduleDay{}, err
		}
		day := db.ScheduleDay{Weekday: weekday, Hours: make([]int, len(hours))}
		for i, h := range hours {
			day.Hours[i] = int(h)
		}
		return day, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule days: %w", err)
	}

	// Order by weekday rather than by the stored name
	s.Days = make([]db.ScheduleDay, 0, len(days))
	for _, wd := range model.Weekdays {
		for _, day := range days {
			if day.Weekday == wd {
				s.Days = append(s.Days, day)
			}
		}
	}

	return &s, nil
}

// SaveSchedule creates or replaces the schedule for (UserID, Month, Year).
// An existing schedule keeps its ID, which is written back to schedule.ID, and all its days are replaced.
func (d *DB) SaveSchedule(ctx context.Context, schedule *db.Schedule) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO schedule (id, user_id, month, year)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, month, year) DO UPDATE SET month = EXCLUDED.month
			RETURNING id::text, created_at
		`, schedule.ID, schedule.UserID, schedule.Month, schedule.Year).Scan(&schedule.ID, &schedule.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert schedule: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM schedule_day WHERE schedule_id = $1`, schedule.ID); err != nil {
			return fmt.Errorf("failed to clear schedule days: %w", err)
		}

		batch := &pgx.Batch{}
		for _, day := range schedule.Days {
			batch.Queue(`
				INSERT INTO schedule_day (schedule_id, weekday, hours)
				VALUES ($1, $2, $3)
			`, schedule.ID, day.Weekday.String(), day.Hours)
		}
		if batch.Len() == 0 {
			return nil
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert schedule days: %w", err)
		}

		return nil
	})
}
