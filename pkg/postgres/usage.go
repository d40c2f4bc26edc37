package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

const usageColumns = `id::text, user_id::text, week, hours_used, monday, tuesday, wednesday, thursday, friday, created_at, updated_at`

func scanUsage(row pgx.CollectableRow) (db.WeeklyUsage, error) {
	var u db.WeeklyUsage
	b := &u.Breakdown
	err := row.Scan(&u.ID, &u.UserID, &u.Week, &u.HoursUsed,
		&b[model.Monday], &b[model.Tuesday], &b[model.Wednesday], &b[model.Thursday], &b[model.Friday],
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// FindUsageByUserAndWeek returns nil and no error when no record exists for the pair
func (d *DB) FindUsageByUserAndWeek(ctx context.Context, userID, week string) (*db.WeeklyUsage, error) {
	userID, ok := canonicalUUID(userID)
	if !ok {
		return nil, nil
	}

	rows, err := d.pool.Query(ctx, `
		SELECT `+usageColumns+`
		FROM weekly_usage
		WHERE user_id = $1::uuid AND week = $2
	`, userID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly usage: %w", err)
	}

	usage, err := pgx.CollectExactlyOneRow(rows, scanUsage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan weekly usage: %w", err)
	}

	return &usage, nil
}

// FindUsageByWeek returns every record for a week
func (d *DB) FindUsageByWeek(ctx context.Context, week string) ([]db.WeeklyUsage, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+usageColumns+`
		FROM weekly_usage
		WHERE week = $1
		ORDER BY user_id
	`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly usage: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanUsage)
	if err != nil {
		return nil, fmt.Errorf("failed to scan weekly usage: %w", err)
	}

	return records, nil
}

// UpsertUsage creates the (userID, week) record or replaces its totals in place.
// The unique (user_id, week) constraint makes concurrent upserts for the same pair converge on one row.
func (d *DB) UpsertUsage(ctx context.Context, userID, week string, totalHours int, breakdown model.Breakdown) (*db.WeeklyUsage, error) {
	rows, err := d.pool.Query(ctx, `
		INSERT INTO weekly_usage (id, user_id, week, hours_used, monday, tuesday, wednesday, thursday, friday)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, week) DO UPDATE SET
			hours_used = EXCLUDED.hours_used,
			monday = EXCLUDED.monday,
			tuesday = EXCLUDED.tuesday,
			wednesday = EXCLUDED.wednesday,
			thursday = EXCLUDED.thursday,
			friday = EXCLUDED.friday,
			updated_at = NOW()
		RETURNING `+usageColumns,
		uuid.New().String(), userID, week, totalHours,
		breakdown[model.Monday], breakdown[model.Tuesday], breakdown[model.Wednesday],
		breakdown[model.Thursday], breakdown[model.Friday])
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weekly usage: %w", err)
	}

	usage, err := pgx.CollectExactlyOneRow(rows, scanUsage)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert weekly usage: %w", err)
	}

	return &usage, nil
}

// Compile-time check that DB satisfies the database interface
var _ db.Database = (*DB)(nil)
