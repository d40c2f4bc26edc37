package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

const userColumns = `id::text, name, email, role, hours_used, created_at`

func scanUser(row pgx.CollectableRow) (db.User, error) {
	var u db.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.HoursUsed, &u.CreatedAt); err != nil {
		return db.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// FindUsersByRole returns all users with the given role, ordered by creation time
func (d *DB) FindUsersByRole(ctx context.Context, role model.Role) ([]db.User, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM app_user
		WHERE role = $1
		ORDER BY created_at, id
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	return users, nil
}

// FindUserByID returns nil and no error when the user does not exist
func (d *DB) FindUserByID(ctx context.Context, id string) (*db.User, error) {
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, nil
	}
	return d.findUser(ctx, `id = $1::uuid`, id)
}

// FindUserByEmail matches emails case-insensitively; returns nil when not found
func (d *DB) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	return d.findUser(ctx, `lower(email) = lower($1)`, email)
}

func (d *DB) findUser(ctx context.Context, where string, arg string) (*db.User, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+userColumns+` FROM app_user WHERE `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &user, nil
}

// InsertUser creates a user record; CreatedAt is filled in from the database
func (d *DB) InsertUser(ctx context.Context, user *db.User) error {
	err := d.pool.QueryRow(ctx, `
		INSERT INTO app_user (id, name, email, role, hours_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, user.ID, user.Name, user.Email, string(user.Role), user.HoursUsed).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}
