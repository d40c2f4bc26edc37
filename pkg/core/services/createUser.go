package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// CreateUserStore defines the database operations needed for registering users
type CreateUserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*db.User, error)
	InsertUser(ctx context.Context, user *db.User) error
}

// CreateUser registers a new user or admin. Emails are unique and stored lowercase.
func CreateUser(ctx context.Context, store CreateUserStore, logger *zap.Logger, name, email string, role model.Role) (*db.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, invalidInput("name is required")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, invalidInput("invalid email %q", email)
	}
	if !role.IsValid() {
		return nil, invalidInput("invalid role %q", role)
	}

	logger.Debug("Checking for existing user", zap.String("email", email))
	existing, err := store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, invalidInput("a user with email %s already exists (id %s)", email, existing.ID)
	}

	user := &db.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
		Role:  role,
	}

	if err := store.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	logger.Info("User created",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return user, nil
}
