package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/plazacoche/charger-rota/pkg/db"
)

// ErrInvalidInput wraps every rejection of caller-supplied data
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// usersByID indexes users by their ID
func usersByID(users []db.User) map[string]db.User {
	byID := make(map[string]db.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID
}

// userDisplayName returns the user's name, falling back to the email and then the ID
func userDisplayName(u db.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

// normaliseHours sorts hour slots and drops duplicates
func normaliseHours(hours []int) []int {
	out := slices.Clone(hours)
	slices.Sort(out)
	return slices.Compact(out)
}
