package allocator

import (
	"fmt"

	"github.com/plazacoche/charger-rota/pkg/core/model"
)

// Assignment is the charger time granted to one user for one week
type Assignment struct {
	UserID    string
	Week      string
	Breakdown model.Breakdown
	Total     int
}

// BuildAssignment turns a user's capped availability into their weekly assignment.
// Every weekday is present in the breakdown and Total is its sum.
func BuildAssignment(userID, week string, availability model.Breakdown) Assignment {
	var breakdown model.Breakdown
	for _, d := range model.Weekdays {
		breakdown[d] = availability.Get(d)
	}

	return Assignment{
		UserID:    userID,
		Week:      week,
		Breakdown: breakdown,
		Total:     breakdown.Total(),
	}
}

// AssignmentValidationError describes an invariant broken by an assignment
type AssignmentValidationError struct {
	UserID      string
	Week        string
	Description string
}

func (e AssignmentValidationError) Error() string {
	return fmt.Sprintf("invalid assignment for user %s in week %s: %s", e.UserID, e.Week, e.Description)
}

// ValidateAssignment checks the assignment invariants:
// the total equals the sum of the breakdown, and each day is between 0 and DailyCap.
// Returns a slice of validation errors (empty if valid).
func ValidateAssignment(a Assignment) []AssignmentValidationError {
	var errors []AssignmentValidationError

	if a.Week == "" {
		errors = append(errors, AssignmentValidationError{
			UserID:      a.UserID,
			Week:        a.Week,
			Description: "week label is empty",
		})
	}

	if sum := a.Breakdown.Total(); sum != a.Total {
		errors = append(errors, AssignmentValidationError{
			UserID:      a.UserID,
			Week:        a.Week,
			Description: fmt.Sprintf("total %d does not match breakdown sum %d", a.Total, sum),
		})
	}

	for _, d := range model.Weekdays {
		hours := a.Breakdown.Get(d)
		if hours < 0 || hours > DailyCap {
			errors = append(errors, AssignmentValidationError{
				UserID:      a.UserID,
				Week:        a.Week,
				Description: fmt.Sprintf("%s has %d hours, outside 0..%d", d, hours, DailyCap),
			})
		}
	}

	return errors
}
