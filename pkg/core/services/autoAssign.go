package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/allocator"
	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/week"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// AutoAssignStore defines the database operations needed for the weekly charger assignment
type AutoAssignStore interface {
	FindUsersByRole(ctx context.Context, role model.Role) ([]db.User, error)
	FindUsageByUserAndWeek(ctx context.Context, userID, week string) (*db.WeeklyUsage, error)
	UpsertUsage(ctx context.Context, userID, week string, totalHours int, breakdown model.Breakdown) (*db.WeeklyUsage, error)
	FindScheduleByUserAndMonth(ctx context.Context, userID string, month, year int) (*db.Schedule, error)
}

// AutoAssignResult contains the outcome of an assignment run
type AutoAssignResult struct {
	Week         string
	PreviousWeek string

	// NoUsers is set when there are no users with the user role; nothing was written
	NoUsers bool

	// AssignedCount is the number of users whose weekly usage was written (users with a schedule)
	AssignedCount int

	// Assignments in ranked order, one per assigned user
	Assignments []allocator.Assignment

	// SkippedUserIDs are users with no schedule for the current month
	SkippedUserIDs []string

	// Users by ID, for callers that report on the assignments
	Users map[string]db.User
}

// RunAutoAssignment assigns this week's charger hours to every user with a schedule for the
// current month. Users are processed in order of prior-week usage, least first. Each assigned
// user's record for the week is created or fully replaced, so running twice for the same
// state yields the same records.
//
// Any store failure aborts the run. Reads happen before the first write, so a failure while
// loading users or prior usage writes nothing; records upserted before a later failure stay written.
func RunAutoAssignment(ctx context.Context, store AutoAssignStore, logger *zap.Logger, now time.Time) (*AutoAssignResult, error) {
	// Step 1: Resolve week labels
	previousWeek := week.Previous(now)
	currentWeek := week.Label(now)
	month, year := int(now.Month()), now.Year()

	logger.Debug("Starting auto assignment",
		zap.Time("now", now),
		zap.String("week", currentWeek),
		zap.String("previous_week", previousWeek),
		zap.Int("month", month),
		zap.Int("year", year))

	result := &AutoAssignResult{
		Week:         currentWeek,
		PreviousWeek: previousWeek,
	}

	// Step 2: DB query - Fetch users
	logger.Debug("Fetching users", zap.String("role", string(model.RoleUser)))
	users, err := store.FindUsersByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	logger.Debug("Found users", zap.Int("count", len(users)))

	if len(users) == 0 {
		logger.Info("No users registered, nothing to assign", zap.String("week", currentWeek))
		result.NoUsers = true
		return result, nil
	}

	result.Users = usersByID(users)

	// Step 3: DB query - Fetch prior week usage
	priorHours, err := fetchPriorHours(ctx, store, users, previousWeek)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched prior week usage", zap.Int("users_with_usage", len(priorHours)))

	// Step 4: Rank users, least served first
	ranked := allocator.RankUsers(users, priorHours)

	// Step 5: Assign and persist per user
	for _, user := range ranked {
		schedule, err := store.FindScheduleByUserAndMonth(ctx, user.ID, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedule for user %s: %w", user.ID, err)
		}

		if schedule == nil {
			logger.Debug("No schedule for current month, skipping user",
				zap.String("user_id", user.ID),
				zap.Int("month", month),
				zap.Int("year", year))
			result.SkippedUserIDs = append(result.SkippedUserIDs, user.ID)
			continue
		}

		available := allocator.ExtractAvailability(schedule)
		assignment := allocator.BuildAssignment(user.ID, currentWeek, available)

		if errs := allocator.ValidateAssignment(assignment); len(errs) > 0 {
			return nil, fmt.Errorf("refusing to write invalid assignment: %w", errs[0])
		}

		if _, err := store.UpsertUsage(ctx, user.ID, currentWeek, assignment.Total, assignment.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to save weekly usage for user %s: %w", user.ID, err)
		}

		logger.Debug("Assigned charger hours",
			zap.String("user_id", user.ID),
			zap.Int("prior_hours", priorHours[user.ID]),
			zap.Int("total_hours", assignment.Total),
			zap.Any("breakdown", assignment.Breakdown.Map()))

		result.Assignments = append(result.Assignments, assignment)
		result.AssignedCount++
	}

	// Step 6: Report
	logger.Info("Charger assigned",
		zap.String("week", currentWeek),
		zap.Int("assigned", result.AssignedCount),
		zap.Int("skipped", len(result.SkippedUserIDs)))

	return result, nil
}

// fetchPriorHours looks up each user's total for the previous week; users without a record are left out
func fetchPriorHours(ctx context.Context, store AutoAssignStore, users []db.User, previousWeek string) (map[string]int, error) {
	priorHours := make(map[string]int, len(users))

	for _, user := range users {
		usage, err := store.FindUsageByUserAndWeek(ctx, user.ID, previousWeek)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch usage for user %s in week %s: %w", user.ID, previousWeek, err)
		}
		if usage != nil {
			priorHours[user.ID] = usage.HoursUsed
		}
	}

	return priorHours, nil
}
