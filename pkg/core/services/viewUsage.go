package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/week"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// WeekUsageRow is one user's charger hours for a week
type WeekUsageRow struct {
	UserID    string
	UserName  string
	Email     string
	Breakdown model.Breakdown
	Total     int
}

// WeekUsageReport lists everyone's charger hours for a week
type WeekUsageReport struct {
	Week string
	Rows []WeekUsageRow

	// UnassignedUsers are users with the user role and no record for the week
	UnassignedUsers []db.User
}

// ViewWeekUsageStore defines the database operations needed for viewing a week's usage
type ViewWeekUsageStore interface {
	FindUsersByRole(ctx context.Context, role model.Role) ([]db.User, error)
	FindUserByID(ctx context.Context, id string) (*db.User, error)
	FindUsageByWeek(ctx context.Context, week string) ([]db.WeeklyUsage, error)
}

// ViewWeekUsage joins a week's usage records with their users, ordered by user name
func ViewWeekUsage(ctx context.Context, store ViewWeekUsageStore, logger *zap.Logger, wk string) (*WeekUsageReport, error) {
	if _, _, err := week.Parse(wk); err != nil {
		return nil, invalidInput("%v", err)
	}

	logger.Debug("Fetching usage for week", zap.String("week", wk))
	records, err := store.FindUsageByWeek(ctx, wk)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage: %w", err)
	}

	users, err := store.FindUsersByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	byID := usersByID(users)

	report := &WeekUsageReport{Week: wk}
	withRecord := make(map[string]bool, len(records))

	for _, r := range records {
		withRecord[r.UserID] = true

		// Records may belong to admins, who are not in the user-role listing
		user, ok := byID[r.UserID]
		if !ok {
			found, err := store.FindUserByID(ctx, r.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch user %s: %w", r.UserID, err)
			}
			if found != nil {
				user = *found
			} else {
				user = db.User{ID: r.UserID}
			}
		}

		report.Rows = append(report.Rows, WeekUsageRow{
			UserID:    r.UserID,
			UserName:  userDisplayName(user),
			Email:     user.Email,
			Breakdown: r.Breakdown,
			Total:     r.HoursUsed,
		})
	}

	for _, u := range users {
		if !withRecord[u.ID] {
			report.UnassignedUsers = append(report.UnassignedUsers, u)
		}
	}

	slices.SortFunc(report.Rows, func(a, b WeekUsageRow) int {
		return strings.Compare(strings.ToLower(a.UserName), strings.ToLower(b.UserName))
	})

	logger.Debug("Week usage loaded",
		zap.String("week", wk),
		zap.Int("rows", len(report.Rows)),
		zap.Int("unassigned", len(report.UnassignedUsers)))

	return report, nil
}
