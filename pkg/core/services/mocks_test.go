package services

import (
	"context"
	"slices"

	"github.com/plazacoche/charger-rota/pkg/db"
)

func (m *mockStore) FindUserByID(ctx context.Context, id string) (*db.User, error) {
	if m.findUserErr != nil {
		return nil, m.findUserErr
	}
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockStore) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	if m.findUserErr != nil {
		return nil, m.findUserErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockStore) InsertUser(ctx context.Context, user *db.User) error {
	if m.insertUserErr != nil {
		return m.insertUserErr
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *mockStore) SaveSchedule(ctx context.Context, schedule *db.Schedule) error {
	if m.saveScheduleErr != nil {
		return m.saveScheduleErr
	}
	m.addSchedule(*schedule)
	return nil
}

func (m *mockStore) FindUsageByWeek(ctx context.Context, week string) ([]db.WeeklyUsage, error) {
	if m.findUsageErr != nil {
		return nil, m.findUsageErr
	}
	var out []db.WeeklyUsage
	for _, u := range m.usage {
		if u.Week == week {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b db.WeeklyUsage) int {
		if a.UserID < b.UserID {
			return -1
		}
		if a.UserID > b.UserID {
			return 1
		}
		return 0
	})
	return out, nil
}

// Compile-time check that the mock covers the full database interface
var _ db.Database = (*mockStore)(nil)
