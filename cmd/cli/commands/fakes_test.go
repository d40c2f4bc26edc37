package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/internal/config"
	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

// fakeDB is an in-memory db.Database
type fakeDB struct {
	users     []db.User
	schedules map[string]*db.Schedule
	usage     map[string]*db.WeeklyUsage

	usersErr error
}

var _ db.Database = (*fakeDB)(nil)

func newFakeDB(users ...db.User) *fakeDB {
	return &fakeDB{
		users:     users,
		schedules: make(map[string]*db.Schedule),
		usage:     make(map[string]*db.WeeklyUsage),
	}
}

func (f *fakeDB) FindUsersByRole(ctx context.Context, role model.Role) ([]db.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	var out []db.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDB) FindUserByID(ctx context.Context, id string) (*db.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) InsertUser(ctx context.Context, user *db.User) error {
	user.CreatedAt = time.Now()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeDB) FindScheduleByUserAndMonth(ctx context.Context, userID string, month, year int) (*db.Schedule, error) {
	return f.schedules[fmt.Sprintf("%s/%d/%d", userID, month, year)], nil
}

func (f *fakeDB) SaveSchedule(ctx context.Context, schedule *db.Schedule) error {
	f.schedules[fmt.Sprintf("%s/%d/%d", schedule.UserID, schedule.Month, schedule.Year)] = schedule
	return nil
}

func (f *fakeDB) FindUsageByUserAndWeek(ctx context.Context, userID, week string) (*db.WeeklyUsage, error) {
	return f.usage[userID+"/"+week], nil
}

func (f *fakeDB) FindUsageByWeek(ctx context.Context, week string) ([]db.WeeklyUsage, error) {
	var out []db.WeeklyUsage
	for _, u := range f.usage {
		if u.Week == week {
			out = append(out, *u)
		}
	}
	slices.SortFunc(out, func(a, b db.WeeklyUsage) int { return strings.Compare(a.UserID, b.UserID) })
	return out, nil
}

func (f *fakeDB) UpsertUsage(ctx context.Context, userID, week string, totalHours int, breakdown model.Breakdown) (*db.WeeklyUsage, error) {
	u := &db.WeeklyUsage{
		ID:        userID + "/" + week,
		UserID:    userID,
		Week:      week,
		HoursUsed: totalHours,
		Breakdown: breakdown,
	}
	f.usage[userID+"/"+week] = u
	return u, nil
}

type fakeGmail struct {
	sent []string
	err  error
}

func (f *fakeGmail) SendEmail(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePublisher struct {
	topics []string
}

func (f *fakePublisher) Publish(topic string, payload []byte) error {
	f.topics = append(f.topics, topic)
	return nil
}

var errStore = errors.New("connection refused")

// testApp returns an app pinned to Thursday 2025-10-23 in Madrid (week 2025-43)
func testApp(t *testing.T, database db.Database) *AppContext {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	return &AppContext{
		Cfg: &config.Config{
			MQTT: config.MQTTConfig{TopicPrefix: config.DefaultMQTTTopicPrefix},
		},
		Database: database,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
		Location: loc,
		Now: func() time.Time {
			return time.Date(2025, 10, 23, 9, 30, 0, 0, loc)
		},
	}
}

// execute runs cmd with args and returns what it printed
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seededDB has two users with October 2025 schedules and one without.
// Ana used 6 hours in week 2025-42, so Luis ranks first.
func seededDB() *fakeDB {
	database := newFakeDB(
		db.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: model.RoleUser},
		db.User{ID: "u2", Name: "Luis", Email: "luis@example.com", Role: model.RoleUser},
		db.User{ID: "u3", Name: "Eva", Email: "eva@example.com", Role: model.RoleUser},
		db.User{ID: "a1", Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
	)
	database.schedules["u1/10/2025"] = &db.Schedule{
		UserID: "u1", Month: 10, Year: 2025,
		Days: []db.ScheduleDay{
			{Weekday: model.Monday, Hours: []int{8, 9, 10}},
			{Weekday: model.Wednesday, Hours: []int{14}},
		},
	}
	database.schedules["u2/10/2025"] = &db.Schedule{
		UserID: "u2", Month: 10, Year: 2025,
		Days: []db.ScheduleDay{
			{Weekday: model.Friday, Hours: []int{9}},
		},
	}
	database.usage["u1/2025-42"] = &db.WeeklyUsage{UserID: "u1", Week: "2025-42", HoursUsed: 6}
	return database
}
