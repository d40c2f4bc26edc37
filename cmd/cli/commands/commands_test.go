package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
	"github.com/plazacoche/charger-rota/pkg/metrics"
)

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		year  int
		month time.Month
		day   int
	}{
		{"ordinary day", "2025-10-22", 2025, time.October, 22},
		{"clocks go back", "2025-10-26", 2025, time.October, 26},
		{"clocks go forward", "2025-03-30", 2025, time.March, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := parseDate(tt.input, loc)
			require.NoError(t, err)

			assert.True(t, time.Date(tt.year, tt.month, tt.day, 12, 0, 0, 0, loc).Equal(date), "got %s", date)
			assert.Equal(t, 12, date.Hour())
			assert.Equal(t, loc, date.Location())
		})
	}

	_, err = parseDate("26/10/2025", loc)
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestScheduleFile_ScheduleDays(t *testing.T) {
	file := &scheduleFile{
		Month: 11,
		Year:  2025,
		Days: map[string][]int{
			"Friday":  {18},
			"monday":  {8, 9},
			"tuesday": {},
		},
	}

	days, err := file.scheduleDays()
	require.NoError(t, err)

	assert.Equal(t, []db.ScheduleDay{
		{Weekday: model.Monday, Hours: []int{8, 9}},
		{Weekday: model.Tuesday, Hours: []int{}},
		{Weekday: model.Friday, Hours: []int{18}},
	}, days)
}

func TestScheduleFile_RejectsWeekend(t *testing.T) {
	file := &scheduleFile{Days: map[string][]int{"saturday": {10}}}

	_, err := file.scheduleDays()
	assert.ErrorContains(t, err, "invalid weekday")
}

func TestReadScheduleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("month: 10\nyear: 2025\ndays:\n  monday: [8, 9]\n  thursday: [20]\n"), 0o600))

	file, err := readScheduleFile(path)
	require.NoError(t, err)

	assert.Equal(t, 10, file.Month)
	assert.Equal(t, 2025, file.Year)
	assert.Equal(t, map[string][]int{"monday": {8, 9}, "thursday": {20}}, file.Days)

	_, err = readScheduleFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read schedule file")
}

func TestRunAssignment_WithFollowUps(t *testing.T) {
	database := seededDB()
	app := testApp(t, database)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	app.Metrics = rec

	gmail := &fakeGmail{}
	publisher := &fakePublisher{}
	app.GmailClient = gmail
	app.PlanPublisher = publisher

	report, err := runAssignment(app.Ctx, app, app.now())
	require.NoError(t, err)

	result := report.Result
	assert.Equal(t, "2025-43", result.Week)
	assert.Equal(t, 2, result.AssignedCount)
	assert.Equal(t, []string{"u3"}, result.SkippedUserIDs)
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, "u2", result.Assignments[0].UserID, "no usage last week ranks first")

	assert.Equal(t, model.Breakdown{2, 0, 1, 0, 0}, database.usage["u1/2025-43"].Breakdown)
	assert.Equal(t, 1, database.usage["u2/2025-43"].HoursUsed)

	assert.Equal(t, []string{"luis@example.com", "ana@example.com"}, gmail.sent)
	assert.Len(t, report.EmailsSent, 2)
	assert.NoError(t, report.NotifyErr)

	assert.Equal(t, []string{"charger/plan/2025-43/u2", "charger/plan/2025-43/u1"}, publisher.topics)
	assert.NoError(t, report.PublishErr)

	expected := `
# HELP charger_assignment_hours_assigned Charger hours assigned by the last run
# TYPE charger_assignment_hours_assigned gauge
charger_assignment_hours_assigned 4
# HELP charger_assignment_runs_total Total number of weekly charger assignment runs by outcome
# TYPE charger_assignment_runs_total counter
charger_assignment_runs_total{outcome="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"charger_assignment_runs_total", "charger_assignment_hours_assigned"))
}

func TestRunAssignment_NotificationFailureIsReported(t *testing.T) {
	app := testApp(t, seededDB())
	app.GmailClient = &fakeGmail{err: errStore}

	report, err := runAssignment(app.Ctx, app, app.now())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Result.AssignedCount, "email failures do not undo the assignment")
	assert.Empty(t, report.EmailsSent)
	assert.ErrorContains(t, report.NotifyErr, "all 2 assignment email send attempts failed")
	require.Len(t, report.EmailsFailed, 2)

	var out bytes.Buffer
	printAssignmentReport(&out, report)
	assert.Contains(t, out.String(), "✗ Luis (luis@example.com): connection refused")
	assert.Contains(t, out.String(), "✗ Ana (ana@example.com): connection refused")
}

func TestRunAssignment_NoUsers(t *testing.T) {
	app := testApp(t, newFakeDB())

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	app.Metrics = rec
	gmail := &fakeGmail{}
	app.GmailClient = gmail

	report, err := runAssignment(app.Ctx, app, app.now())
	require.NoError(t, err)

	assert.True(t, report.Result.NoUsers)
	assert.Empty(t, gmail.sent)

	expected := `
# HELP charger_assignment_runs_total Total number of weekly charger assignment runs by outcome
# TYPE charger_assignment_runs_total counter
charger_assignment_runs_total{outcome="no_users"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "charger_assignment_runs_total"))
}

func TestRunAssignment_StoreError(t *testing.T) {
	database := seededDB()
	database.usersErr = errStore
	app := testApp(t, database)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	app.Metrics = rec

	_, err = runAssignment(app.Ctx, app, app.now())
	require.ErrorIs(t, err, errStore)

	expected := `
# HELP charger_assignment_runs_total Total number of weekly charger assignment runs by outcome
# TYPE charger_assignment_runs_total counter
charger_assignment_runs_total{outcome="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "charger_assignment_runs_total"))
}

func TestAutoAssignCmd_DateFlag(t *testing.T) {
	database := seededDB()
	app := testApp(t, database)

	out, err := execute(t, AutoAssignCmd(app), "--date", "2025-10-20")
	require.NoError(t, err)

	assert.Contains(t, out, "week 2025-43")
	assert.Contains(t, out, "Assigned 2 user(s)")
	assert.Contains(t, out, "Eva")
	assert.NotNil(t, database.usage["u1/2025-43"])
}

func TestAutoAssignCmd_InvalidDate(t *testing.T) {
	app := testApp(t, seededDB())

	_, err := execute(t, AutoAssignCmd(app), "--date", "next monday")
	assert.ErrorContains(t, err, "invalid date")
}

func TestWeekCmd(t *testing.T) {
	app := testApp(t, nil)

	out, err := execute(t, WeekCmd(app), "2024-12-30")
	require.NoError(t, err)

	assert.Contains(t, out, "Week:          2025-01")
	assert.Contains(t, out, "Previous week: 2024-52")
	assert.Contains(t, out, "Mon 2024-12-30 to Fri 2025-01-03")
}

func TestWeekCmd_DefaultsToToday(t *testing.T) {
	app := testApp(t, nil)

	out, err := execute(t, WeekCmd(app))
	require.NoError(t, err)

	assert.Contains(t, out, "Week:          2025-43")
}

func TestResolveWeek(t *testing.T) {
	app := testApp(t, nil)

	wk, err := resolveWeek(app, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-43", wk)

	wk, err = resolveWeek(app, []string{"2025-01"})
	require.NoError(t, err)
	assert.Equal(t, "2025-01", wk)

	_, err = resolveWeek(app, []string{"week one"})
	assert.Error(t, err)
}

func TestViewUsageCmd(t *testing.T) {
	database := seededDB()
	app := testApp(t, database)
	_, err := runAssignment(app.Ctx, app, app.now())
	require.NoError(t, err)

	out, err := execute(t, ViewUsageCmd(app), "2025-43")
	require.NoError(t, err)

	assert.Contains(t, out, "Charger usage for week 2025-43")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Luis")
	assert.Contains(t, out, "No hours this week (1)")
}

func TestPublishWeekCmd_NotConfigured(t *testing.T) {
	app := testApp(t, seededDB())

	_, err := execute(t, PublishWeekCmd(app))
	assert.ErrorContains(t, err, "publishing is not configured")
}

func TestAddUserCmd(t *testing.T) {
	database := newFakeDB()
	app := testApp(t, database)

	out, err := execute(t, AddUserCmd(app), "Marta Gil", "Marta@Example.com")
	require.NoError(t, err)

	require.Len(t, database.users, 1)
	assert.Equal(t, "marta@example.com", database.users[0].Email)
	assert.Equal(t, model.RoleUser, database.users[0].Role)
	assert.Contains(t, out, "User created")

	_, err = execute(t, AddUserCmd(app), "Root", "root@example.com", "--role", "superuser")
	assert.ErrorContains(t, err, "invalid role")
}

func TestRecordUsageCmd(t *testing.T) {
	database := seededDB()
	app := testApp(t, database)

	out, err := execute(t, RecordUsageCmd(app), "u3", "2025-10-22", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Usage recorded for week 2025-43")
	assert.Equal(t, model.Breakdown{0, 0, 2, 0, 0}, database.usage["u3/2025-43"].Breakdown)

	_, err = execute(t, RecordUsageCmd(app), "u3", "2025-10-22", "two")
	assert.ErrorContains(t, err, "hours must be a number")
}

func TestSubmitScheduleCmd(t *testing.T) {
	database := seededDB()
	app := testApp(t, database)

	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("month: 11\nyear: 2025\ndays:\n  tuesday: [19, 18]\n"), 0o600))

	out, err := execute(t, SubmitScheduleCmd(app), "u3", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Schedule saved for 2025-11")
	assert.Contains(t, out, "tuesday    18:00, 19:00 (18:00-19:00, 2h assignable)")
	require.NotNil(t, database.schedules["u3/11/2025"])
}
