package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/allocator"
	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/db"
)

type sentEmail struct {
	to      string
	subject string
	body    string
}

type mockGmailClient struct {
	sent    []sentEmail
	failFor map[string]bool
}

func (m *mockGmailClient) SendEmail(to, subject, body string) error {
	if m.failFor[to] {
		return errors.New("rate limited")
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func assignedResult() *AutoAssignResult {
	return &AutoAssignResult{
		Week:         "2025-43",
		PreviousWeek: "2025-42",
		Assignments: []allocator.Assignment{
			allocator.BuildAssignment("u1", "2025-43", model.Breakdown{2, 0, 2, 0, 0}),
			allocator.BuildAssignment("u2", "2025-43", model.Breakdown{0, 1, 0, 0, 2}),
		},
		AssignedCount: 2,
		Users: map[string]db.User{
			"u1": {ID: "u1", Name: "Ana", Email: "ana@example.com", Role: model.RoleUser},
			"u2": {ID: "u2", Name: "Luis", Email: "luis@example.com", Role: model.RoleUser},
		},
	}
}

func TestNotifyAssignments_SendsOneEmailPerAssignment(t *testing.T) {
	gmail := &mockGmailClient{}

	sent, failed, err := NotifyAssignments(assignedResult(), gmail, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, failed)
	require.Len(t, sent, 2)
	assert.Equal(t, NotificationSent{UserID: "u1", UserName: "Ana", Email: "ana@example.com"}, sent[0])

	require.Len(t, gmail.sent, 2)
	first := gmail.sent[0]
	assert.Equal(t, "ana@example.com", first.to)
	assert.Equal(t, "Your charger hours for week 2025-43", first.subject)
	assert.Contains(t, first.body, "Hi Ana")
	assert.Contains(t, first.body, "starting Mon Oct 20 2025")
	assert.Contains(t, first.body, "Monday     2")
	assert.Contains(t, first.body, "Tuesday    0")
	assert.Contains(t, first.body, "Total      4")
}

func TestNotifyAssignments_CollectsFailures(t *testing.T) {
	gmail := &mockGmailClient{failFor: map[string]bool{"luis@example.com": true}}

	sent, failed, err := NotifyAssignments(assignedResult(), gmail, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, "u1", sent[0].UserID)
	require.Len(t, failed, 1)
	assert.Equal(t, "u2", failed[0].UserID)
	assert.Equal(t, "rate limited", failed[0].Error)
}

func TestNotifyAssignments_AllFailed(t *testing.T) {
	gmail := &mockGmailClient{failFor: map[string]bool{"ana@example.com": true, "luis@example.com": true}}

	sent, failed, err := NotifyAssignments(assignedResult(), gmail, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 assignment email send attempts failed")
	assert.Empty(t, sent)
	require.Len(t, failed, 2, "per-user failures are kept for reporting")
	assert.Equal(t, "ana@example.com", failed[0].Email)
	assert.Equal(t, "luis@example.com", failed[1].Email)
}

func TestNotifyAssignments_SkipsUsersWithoutEmail(t *testing.T) {
	result := assignedResult()
	result.Users["u2"] = db.User{ID: "u2", Name: "Luis", Role: model.RoleUser}
	gmail := &mockGmailClient{}

	sent, failed, err := NotifyAssignments(result, gmail, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, sent, 1)
	assert.Empty(t, failed)
	assert.Len(t, gmail.sent, 1)
}

func TestNotifyAssignments_NothingAssigned(t *testing.T) {
	gmail := &mockGmailClient{}

	sent, failed, err := NotifyAssignments(&AutoAssignResult{Week: "2025-43", NoUsers: true}, gmail, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, sent)
	assert.Empty(t, failed)
	assert.Empty(t, gmail.sent)
}
