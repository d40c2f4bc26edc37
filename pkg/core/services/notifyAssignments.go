package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/model"
	"github.com/plazacoche/charger-rota/pkg/core/week"
)

// GmailClient defines the operations needed for sending emails
type GmailClient interface {
	SendEmail(to, subject, body string) error
}

// NotificationSent represents a user who was emailed their assignment
type NotificationSent struct {
	UserID   string
	UserName string
	Email    string
}

// FailedEmail represents an email that failed to send
type FailedEmail struct {
	UserID   string
	UserName string
	Email    string
	Error    string
}

// NotifyAssignments emails each assigned user their charger hours for the week.
// Send failures are collected rather than aborting; an error is returned only if every send failed.
func NotifyAssignments(result *AutoAssignResult, gmailClient GmailClient, logger *zap.Logger) ([]NotificationSent, []FailedEmail, error) {
	sent := []NotificationSent{}
	failed := []FailedEmail{}

	if result == nil || len(result.Assignments) == 0 {
		logger.Debug("No assignments to notify")
		return sent, failed, nil
	}

	weekStart := ""
	if monday, err := week.Monday(result.Week); err == nil {
		weekStart = monday.Format("Mon Jan 02 2006")
	}

	attempted := 0
	for _, assignment := range result.Assignments {
		user, ok := result.Users[assignment.UserID]
		if !ok || user.Email == "" {
			logger.Warn("No email address for assigned user, skipping notification",
				zap.String("user_id", assignment.UserID))
			continue
		}
		attempted++

		name := userDisplayName(user)
		subject := fmt.Sprintf("Your charger hours for week %s", result.Week)
		body := assignmentEmailBody(name, result.Week, weekStart, assignment.Breakdown, assignment.Total)

		logger.Info("Sending assignment email",
			zap.String("user_id", user.ID),
			zap.String("email", user.Email))

		if err := gmailClient.SendEmail(user.Email, subject, body); err != nil {
			logger.Warn("Failed to send assignment email",
				zap.String("user_id", user.ID),
				zap.String("email", user.Email),
				zap.Error(err))

			failed = append(failed, FailedEmail{
				UserID:   user.ID,
				UserName: name,
				Email:    user.Email,
				Error:    err.Error(),
			})
			continue
		}

		sent = append(sent, NotificationSent{
			UserID:   user.ID,
			UserName: name,
			Email:    user.Email,
		})
	}

	if attempted > 0 && len(failed) == attempted {
		return sent, failed, fmt.Errorf("all %d assignment email send attempts failed", len(failed))
	}

	logger.Debug("Assignment notifications completed",
		zap.Int("sent", len(sent)),
		zap.Int("failed", len(failed)))

	return sent, failed, nil
}

func assignmentEmailBody(name, wk, weekStart string, breakdown model.Breakdown, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s\n\n", name)
	if weekStart != "" {
		fmt.Fprintf(&b, "Your charger hours for week %s (starting %s):\n\n", wk, weekStart)
	} else {
		fmt.Fprintf(&b, "Your charger hours for week %s:\n\n", wk)
	}

	for _, d := range model.Weekdays {
		label := strings.ToUpper(d.String()[:1]) + d.String()[1:]
		fmt.Fprintf(&b, "  %-10s %d\n", label, breakdown.Get(d))
	}
	fmt.Fprintf(&b, "\n  %-10s %d\n", "Total", total)

	b.WriteString("\nThe plan was worked out from the schedule you submitted for this month.\n")
	b.WriteString("If it doesn't suit you, update your schedule before next Monday.\n")

	return b.String()
}
