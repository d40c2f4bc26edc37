package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/services"
	"github.com/plazacoche/charger-rota/pkg/metrics"
)

// AssignmentReport is everything that happened in one assignment run
type AssignmentReport struct {
	Result *services.AutoAssignResult

	EmailsSent   []services.NotificationSent
	EmailsFailed []services.FailedEmail
	NotifyErr    error

	PlansPublished []string
	PlansFailed    []services.FailedPublish
	PublishErr     error
}

// runAssignment runs the weekly assignment for now, then the configured follow-ups
// (emails and charger plans), and records metrics. Follow-up failures are reported, not returned.
func runAssignment(ctx context.Context, app *AppContext, now time.Time) (*AssignmentReport, error) {
	start := time.Now()

	result, err := services.RunAutoAssignment(ctx, app.Database, app.Logger, now)
	if err != nil {
		app.recordRun(metrics.RunSummary{Outcome: metrics.OutcomeError, Duration: time.Since(start), FinishedAt: time.Now()})
		return nil, err
	}

	report := &AssignmentReport{Result: result}

	if app.GmailClient != nil && len(result.Assignments) > 0 {
		report.EmailsSent, report.EmailsFailed, report.NotifyErr = services.NotifyAssignments(result, app.GmailClient, app.Logger)
		if report.NotifyErr != nil {
			app.Logger.Warn("Assignment notifications failed", zap.Error(report.NotifyErr))
		}
	}

	if app.PlanPublisher != nil && len(result.Assignments) > 0 {
		report.PlansPublished, report.PlansFailed, report.PublishErr = services.PublishChargerPlan(
			result, app.PlanPublisher, app.Cfg.MQTT.TopicPrefix, app.Logger)
		if report.PublishErr != nil {
			app.Logger.Warn("Charger plan publishing failed", zap.Error(report.PublishErr))
		}
	}

	summary := metrics.RunSummary{
		Outcome:    metrics.OutcomeSuccess,
		Week:       result.Week,
		Assigned:   result.AssignedCount,
		Skipped:    len(result.SkippedUserIDs),
		Duration:   time.Since(start),
		FinishedAt: time.Now(),
	}
	if result.NoUsers {
		summary.Outcome = metrics.OutcomeNoUsers
	}
	for _, a := range result.Assignments {
		summary.Hours += a.Total
	}
	app.recordRun(summary)

	return report, nil
}

func (app *AppContext) recordRun(s metrics.RunSummary) {
	if app.Metrics != nil {
		app.Metrics.RecordRun(s)
	}
}
