package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/pkg/core/week"
)

// PlanPublisher defines the operations needed to send charger plans to the charger controller
type PlanPublisher interface {
	Publish(topic string, payload []byte) error
}

// ChargerPlan is the message the charger controller receives for one user and week
type ChargerPlan struct {
	Week      string         `json:"week"`
	WeekStart string         `json:"weekStart,omitempty"`
	UserID    string         `json:"userId"`
	Email     string         `json:"email,omitempty"`
	Hours     map[string]int `json:"hours"`
	Total     int            `json:"total"`
}

// FailedPublish represents a plan that could not be published
type FailedPublish struct {
	UserID string
	Topic  string
	Error  string
}

// PlanTopic returns the topic a user's plan for a week is published on
func PlanTopic(prefix, wk, userID string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(prefix, "/"), wk, userID)
}

// PublishChargerPlan publishes every assignment from a run, one message per user.
// Failures are collected; an error is returned only if every publish failed.
func PublishChargerPlan(result *AutoAssignResult, publisher PlanPublisher, topicPrefix string, logger *zap.Logger) ([]string, []FailedPublish, error) {
	published := []string{}
	failed := []FailedPublish{}

	if result == nil || len(result.Assignments) == 0 {
		logger.Debug("No assignments to publish")
		return published, failed, nil
	}

	weekStart := ""
	if monday, err := week.Monday(result.Week); err == nil {
		weekStart = monday.Format("2006-01-02")
	}

	for _, assignment := range result.Assignments {
		plan := ChargerPlan{
			Week:      assignment.Week,
			WeekStart: weekStart,
			UserID:    assignment.UserID,
			Email:     result.Users[assignment.UserID].Email,
			Hours:     assignment.Breakdown.Map(),
			Total:     assignment.Total,
		}

		payload, err := json.Marshal(plan)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode plan for user %s: %w", assignment.UserID, err)
		}

		topic := PlanTopic(topicPrefix, assignment.Week, assignment.UserID)
		logger.Debug("Publishing charger plan", zap.String("topic", topic), zap.Int("total", plan.Total))

		if err := publisher.Publish(topic, payload); err != nil {
			logger.Warn("Failed to publish charger plan",
				zap.String("user_id", assignment.UserID),
				zap.String("topic", topic),
				zap.Error(err))
			failed = append(failed, FailedPublish{UserID: assignment.UserID, Topic: topic, Error: err.Error()})
			continue
		}

		published = append(published, assignment.UserID)
	}

	if len(failed) == len(result.Assignments) {
		return published, failed, fmt.Errorf("all %d charger plan publish attempts failed", len(failed))
	}

	logger.Info("Charger plans published",
		zap.String("week", result.Week),
		zap.Int("published", len(published)),
		zap.Int("failed", len(failed)))

	return published, failed, nil
}
