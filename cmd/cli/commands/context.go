package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/plazacoche/charger-rota/internal/config"
	"github.com/plazacoche/charger-rota/pkg/core/services"
	"github.com/plazacoche/charger-rota/pkg/db"
	"github.com/plazacoche/charger-rota/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands.
// The optional clients are nil when their feature is not configured.
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
	Location *time.Location
	Metrics  *metrics.Recorder

	GmailClient   services.GmailClient
	SheetsClient  services.WeekSheetPublisher
	PlanPublisher services.PlanPublisher

	// Now defaults to time.Now; tests pin it
	Now func() time.Time
}

// SkipInitAnnotation marks commands that run without config, database or clients
const SkipInitAnnotation = "skipInit"

func (app *AppContext) now() time.Time {
	now := time.Now
	if app.Now != nil {
		now = app.Now
	}
	if app.Location != nil {
		return now().In(app.Location)
	}
	return now()
}
