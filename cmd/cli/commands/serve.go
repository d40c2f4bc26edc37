package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/plazacoche/charger-rota/pkg/metrics"
	"github.com/plazacoche/charger-rota/pkg/scheduler"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the weekly assignment on its schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := scheduler.NewFrom(app.Cfg.AssignmentSchedule, app.Location, app.now(), app.Logger)
			if err != nil {
				return err
			}

			if next, ok := sched.Next(app.now()); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Next assignment run: %s\n", next.Format(time.RFC1123))
			}

			runCtx, stop := context.WithCancel(app.Ctx)
			defer stop()
			group, ctx := errgroup.WithContext(runCtx)

			if app.Cfg.MetricsAddr != "" {
				group.Go(func() error {
					return metrics.Serve(ctx, app.Cfg.MetricsAddr, prometheus.DefaultGatherer, app.Logger)
				})
			}

			group.Go(func() error {
				// the metrics server goes down with the scheduler
				defer stop()
				return sched.Run(ctx, func(ctx context.Context, firedAt time.Time) error {
					report, err := runAssignment(ctx, app, firedAt)
					if err != nil {
						return err
					}
					printAssignmentReport(cmd.OutOrStdout(), report)
					return nil
				})
			})

			if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			app.Logger.Info("Scheduler stopped", zap.String("schedule", app.Cfg.AssignmentSchedule))
			return nil
		},
	}
}
