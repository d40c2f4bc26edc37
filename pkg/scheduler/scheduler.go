package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

// Job is run at each occurrence of the schedule. firedAt is the occurrence time.
type Job func(ctx context.Context, firedAt time.Time) error

// Scheduler runs a job at each occurrence of an RRULE, one run at a time
type Scheduler struct {
	rule   *rrule.RRule
	expr   string
	loc    *time.Location
	logger *zap.Logger

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) bool
}

// New parses an RRULE such as "FREQ=WEEKLY;BYDAY=MO;BYHOUR=0;BYMINUTE=0;BYSECOND=0".
// Occurrences are computed in loc and counted from today; see NewFrom.
func New(expr string, loc *time.Location, logger *zap.Logger) (*Scheduler, error) {
	return NewFrom(expr, loc, time.Now(), logger)
}

// NewFrom is New with the rule anchored at local midnight of start's day, unless expr sets its own
// DTSTART. COUNT and INTERVAL are counted from that anchor for the life of the scheduler.
func NewFrom(expr string, loc *time.Location, start time.Time, logger *zap.Logger) (*Scheduler, error) {
	opt, err := rrule.StrToROptionInLocation(expr, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule rrule: %w", err)
	}

	if opt.Dtstart.IsZero() {
		local := start.In(loc)
		opt.Dtstart = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule rrule: %w", err)
	}

	return &Scheduler{
		rule:   rule,
		expr:   expr,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		wait:   sleep,
	}, nil
}

// Next returns the first occurrence strictly after the given time, or false if the rule has ended
func (s *Scheduler) Next(after time.Time) (time.Time, bool) {
	next := s.rule.After(after.In(s.loc), false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// Run blocks until ctx is cancelled or the rule has no more occurrences, running job at each one.
// A failed run is logged and the scheduler waits for the next occurrence.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	s.logger.Info("Scheduler started", zap.String("rrule", s.expr), zap.String("timezone", s.loc.String()))

	for {
		now := s.now()
		next, ok := s.Next(now)
		if !ok {
			s.logger.Info("Schedule has no further occurrences, stopping")
			return nil
		}

		s.logger.Info("Next run scheduled", zap.Time("at", next))

		if !s.wait(ctx, next.Sub(now)) {
			s.logger.Info("Scheduler stopped")
			return nil
		}

		start := s.now()
		if err := job(ctx, next); err != nil {
			s.logger.Error("Scheduled run failed", zap.Time("fired_at", next), zap.Error(err))
		} else {
			s.logger.Debug("Scheduled run finished",
				zap.Time("fired_at", next),
				zap.Duration("took", s.now().Sub(start)))
		}

		if ctx.Err() != nil {
			s.logger.Info("Scheduler stopped")
			return nil
		}
	}
}

// sleep waits for d, returning false if ctx is cancelled first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
