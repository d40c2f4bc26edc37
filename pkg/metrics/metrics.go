package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels a finished assignment run
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeNoUsers Outcome = "no_users"
	OutcomeError   Outcome = "error"
)

// RunSummary is what gets recorded about one assignment run
type RunSummary struct {
	Outcome    Outcome
	Week       string
	Assigned   int
	Skipped    int
	Hours      int
	Duration   time.Duration
	FinishedAt time.Time
}

// Recorder records assignment runs in Prometheus metrics
type Recorder struct {
	runs        *prometheus.CounterVec
	assigned    prometheus.Gauge
	skipped     prometheus.Gauge
	hours       prometheus.Gauge
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewRecorder registers the run metrics on reg, or the default registerer when reg is nil.
// Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charger_assignment_runs_total",
		Help: "Total number of weekly charger assignment runs by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}

	assigned, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charger_assignment_users_assigned",
		Help: "Users whose weekly usage was written by the last run",
	}))
	if err != nil {
		return nil, err
	}

	skipped, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charger_assignment_users_skipped",
		Help: "Users skipped by the last run because they had no schedule for the month",
	}))
	if err != nil {
		return nil, err
	}

	hours, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charger_assignment_hours_assigned",
		Help: "Charger hours assigned by the last run",
	}))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "charger_assignment_run_duration_seconds",
		Help:    "Duration of assignment runs",
		Buckets: prometheus.DefBuckets,
	}))
	if err != nil {
		return nil, err
	}

	lastSuccess, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "charger_assignment_last_success_timestamp_seconds",
		Help: "Unix time of the last run that finished without error",
	}))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		runs:        runs,
		assigned:    assigned,
		skipped:     skipped,
		hours:       hours,
		duration:    duration,
		lastSuccess: lastSuccess,
	}, nil
}

// RecordRun records one run. Gauges describing the last run are left alone when it failed.
func (r *Recorder) RecordRun(s RunSummary) {
	r.runs.WithLabelValues(string(s.Outcome)).Inc()
	r.duration.Observe(s.Duration.Seconds())

	if s.Outcome == OutcomeError {
		return
	}

	r.assigned.Set(float64(s.Assigned))
	r.skipped.Set(float64(s.Skipped))
	r.hours.Set(float64(s.Hours))
	r.lastSuccess.Set(float64(s.FinishedAt.Unix()))
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
