package power

import (
	"context"
	"log/slog"
	"time"
)

// TelemetrySource yields the most recent telemetry snapshot.
type TelemetrySource interface {
	Telemetry(ctx context.Context) (Telemetry, error)
}

// Scheduler answers "when should the host ask for a snapshot again". It
// performs no I/O beyond the telemetry read and owns no timer; the host's
// own wake-up mechanism retains control.
type Scheduler struct {
	source        TelemetrySource
	policy        Policy
	criticalLevel float64
	maxAge        time.Duration
	logger        *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPolicy overrides the interval table.
func WithPolicy(p Policy) SchedulerOption {
	return func(s *Scheduler) {
		s.policy = p
	}
}

// WithCriticalLevel overrides the critical battery threshold.
func WithCriticalLevel(level float64) SchedulerOption {
	return func(s *Scheduler) {
		s.criticalLevel = level
	}
}

// WithTelemetryMaxAge overrides how old telemetry may be before it is
// distrusted.
func WithTelemetryMaxAge(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.maxAge = d
	}
}

// WithLogger sets the logger for degraded telemetry reads.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// NewScheduler creates a Scheduler over a telemetry source.
func NewScheduler(source TelemetrySource, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		source:        source,
		policy:        DefaultPolicy(),
		criticalLevel: DefaultCriticalLevel,
		maxAge:        DefaultTelemetryMaxAge,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State derives the current power state. An unreadable telemetry store
// degrades to StateUnknown rather than failing the scheduling decision.
func (s *Scheduler) State(ctx context.Context) State {
	t, err := s.source.Telemetry(ctx)
	if err != nil {
		s.logger.Warn("telemetry unavailable, assuming unknown power state", "error", err)
		return StateUnknown
	}
	return StateOf(t, time.Now(), s.criticalLevel, s.maxAge)
}

// NextInterval returns the preferred refresh interval and the state it was
// derived from.
func (s *Scheduler) NextInterval(ctx context.Context) (time.Duration, State) {
	state := s.State(ctx)
	return s.policy.Interval(state), state
}

// NextRefreshAt returns the preferred next wake-up time.
func (s *Scheduler) NextRefreshAt(ctx context.Context) time.Time {
	interval, _ := s.NextInterval(ctx)
	return time.Now().Add(interval)
}
