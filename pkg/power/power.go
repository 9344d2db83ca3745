// Package power maps coarse device power state to a preferred refresh
// cadence for externally-scheduled display surfaces.
//
// The host enforces its own wake-up budget; this package only expresses a
// preference within that budget, trading freshness for battery under power
// pressure. Whenever telemetry is stale or absent it errs toward the
// longest safe interval rather than over-fetching on uncertain input.
package power

import (
	"fmt"
	"time"
)

// State is the coarse power state used for scheduling decisions. It is
// recomputed on each decision and never cached.
type State int

const (
	// StateUnknown means telemetry is absent, stale, or unreadable.
	StateUnknown State = iota
	// StateCharging means the device is plugged in or full.
	StateCharging
	// StateUnplugged means on battery with a healthy charge level.
	StateUnplugged
	// StateUnpluggedLowPower means on battery with low-power mode engaged.
	StateUnpluggedLowPower
	// StateUnpluggedCritical means on battery below the critical level.
	StateUnpluggedCritical
)

func (s State) String() string {
	switch s {
	case StateCharging:
		return "charging"
	case StateUnplugged:
		return "unplugged"
	case StateUnpluggedLowPower:
		return "unplugged_low_power"
	case StateUnpluggedCritical:
		return "unplugged_critical"
	case StateUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Telemetry is a snapshot of platform battery signals, written by the main
// process and read from the shared store by widget processes.
type Telemetry struct {
	Level     float64 // battery charge, 0.0 to 1.0
	Charging  bool
	LowPower  bool
	UpdatedAt time.Time
}

const (
	// DefaultCriticalLevel is the charge level below which the battery is
	// treated as critical. The comparison is strict: a battery exactly at
	// the threshold reads as normal unplugged.
	DefaultCriticalLevel = 0.20

	// DefaultTelemetryMaxAge is how old a telemetry snapshot may be before
	// it is distrusted and the state degrades to StateUnknown.
	DefaultTelemetryMaxAge = 30 * time.Minute
)

// StateOf derives the power state from a telemetry snapshot as of now.
// Critical charge takes precedence over low-power mode, since it maps to
// the longer (safer) interval.
func StateOf(t Telemetry, now time.Time, criticalLevel float64, maxAge time.Duration) State {
	if t.UpdatedAt.IsZero() || now.Sub(t.UpdatedAt) > maxAge {
		return StateUnknown
	}
	switch {
	case t.Charging:
		return StateCharging
	case t.Level < criticalLevel:
		return StateUnpluggedCritical
	case t.LowPower:
		return StateUnpluggedLowPower
	default:
		return StateUnplugged
	}
}

// Policy is the static lookup table from power state to refresh interval.
// The zero value uses the default intervals.
type Policy struct {
	Charging time.Duration
	Normal   time.Duration
	LowPower time.Duration
	Critical time.Duration
	Unknown  time.Duration
}

// DefaultPolicy returns the standard interval table.
func DefaultPolicy() Policy {
	return Policy{
		Charging: 10 * time.Minute,
		Normal:   15 * time.Minute,
		LowPower: 30 * time.Minute,
		Critical: 60 * time.Minute,
		Unknown:  20 * time.Minute,
	}
}

// Interval returns the preferred refresh interval for a state.
func (p Policy) Interval(s State) time.Duration {
	if p == (Policy{}) {
		p = DefaultPolicy()
	}
	switch s {
	case StateCharging:
		return p.Charging
	case StateUnplugged:
		return p.Normal
	case StateUnpluggedLowPower:
		return p.LowPower
	case StateUnpluggedCritical:
		return p.Critical
	default:
		return p.Unknown
	}
}
