// Package report provides deduplicated, rate-limited diagnostic reporting.
//
// Display-surface processes can be woken very frequently by the host
// scheduler; a persistent backing-store outage would otherwise generate one
// detailed log record per wake-up. The Reporter emits a full record at most
// once per cooldown window per error fingerprint, while still counting every
// occurrence for diagnostics.
package report

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCooldown is the minimum gap between detailed records for the same
// fingerprint.
const DefaultCooldown = 5 * time.Minute

// Fingerprint identifies a class of errors for deduplication.
type Fingerprint struct {
	Domain string // subsystem that observed the failure, e.g. "notestore"
	Code   string // taxonomy code, e.g. "store_unavailable"
}

// Stats describes the observed history of one fingerprint.
type Stats struct {
	Count        int       // total occurrences, including suppressed ones
	Emitted      int       // detailed records actually logged
	LastLoggedAt time.Time // when the last detailed record was emitted
}

type record struct {
	lastLoggedAt time.Time
	count        int
	emitted      int
}

// EnvFunc returns a snapshot of ambient state (power description, store
// reachability) attached to every detailed record. It is called outside the
// reporter's lock and must be safe for concurrent use.
type EnvFunc func() []slog.Attr

// Reporter deduplicates error reports by fingerprint and suppresses
// detailed output within a cooldown window. The zero value is not usable;
// construct with New.
type Reporter struct {
	mu       sync.Mutex
	cooldown time.Duration
	logger   *slog.Logger
	env      EnvFunc
	seen     map[Fingerprint]*record
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithCooldown sets the suppression window between detailed records.
func WithCooldown(d time.Duration) Option {
	return func(r *Reporter) {
		r.cooldown = d
	}
}

// WithLogger sets the destination logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		r.logger = l
	}
}

// WithEnv sets the environment snapshot provider.
func WithEnv(f EnvFunc) Option {
	return func(r *Reporter) {
		r.env = f
	}
}

// New creates a Reporter with the default 5 minute cooldown.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		cooldown: DefaultCooldown,
		logger:   slog.Default(),
		seen:     make(map[Fingerprint]*record),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report records one occurrence of the fingerprinted error. If the last
// detailed record for this fingerprint is older than the cooldown (or none
// has been emitted yet), a full diagnostic record is logged at Error level
// with the environment snapshot attached. Otherwise the occurrence is
// counted and a Debug line is emitted instead.
func (r *Reporter) Report(fp Fingerprint, msg string, attrs ...slog.Attr) {
	now := time.Now()

	r.mu.Lock()
	rec := r.seen[fp]
	if rec == nil {
		rec = &record{}
		r.seen[fp] = rec
	}
	rec.count++
	suppress := !rec.lastLoggedAt.IsZero() && now.Sub(rec.lastLoggedAt) < r.cooldown
	if !suppress {
		rec.lastLoggedAt = now
		rec.emitted++
	}
	count := rec.count
	r.mu.Unlock()

	base := []slog.Attr{
		slog.String("domain", fp.Domain),
		slog.String("code", fp.Code),
		slog.Int("occurrences", count),
	}
	base = append(base, attrs...)

	if suppress {
		r.logger.LogAttrs(context.Background(), slog.LevelDebug, msg+" (suppressed)", base...)
		return
	}

	if r.env != nil {
		base = append(base, r.env()...)
	}
	r.logger.LogAttrs(context.Background(), slog.LevelError, msg, base...)
}

// Occurrences returns the total number of reports seen for a fingerprint,
// including suppressed ones.
func (r *Reporter) Occurrences(fp Fingerprint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.seen[fp]; rec != nil {
		return rec.count
	}
	return 0
}

// Stats returns the observed history of a fingerprint.
func (r *Reporter) Stats(fp Fingerprint) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec := r.seen[fp]; rec != nil {
		return Stats{Count: rec.count, Emitted: rec.emitted, LastLoggedAt: rec.lastLoggedAt}
	}
	return Stats{}
}

// Snapshot returns the stats for every fingerprint seen so far.
func (r *Reporter) Snapshot() map[Fingerprint]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Fingerprint]Stats, len(r.seen))
	for fp, rec := range r.seen {
		out[fp] = Stats{Count: rec.count, Emitted: rec.emitted, LastLoggedAt: rec.lastLoggedAt}
	}
	return out
}
