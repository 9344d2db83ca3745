package power

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

// Shared-store keys for persisted telemetry scalars.
const (
	KeyLevel     = "battery_level"
	KeyCharging  = "battery_charging"
	KeyLowPower  = "battery_low_power"
	KeyUpdatedAt = "battery_updated_at"
)

// WriteTelemetry persists a telemetry snapshot into the shared store.
// Called from the main process whenever platform battery signals change.
// UpdatedAt is stamped with the current time if zero.
func WriteTelemetry(ctx context.Context, store sharedstore.Store, t Telemetry) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	pairs := []struct{ key, value string }{
		{KeyLevel, strconv.FormatFloat(t.Level, 'f', -1, 64)},
		{KeyCharging, strconv.FormatBool(t.Charging)},
		{KeyLowPower, strconv.FormatBool(t.LowPower)},
		{KeyUpdatedAt, strconv.FormatInt(t.UpdatedAt.UnixNano(), 10)},
	}
	for _, p := range pairs {
		if err := store.Set(ctx, p.key, p.value); err != nil {
			return fmt.Errorf("persist telemetry %s: %w", p.key, err)
		}
	}
	return nil
}

// StoreSource reads persisted telemetry from the shared store.
type StoreSource struct {
	store sharedstore.Store
}

// NewStoreSource creates a telemetry source over the shared store.
func NewStoreSource(store sharedstore.Store) *StoreSource {
	return &StoreSource{store: store}
}

// Telemetry reads the persisted snapshot. A store with no telemetry at all
// returns a zero Telemetry and no error; the zero UpdatedAt then derives
// StateUnknown. Malformed scalars are errors.
func (s *StoreSource) Telemetry(ctx context.Context) (Telemetry, error) {
	var t Telemetry

	raw, ok, err := s.store.Get(ctx, KeyUpdatedAt)
	if err != nil {
		return Telemetry{}, fmt.Errorf("read telemetry: %w", err)
	}
	if !ok {
		return Telemetry{}, nil
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Telemetry{}, fmt.Errorf("malformed %s %q: %w", KeyUpdatedAt, raw, err)
	}
	t.UpdatedAt = time.Unix(0, nanos)

	if raw, ok, err = s.store.Get(ctx, KeyLevel); err != nil {
		return Telemetry{}, fmt.Errorf("read telemetry: %w", err)
	} else if ok {
		if t.Level, err = strconv.ParseFloat(raw, 64); err != nil {
			return Telemetry{}, fmt.Errorf("malformed %s %q: %w", KeyLevel, raw, err)
		}
	}

	if raw, ok, err = s.store.Get(ctx, KeyCharging); err != nil {
		return Telemetry{}, fmt.Errorf("read telemetry: %w", err)
	} else if ok {
		if t.Charging, err = strconv.ParseBool(raw); err != nil {
			return Telemetry{}, fmt.Errorf("malformed %s %q: %w", KeyCharging, raw, err)
		}
	}

	if raw, ok, err = s.store.Get(ctx, KeyLowPower); err != nil {
		return Telemetry{}, fmt.Errorf("read telemetry: %w", err)
	} else if ok {
		if t.LowPower, err = strconv.ParseBool(raw); err != nil {
			return Telemetry{}, fmt.Errorf("malformed %s %q: %w", KeyLowPower, raw, err)
		}
	}

	return t, nil
}
