package power

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeGROOVE-dev/snapcache/pkg/sharedstore"
)

func TestTelemetryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := sharedstore.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	written := Telemetry{Level: 0.42, Charging: true, LowPower: false, UpdatedAt: time.Now()}
	require.NoError(t, WriteTelemetry(ctx, store, written))

	got, err := NewStoreSource(store).Telemetry(ctx)
	require.NoError(t, err)

	assert.InDelta(t, written.Level, got.Level, 1e-9)
	assert.Equal(t, written.Charging, got.Charging)
	assert.Equal(t, written.LowPower, got.LowPower)
	assert.WithinDuration(t, written.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func TestTelemetry_EmptyStoreMeansUnknown(t *testing.T) {
	ctx := context.Background()
	store, err := sharedstore.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	got, err := NewStoreSource(store).Telemetry(ctx)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.IsZero())

	state := StateOf(got, time.Now(), DefaultCriticalLevel, DefaultTelemetryMaxAge)
	assert.Equal(t, StateUnknown, state)
}

func TestTelemetry_MalformedScalarIsAnError(t *testing.T) {
	ctx := context.Background()
	store, err := sharedstore.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, KeyUpdatedAt, "not-a-timestamp"))

	_, err = NewStoreSource(store).Telemetry(ctx)
	assert.Error(t, err)
}

func TestWriteTelemetry_StampsZeroUpdatedAt(t *testing.T) {
	ctx := context.Background()
	store, err := sharedstore.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, WriteTelemetry(ctx, store, Telemetry{Level: 0.5}))

	got, err := NewStoreSource(store).Telemetry(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.UpdatedAt, time.Second)
}
