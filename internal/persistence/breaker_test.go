package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails Put while failing is set
type flakyStore struct {
	*MemoryStore
	failing bool
	calls   int
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) Put(ctx context.Context, key string, payload []byte) error {
	f.calls++
	if f.failing {
		return errDiskFull
	}
	return f.MemoryStore.Put(ctx, key, payload)
}

func newGuarded(threshold int, cooldown time.Duration) (*GuardedStore, *flakyStore, *time.Time) {
	inner := &flakyStore{MemoryStore: NewMemoryStore()}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	g := NewGuardedStore(inner, threshold, cooldown)
	g.now = func() time.Time { return now }
	return g, inner, &now
}

func TestGuardedStore_OpensAfterThreshold(t *testing.T) {
	g, inner, _ := newGuarded(2, time.Minute)
	ctx := context.Background()
	inner.failing = true

	assert.ErrorIs(t, g.Put(ctx, "k", []byte("a")), errDiskFull)
	assert.Equal(t, BreakerClosed, g.State())
	assert.ErrorIs(t, g.Put(ctx, "k", []byte("a")), errDiskFull)
	assert.Equal(t, BreakerOpen, g.State())

	err := g.Put(ctx, "k", []byte("a"))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the backend")
}

func TestGuardedStore_HalfOpenRecovery(t *testing.T) {
	g, inner, now := newGuarded(1, time.Minute)
	ctx := context.Background()
	inner.failing = true

	require.Error(t, g.Put(ctx, "k", []byte("a")))
	assert.Equal(t, BreakerOpen, g.State())

	*now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, g.State())

	inner.failing = false
	require.NoError(t, g.Put(ctx, "k", []byte("b")))
	assert.Equal(t, BreakerClosed, g.State())

	got, err := g.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestGuardedStore_HalfOpenFailureReopens(t *testing.T) {
	g, inner, now := newGuarded(3, time.Minute)
	ctx := context.Background()
	inner.failing = true

	for range 3 {
		require.Error(t, g.Put(ctx, "k", nil))
	}
	*now = now.Add(2 * time.Minute)
	assert.Equal(t, BreakerHalfOpen, g.State())

	require.ErrorIs(t, g.Put(ctx, "k", nil), errDiskFull)
	assert.Equal(t, BreakerOpen, g.State())
}

func TestGuardedStore_NotFoundIsNotAFailure(t *testing.T) {
	g, _, _ := newGuarded(1, time.Minute)

	_, err := g.Get(context.Background(), "missing")
	assert.True(t, IsSnapshotNotFound(err))
	assert.Equal(t, BreakerClosed, g.State())
}

func TestGuardedStore_Reset(t *testing.T) {
	g, inner, _ := newGuarded(1, time.Hour)
	inner.failing = true
	require.Error(t, g.Put(context.Background(), "k", nil))
	require.Equal(t, BreakerOpen, g.State())

	g.Reset()
	assert.Equal(t, BreakerClosed, g.State())
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half_open", BreakerHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(9).String())
}
