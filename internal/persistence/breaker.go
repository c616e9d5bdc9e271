package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stwalsh4118/punsta/internal/logger"
)

// BreakerState is the state of a GuardedStore's circuit
type BreakerState int

const (
	// BreakerClosed passes every call through
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the cooldown elapses
	BreakerOpen
	// BreakerHalfOpen lets one trial call through
	BreakerHalfOpen
)

// String returns the string representation of BreakerState
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrBackendUnavailable is returned while the breaker is open
var ErrBackendUnavailable = errors.New("snapshot backend unavailable")

// GuardedStore wraps a SnapshotStore with a circuit breaker. After threshold
// consecutive failures it rejects calls for cooldown, then lets a trial call decide
// whether to close again. A missing snapshot counts as success.
type GuardedStore struct {
	inner     SnapshotStore
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time
}

// NewGuardedStore wraps inner; a threshold below 1 is treated as 1
func NewGuardedStore(inner SnapshotStore, threshold int, cooldown time.Duration) *GuardedStore {
	if threshold < 1 {
		threshold = 1
	}
	return &GuardedStore{
		inner:     inner,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Get reads through the breaker
func (g *GuardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := g.call("get", key, func() error {
		var err error
		payload, err = g.inner.Get(ctx, key)
		return err
	})
	return payload, err
}

// Put writes through the breaker
func (g *GuardedStore) Put(ctx context.Context, key string, payload []byte) error {
	return g.call("put", key, func() error {
		return g.inner.Put(ctx, key, payload)
	})
}

// Delete deletes through the breaker
func (g *GuardedStore) Delete(ctx context.Context, key string) error {
	return g.call("delete", key, func() error {
		return g.inner.Delete(ctx, key)
	})
}

// State returns the current breaker state
func (g *GuardedStore) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maybeHalfOpenLocked()
	return g.state
}

// Reset closes the breaker and forgets past failures
func (g *GuardedStore) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = BreakerClosed
	g.failures = 0
	g.lastFailure = time.Time{}
}

func (g *GuardedStore) call(op, key string, fn func() error) error {
	g.mu.Lock()
	g.maybeHalfOpenLocked()
	if g.state == BreakerOpen {
		g.mu.Unlock()
		return fmt.Errorf("%s %q: %w", op, key, ErrBackendUnavailable)
	}
	g.mu.Unlock()

	err := fn()

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		g.recordFailureLocked(op)
		return err
	}
	if g.state == BreakerHalfOpen {
		logger.Log.Info().Msg("Snapshot backend recovered")
	}
	g.state = BreakerClosed
	g.failures = 0
	return err
}

func (g *GuardedStore) maybeHalfOpenLocked() {
	if g.state == BreakerOpen && g.now().Sub(g.lastFailure) >= g.cooldown {
		g.state = BreakerHalfOpen
	}
}

func (g *GuardedStore) recordFailureLocked(op string) {
	g.failures++
	g.lastFailure = g.now()

	if g.state == BreakerHalfOpen || g.failures >= g.threshold {
		if g.state != BreakerOpen {
			logger.Log.Warn().
				Str("op", op).
				Int("failures", g.failures).
				Dur("cooldown", g.cooldown).
				Msg("Snapshot backend failing, pausing writes")
		}
		g.state = BreakerOpen
	}
}
