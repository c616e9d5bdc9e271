package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
)

const saveTimeout = 5 * time.Second

// Persister writes committed game states to a SnapshotStore. Saves are debounced so a
// burst of commits produces one write of the latest document.
type Persister struct {
	store    SnapshotStore
	key      string
	debounce time.Duration
	notifier notify.Notifier

	mu      sync.Mutex
	pending *models.GameState
	timer   *time.Timer
	closed  bool

	// saveMu serializes writes with Clear
	saveMu sync.Mutex
}

// NewPersister creates a persister saving under key
func NewPersister(store SnapshotStore, key string, debounce time.Duration, notifier notify.Notifier) *Persister {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Persister{
		store:    store,
		key:      key,
		debounce: debounce,
		notifier: notifier,
	}
}

// Load restores the saved document. A missing snapshot returns defaults with no error;
// an unreadable one returns defaults and a StorageError. defaults also supplies the
// seed rival channels merged into a loaded document.
func (p *Persister) Load(ctx context.Context, defaults *models.GameState) (*models.GameState, error) {
	payload, err := p.store.Get(ctx, p.key)
	if errors.Is(err, ErrSnapshotNotFound) {
		logger.Log.Info().
			Str("key", p.key).
			Msg("No saved game found, starting setup")
		return defaults, nil
	}
	if err == nil {
		var state *models.GameState
		state, err = Decode(payload, defaults.OtherChannels)
		if err == nil {
			logger.Log.Info().
				Str("key", p.key).
				Str("channel_name", state.Channel.Name).
				Int("content_items", len(state.Channel.ContentItems)).
				Msg("Saved game loaded")
			p.notifier.Notify("Game Loaded!", "Your progress has been restored.", notify.VariantDefault)
			return state, nil
		}
	}

	storageErr := &StorageError{Op: "load", Key: p.key, Err: err}
	logger.Log.Error().
		Err(storageErr).
		Msg("Failed to load saved game, starting new game")
	p.notifier.Notify("Load Error", "Failed to load saved game. Starting new game.", notify.VariantDestructive)
	return defaults, storageErr
}

// ScheduleSave queues state for writing after the debounce window. It is meant to be
// registered as a store commit hook; state must not be mutated afterwards.
func (p *Persister) ScheduleSave(state *models.GameState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.pending = state
	if p.timer == nil {
		p.timer = time.AfterFunc(p.debounce, p.flushPending)
	}
}

func (p *Persister) flushPending() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := p.Flush(ctx); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Debounced save failed")
	}
}

// Flush writes the pending document immediately, if there is one
func (p *Persister) Flush(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	state := p.pending
	p.pending = nil
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	if state == nil {
		return nil
	}
	return p.save(ctx, state)
}

func (p *Persister) save(ctx context.Context, state *models.GameState) error {
	payload, err := Encode(state)
	if err == nil {
		err = p.store.Put(ctx, p.key, payload)
	}
	if err != nil {
		storageErr := &StorageError{Op: "save", Key: p.key, Err: err}
		p.notifier.Notify("Save Error", "Failed to save game progress. Storage might be full or unavailable.", notify.VariantDestructive)
		return storageErr
	}

	logger.Log.Debug().
		Str("key", p.key).
		Int("bytes", len(payload)).
		Msg("Game saved")
	return nil
}

// Clear drops any pending save and deletes the stored snapshot
func (p *Persister) Clear(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	p.pending = nil
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	if err := p.store.Delete(ctx, p.key); err != nil {
		return &StorageError{Op: "clear", Key: p.key, Err: err}
	}

	logger.Log.Info().
		Str("key", p.key).
		Msg("Saved game cleared")
	return nil
}

// Close flushes the pending document and rejects later saves
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.Flush(ctx)
}
