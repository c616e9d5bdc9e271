// Package store holds the single game-state document and serializes every mutation to it.
package store

import (
	"errors"
	"sync"

	"github.com/stwalsh4118/punsta/internal/models"
)

var (
	// ErrStaleGeneration indicates the document was replaced since the caller captured its generation
	ErrStaleGeneration = errors.New("state generation is stale")

	// ErrNoChange aborts an update without committing and without reporting an error
	ErrNoChange = errors.New("no change")
)

// IsStaleGeneration checks if the error is a stale generation error
func IsStaleGeneration(err error) bool {
	return errors.Is(err, ErrStaleGeneration)
}

// CommitHook observes every committed document. The document must be treated as read-only.
// Hooks run one at a time in commit order and must not call back into the store.
type CommitHook func(state *models.GameState)

// Store is a mutex-guarded container for the game state.
//
// Updates are applied to a clone and swapped in only if the mutation succeeds, so a
// failed mutation never leaves partial changes behind. Committed documents are never
// mutated afterwards, which lets hooks read them outside the lock.
type Store struct {
	mu         sync.RWMutex
	state      *models.GameState
	generation uint64

	// notifyMu is taken before mu is released so hooks see commits in order
	notifyMu sync.Mutex
	hooksMu  sync.RWMutex
	hooks    []CommitHook
}

// New creates a store holding initial
func New(initial *models.GameState) *Store {
	if initial == nil {
		initial = &models.GameState{}
	}
	return &Store{state: initial, generation: 1}
}

// Snapshot returns a deep copy of the current document
func (s *Store) Snapshot() *models.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// View calls fn with the current document under the read lock; fn must not retain or mutate it
func (s *Store) View(fn func(state *models.GameState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Generation returns the current document generation, bumped on every Replace
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Update applies fn to a copy of the document and commits it if fn returns nil.
// Returning ErrNoChange discards the copy and reports success.
func (s *Store) Update(fn func(state *models.GameState) error) error {
	return s.update(0, fn)
}

// UpdateIf behaves like Update but fails with ErrStaleGeneration when the document
// has been replaced since generation was captured
func (s *Store) UpdateIf(generation uint64, fn func(state *models.GameState) error) error {
	if generation == 0 {
		return ErrStaleGeneration
	}
	return s.update(generation, fn)
}

func (s *Store) update(generation uint64, fn func(state *models.GameState) error) error {
	s.mu.Lock()
	if generation != 0 && generation != s.generation {
		s.mu.Unlock()
		return ErrStaleGeneration
	}

	next := s.state.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	s.state = next
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.notify(next)
	return nil
}

// Replace swaps in a whole new document and invalidates captured generations
func (s *Store) Replace(state *models.GameState) uint64 {
	if state == nil {
		state = &models.GameState{}
	}
	s.mu.Lock()
	s.state = state
	s.generation++
	generation := s.generation
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.notify(state)
	return generation
}

// OnCommit registers a hook run after every successful Update or Replace
func (s *Store) OnCommit(hook CommitHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// notify runs the hooks and releases notifyMu, which the caller must hold
func (s *Store) notify(state *models.GameState) {
	defer s.notifyMu.Unlock()

	s.hooksMu.RLock()
	hooks := s.hooks
	s.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(state)
	}
}
