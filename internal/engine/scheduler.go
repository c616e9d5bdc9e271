package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

// itemProcess is the pair of timers driving one live item
type itemProcess struct {
	itemID string
	cancel context.CancelFunc

	mu     sync.Mutex
	growth growthProcess
}

func (p *itemProcess) phase() GrowthPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.growth.phase
}

// Scheduler runs metric growth and comment reveal for every attached live item.
// Each item gets a growth goroutine on a fixed ticker and a reveal goroutine on a
// timer whose period is re-rolled after every firing.
type Scheduler struct {
	store *store.Store
	gen   *generator.Generator
	rng   random.Source
	now   func() time.Time

	growthInterval   time.Duration
	commentRevealMin time.Duration
	commentRevealMax time.Duration

	mu    sync.Mutex
	procs map[string]*itemProcess
	wg    conc.WaitGroup
}

// NewScheduler creates a scheduler over st
func NewScheduler(st *store.Store, gen *generator.Generator, rng random.Source, cfg Config, now func() time.Time) *Scheduler {
	return &Scheduler{
		store:            st,
		gen:              gen,
		rng:              rng,
		now:              now,
		growthInterval:   cfg.GrowthInterval,
		commentRevealMin: cfg.CommentRevealMin,
		commentRevealMax: cfg.CommentRevealMax,
		procs:            make(map[string]*itemProcess),
	}
}

// Attach starts growth and comment reveal for itemID. Attaching an item that is
// already running is a no-op and returns false.
func (s *Scheduler) Attach(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.procs[itemID]; ok {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	proc := &itemProcess{itemID: itemID, cancel: cancel}
	s.procs[itemID] = proc

	s.wg.Go(func() { s.runGrowth(ctx, proc) })
	s.wg.Go(func() { s.runReveal(ctx, proc) })

	logger.Log.Debug().
		Str("content_id", itemID).
		Dur("growth_interval", s.growthInterval).
		Msg("Growth process attached")

	return true
}

// Detach stops the timers for itemID without waiting for them to exit
func (s *Scheduler) Detach(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked(itemID)
}

func (s *Scheduler) detachLocked(itemID string) {
	proc, ok := s.procs[itemID]
	if !ok {
		return
	}
	proc.cancel()
	delete(s.procs, itemID)
}

// DetachAll stops every process and waits for their goroutines to exit
func (s *Scheduler) DetachAll() {
	s.mu.Lock()
	count := len(s.procs)
	for id := range s.procs {
		s.detachLocked(id)
	}
	s.mu.Unlock()

	s.wg.Wait()

	if count > 0 {
		logger.Log.Debug().
			Int("detached", count).
			Msg("Growth processes detached")
	}
}

// Phase returns the growth phase of an attached item
func (s *Scheduler) Phase(itemID string) (GrowthPhase, bool) {
	s.mu.Lock()
	proc, ok := s.procs[itemID]
	s.mu.Unlock()
	if !ok {
		return PhaseIdle, false
	}
	return proc.phase(), true
}

// Attached returns the number of running item processes
func (s *Scheduler) Attached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}

func (s *Scheduler) runGrowth(ctx context.Context, proc *itemProcess) {
	ticker := time.NewTicker(s.growthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.growOnce(proc) {
				s.Detach(proc.itemID)
				return
			}
		}
	}
}

// growOnce applies one growth tick, returning false if the item no longer exists
func (s *Scheduler) growOnce(proc *itemProcess) bool {
	found := true
	err := s.store.Update(func(state *models.GameState) error {
		item, owner, ok := state.FindContent(proc.itemID)
		if !ok {
			found = false
			return store.ErrNoChange
		}
		if !item.IsLive() {
			return store.ErrNoChange
		}

		proc.mu.Lock()
		proc.growth.step(item, s.rng, s.gen)
		proc.mu.Unlock()

		if owner.IsPlayer {
			state.Channel.TotalViews = state.Channel.SumLiveViews()
		}
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", proc.itemID).
			Msg("Growth tick failed")
	}
	if !found {
		logger.Log.Debug().
			Str("content_id", proc.itemID).
			Msg("Content item gone, stopping growth")
	}
	return found
}

func (s *Scheduler) runReveal(ctx context.Context, proc *itemProcess) {
	timer := time.NewTimer(s.revealDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if !s.revealOnce(proc.itemID) {
				return
			}
			timer.Reset(s.revealDelay())
		}
	}
}

func (s *Scheduler) revealDelay() time.Duration {
	return random.Duration(s.rng, s.commentRevealMin, s.commentRevealMax)
}

// revealOnce shows the next comment, returning false when nothing is left to reveal
func (s *Scheduler) revealOnce(itemID string) bool {
	more := false
	err := s.store.Update(func(state *models.GameState) error {
		item, _, ok := state.FindContent(itemID)
		if !ok || !item.IsLive() {
			more = ok
			return store.ErrNoChange
		}
		if !revealNext(item, s.now().UTC()) {
			return store.ErrNoChange
		}
		more = item.RemainingComments() > 0
		return nil
	})
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", itemID).
			Msg("Comment reveal failed")
	}
	return more
}
