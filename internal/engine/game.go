// Package engine implements the channel simulation: content lifecycle, metric growth,
// daily progression and the economy, all operating on one shared state document.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

// Config holds the timing of every recurring engine step
type Config struct {
	GrowthInterval   time.Duration
	CommentRevealMin time.Duration
	CommentRevealMax time.Duration
	ProcessingDelay  time.Duration
	DailyInterval    time.Duration
}

// DefaultConfig returns the standard simulation timings
func DefaultConfig() Config {
	return Config{
		GrowthInterval:   time.Second,
		CommentRevealMin: time.Second,
		CommentRevealMax: 4 * time.Second,
		ProcessingDelay:  3 * time.Second,
		DailyInterval:    time.Minute,
	}
}

// withDefaults fills zero durations from DefaultConfig
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.GrowthInterval <= 0 {
		c.GrowthInterval = def.GrowthInterval
	}
	if c.CommentRevealMin <= 0 {
		c.CommentRevealMin = def.CommentRevealMin
	}
	if c.CommentRevealMax < c.CommentRevealMin {
		c.CommentRevealMax = c.CommentRevealMin
	}
	if c.ProcessingDelay <= 0 {
		c.ProcessingDelay = def.ProcessingDelay
	}
	if c.DailyInterval <= 0 {
		c.DailyInterval = def.DailyInterval
	}
	return c
}

// SnapshotClearer removes the persisted snapshot when a new game replaces it
type SnapshotClearer interface {
	Clear(ctx context.Context) error
}

// Option customizes a Game
type Option func(*Game)

// WithRandom sets the random source every draw goes through
func WithRandom(src random.Source) Option {
	return func(g *Game) { g.rng = src }
}

// WithClock sets the time source
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithNotifier sets where user-facing notifications go
func WithNotifier(n notify.Notifier) Option {
	return func(g *Game) { g.notifier = n }
}

// WithSnapshotClearer sets the persisted snapshot to clear on StartNewGame
func WithSnapshotClearer(c SnapshotClearer) Option {
	return func(g *Game) { g.clearer = c }
}

// Game wires the simulation components around one state store and is the entry
// point used by views
type Game struct {
	store    *store.Store
	rng      random.Source
	gen      *generator.Generator
	notifier notify.Notifier
	clearer  SnapshotClearer
	now      func() time.Time
	cfg      Config

	Scheduler *Scheduler
	Lifecycle *Lifecycle
	Daily     *Daily
	Economy   *Economy

	mu      sync.Mutex
	running bool
}

// NewGame creates a game over st
func NewGame(st *store.Store, cfg Config, opts ...Option) *Game {
	g := &Game{
		store:    st,
		notifier: notify.Nop{},
		now:      time.Now,
		cfg:      cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = random.New(0)
	}
	g.gen = generator.New(g.rng)

	g.Scheduler = NewScheduler(st, g.gen, g.rng, g.cfg, g.now)
	g.Lifecycle = NewLifecycle(st, g.gen, g.rng, g.Scheduler, g.notifier, g.cfg, g.now)
	g.Daily = NewDaily(st, g.rng, g.notifier, g.cfg, g.now)
	g.Economy = NewEconomy(st, g.notifier)
	return g
}

// Start attaches growth to every live item, resumes uploads still processing and starts
// the daily tick
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return
	}
	g.running = true

	attached := g.attachLive()
	resumed := g.Lifecycle.Resume()
	g.Daily.Start()

	logger.Log.Info().
		Int("attached_items", attached).
		Int("resumed_uploads", resumed).
		Msg("Game engine started")
}

// Stop cancels every timer and waits for background work to exit
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return
	}
	g.running = false

	g.Lifecycle.Suspend()
	g.Daily.Stop()
	g.teardown()

	logger.Log.Info().Msg("Game engine stopped")
}

func (g *Game) teardown() {
	g.Lifecycle.CancelPending()
	g.Scheduler.DetachAll()
}

func (g *Game) attachLive() int {
	var ids []string
	g.store.View(func(state *models.GameState) {
		ids = state.LiveContentIDs()
	})
	for _, id := range ids {
		g.Scheduler.Attach(id)
	}
	return len(ids)
}

// Restore replaces the whole document, discarding every running timer, and re-attaches
// growth for each live item if the engine is running
func (g *Game) Restore(state *models.GameState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.teardown()
	g.store.Replace(state)
	if g.running {
		g.attachLive()
	}
}

// StartNewGame resets the document to a fresh player channel plus the seed rivals.
// startingSubscribers may be nil for zero.
func (g *Game) StartNewGame(ctx context.Context, name string, startingSubscribers *int64) (*models.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("name", ErrRequiredField, "")
	}
	var subscribers int64
	if startingSubscribers != nil {
		if *startingSubscribers < 0 {
			return nil, newValidationError("startingSubscribers", ErrNegativeValue, "")
		}
		subscribers = *startingSubscribers
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.teardown()

	if g.clearer != nil {
		if err := g.clearer.Clear(ctx); err != nil {
			logger.Log.Warn().
				Err(err).
				Msg("Failed to clear saved game")
		}
	}

	state := gamedata.NewGameState(name, subscribers, g.now(), g.gen)
	g.store.Replace(state)
	if g.running {
		g.attachLive()
	}

	logger.Log.Info().
		Str("channel_name", name).
		Int64("starting_subscribers", subscribers).
		Msg("New game started")
	g.notifier.Notify("Game Started!",
		fmt.Sprintf("Welcome, %s! Your journey to rap stardom begins.", name),
		notify.VariantDefault)

	return state.Clone(), nil
}

// State returns a copy of the current document
func (g *Game) State() *models.GameState {
	return g.store.Snapshot()
}

// LiveContent returns the player's live items in creation order
func (g *Game) LiveContent() []models.ContentItem {
	var items []models.ContentItem
	g.store.View(func(state *models.GameState) {
		live := state.Channel.LiveContent()
		items = make([]models.ContentItem, len(live))
		for i, item := range live {
			items[i] = item.Clone()
		}
	})
	return items
}

// CreateContent uploads a new item; see Lifecycle.CreateContent
func (g *Game) CreateContent(ctx context.Context, draft ContentDraft) (*models.ContentItem, error) {
	return g.Lifecycle.CreateContent(ctx, draft)
}

// CreatePlaylist adds a playlist; see Lifecycle.CreatePlaylist
func (g *Game) CreatePlaylist(ctx context.Context, draft PlaylistDraft) (*models.Playlist, error) {
	return g.Lifecycle.CreatePlaylist(ctx, draft)
}

// CreatePost adds a community post
func (g *Game) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	return g.Lifecycle.CreatePost(ctx, content)
}

// RunAdCampaign spends budget on the one-time ad campaign
func (g *Game) RunAdCampaign(ctx context.Context, budget int64) (*AdResult, error) {
	return g.Economy.RunAdCampaign(ctx, budget)
}

// TrainSkill buys the next skill level
func (g *Game) TrainSkill(ctx context.Context) (SkillResult, error) {
	return g.Economy.TrainSkill(ctx)
}
