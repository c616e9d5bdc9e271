package engine

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

const (
	minInitialViews    = 1000
	minInitialLikes    = 100
	minInitialDislikes = 10

	commentsPerViews = 500
	baselineComments = 10
	adBoostMoneyUnit = 1000
	adBoostPerUnit   = 100
	postLikesBase    = 10
	postLikesSpan    = 50
	postCommentsBase = 2
	postCommentsSpan = 10
)

// Random bands for initial metrics
var (
	subscriberReachBand = [2]float64{0.02, 0.22}
	adBoostBand         = [2]float64{0.75, 1.25}
	initialLikesBand    = [2]float64{0.05, 0.10}
	initialDislikeBand  = [2]float64{0.001, 0.006}
)

// ContentDraft is the user input for a new upload
type ContentDraft struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Thumbnail   string             `json:"thumbnail"`
	Type        models.ContentType `json:"type"`
	Quality     models.Quality     `json:"quality"`
	FileName    string             `json:"fileName,omitempty"`
	FileSize    int64              `json:"fileSize,omitempty"`
}

// Validate checks the draft's required fields and ranges
func (d ContentDraft) Validate() error {
	switch {
	case strings.TrimSpace(d.Title) == "":
		return newValidationError("title", ErrRequiredField, "")
	case strings.TrimSpace(d.Description) == "":
		return newValidationError("description", ErrRequiredField, "")
	case strings.TrimSpace(d.Thumbnail) == "":
		return newValidationError("thumbnail", ErrRequiredField, "")
	case !d.Type.IsValid():
		return newValidationError("type", ErrInvalidContentType, "")
	case !d.Quality.IsValid():
		return newValidationError("quality", ErrInvalidQuality, "")
	}
	return nil
}

// PlaylistDraft is the user input for a new playlist
type PlaylistDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ContentIDs  []string `json:"contentIds"`
}

// Lifecycle owns uploads, the processing to live transition, playlists and posts
type Lifecycle struct {
	store     *store.Store
	gen       *generator.Generator
	rng       random.Source
	scheduler *Scheduler
	notifier  notify.Notifier
	now       func() time.Time
	delay     time.Duration

	mu        sync.Mutex
	pending   map[string]context.CancelFunc
	wg        conc.WaitGroup
	draining  bool
	suspended bool
}

// NewLifecycle creates a lifecycle manager that hands live items to scheduler
func NewLifecycle(st *store.Store, gen *generator.Generator, rng random.Source, scheduler *Scheduler, notifier notify.Notifier, cfg Config, now func() time.Time) *Lifecycle {
	return &Lifecycle{
		store:     st,
		gen:       gen,
		rng:       rng,
		scheduler: scheduler,
		notifier:  notifier,
		now:       now,
		delay:     cfg.ProcessingDelay,
		pending:   make(map[string]context.CancelFunc),
	}
}

// CreateContent validates draft, appends a processing item to the player's channel and
// schedules its live transition. The returned item is a copy in the processing state.
func (l *Lifecycle) CreateContent(ctx context.Context, draft ContentDraft) (*models.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		l.notifier.Notify("Upload Failed", err.Error(), notify.VariantDestructive)
		return nil, err
	}

	generation := l.store.Generation()
	var created models.ContentItem
	err := l.store.UpdateIf(generation, func(state *models.GameState) error {
		if !state.IsGameStarted {
			return newValidationError("game", ErrGameNotStarted, "")
		}
		created = l.newContentItem(&state.Channel, draft)
		state.Channel.ContentItems = append(state.Channel.ContentItems, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("content_id", created.ID).
		Str("type", string(created.Type)).
		Int("quality", int(created.Quality)).
		Int64("initial_views", created.InitialViews).
		Int("comment_pool", len(created.TotalComments)).
		Msg("Content created, processing")

	l.scheduleLive(created.ID, generation)

	out := created.Clone()
	return &out, nil
}

// newContentItem computes initial metrics from the player's live counters
func (l *Lifecycle) newContentItem(player *models.PlayerChannel, draft ContentDraft) models.ContentItem {
	overall := gamedata.QualityMultiplier(draft.Quality) *
		gamedata.TypeMultiplier(draft.Type) *
		gamedata.SkillMultiplier(player.SkillLevel)

	base := math.Floor(float64(player.Subscribers) * random.Uniform(l.rng, subscriberReachBand[0], subscriberReachBand[1]))
	var adBoost float64
	if player.HasAdvertised {
		adBoost = math.Floor(float64(player.Money)/adBoostMoneyUnit) * adBoostPerUnit
	}
	reach := max(minInitialViews, base+adBoost*random.Uniform(l.rng, adBoostBand[0], adBoostBand[1]))
	views := int64(math.Floor(reach * overall))

	likes := max(minInitialLikes, int64(math.Floor(float64(views)*random.Uniform(l.rng, initialLikesBand[0], initialLikesBand[1]))))
	dislikes := max(minInitialDislikes, int64(math.Floor(float64(views)*random.Uniform(l.rng, initialDislikeBand[0], initialDislikeBand[1]))))

	return models.ContentItem{
		ID:                uuid.New().String(),
		Title:             draft.Title,
		Description:       draft.Description,
		Thumbnail:         draft.Thumbnail,
		Type:              draft.Type,
		Quality:           draft.Quality,
		UploadDate:        l.now().UTC().Format(gamedata.DateLayout),
		State:             models.StateProcessing,
		InitialViews:      views,
		CurrentViews:      views,
		InitialLikes:      likes,
		CurrentLikes:      likes,
		InitialDislikes:   dislikes,
		CurrentDislikes:   dislikes,
		TotalComments:     l.gen.GenerateComments(int(views/commentsPerViews) + baselineComments),
		DisplayedComments: []models.Comment{},
		Analytics:         l.gen.GenerateAnalytics(views),
		FileName:          draft.FileName,
		FileSize:          draft.FileSize,
	}
}

// scheduleLive starts the processing timer for itemID unless timers are suspended or
// being drained; a skipped item stays processing until Resume
func (l *Lifecycle) scheduleLive(itemID string, generation uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.draining || l.suspended {
		logger.Log.Debug().
			Str("content_id", itemID).
			Msg("Live transition deferred while engine is stopped")
		return
	}
	if _, ok := l.pending[itemID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.pending[itemID] = cancel

	l.wg.Go(func() {
		defer l.clearPending(itemID)

		timer := time.NewTimer(l.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			logger.Log.Debug().
				Str("content_id", itemID).
				Msg("Pending live transition cancelled")
		case <-timer.C:
			l.goLive(itemID, generation)
		}
	})
}

func (l *Lifecycle) clearPending(itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cancel, ok := l.pending[itemID]; ok {
		cancel()
		delete(l.pending, itemID)
	}
}

// goLive flips a processing item to live if the document it was created in is still current
func (l *Lifecycle) goLive(itemID string, generation uint64) {
	transitioned := false
	err := l.store.UpdateIf(generation, func(state *models.GameState) error {
		item := state.Channel.FindContent(itemID)
		if item == nil || !item.State.CanTransitionTo(models.StateLive) {
			return store.ErrNoChange
		}
		item.State = models.StateLive
		state.Channel.TotalViews = state.Channel.SumLiveViews()
		transitioned = true
		return nil
	})
	if store.IsStaleGeneration(err) {
		logger.Log.Debug().
			Str("content_id", itemID).
			Uint64("generation", generation).
			Msg("Discarding live transition for replaced game state")
		return
	}
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", itemID).
			Msg("Live transition failed")
		return
	}
	if !transitioned {
		return
	}

	logger.Log.Info().
		Str("content_id", itemID).
		Msg("Content is live")
	l.scheduler.Attach(itemID)
}

// Pending returns the number of items still waiting to go live
func (l *Lifecycle) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// CancelPending aborts every scheduled live transition and waits for the timers to exit.
// Uploads accepted while it waits are not scheduled.
func (l *Lifecycle) CancelPending() {
	l.mu.Lock()
	l.draining = true
	for id, cancel := range l.pending {
		cancel()
		delete(l.pending, id)
	}
	l.mu.Unlock()

	l.wg.Wait()

	l.mu.Lock()
	l.draining = false
	l.mu.Unlock()
}

// Suspend stops scheduling live transitions until Resume. It does not cancel timers
// already running.
func (l *Lifecycle) Suspend() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suspended = true
}

// Resume re-enables scheduling and restarts the timer for every item still processing
// in the current document
func (l *Lifecycle) Resume() int {
	l.mu.Lock()
	l.suspended = false
	l.mu.Unlock()

	var ids []string
	l.store.View(func(state *models.GameState) {
		for _, item := range state.Channel.ContentItems {
			if item.State == models.StateProcessing {
				ids = append(ids, item.ID)
			}
		}
	})
	generation := l.store.Generation()
	for _, id := range ids {
		l.scheduleLive(id, generation)
	}
	return len(ids)
}

// CreatePlaylist adds a playlist over the player's live items. Unknown or non-live IDs
// are dropped; at least one ID must be supplied.
func (l *Lifecycle) CreatePlaylist(ctx context.Context, draft PlaylistDraft) (*models.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, newValidationError("title", ErrRequiredField, "")
	}
	if len(draft.ContentIDs) == 0 {
		return nil, newValidationError("contentIds", ErrEmptyPlaylist, "")
	}

	var created models.Playlist
	err := l.store.Update(func(state *models.GameState) error {
		if !state.IsGameStarted {
			return newValidationError("game", ErrGameNotStarted, "")
		}

		resolved := make([]string, 0, len(draft.ContentIDs))
		thumbnail := ""
		for _, id := range draft.ContentIDs {
			item := state.Channel.FindContent(id)
			if item == nil || !item.IsLive() {
				logger.Log.Warn().
					Str("content_id", id).
					Msg("Dropping unknown content from playlist")
				continue
			}
			if thumbnail == "" {
				thumbnail = item.Thumbnail
			}
			resolved = append(resolved, id)
		}
		if thumbnail == "" {
			thumbnail = gamedata.PlaceholderThumbnail
		}

		created = models.Playlist{
			ID:          uuid.New().String(),
			Title:       draft.Title,
			Description: draft.Description,
			ContentIDs:  resolved,
			Thumbnail:   thumbnail,
		}
		state.Channel.Playlists = append(state.Channel.Playlists, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("playlist_id", created.ID).
		Int("items", len(created.ContentIDs)).
		Msg("Playlist created")

	return &created, nil
}

// CreatePost prepends a community post to the player's channel
func (l *Lifecycle) CreatePost(ctx context.Context, content string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("content", ErrRequiredField, "")
	}

	var created models.Post
	err := l.store.Update(func(state *models.GameState) error {
		if !state.IsGameStarted {
			return newValidationError("game", ErrGameNotStarted, "")
		}
		created = models.Post{
			ID:        uuid.New().String(),
			Content:   content,
			Timestamp: l.now().UTC().Format(time.RFC3339),
			Likes:     int64(l.rng.IntN(postLikesSpan) + postLikesBase),
			Comments:  int64(l.rng.IntN(postCommentsSpan) + postCommentsBase),
		}
		state.Channel.Posts = append([]models.Post{created}, state.Channel.Posts...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("post_id", created.ID).
		Msg("Post created")

	return &created, nil
}
