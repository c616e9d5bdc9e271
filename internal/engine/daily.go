package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

const (
	rivalSubscriberGrowthSpan = 1000
	rivalViewGrowthSpan       = 50_000
)

// DailyReport describes what a single daily tick changed
type DailyReport struct {
	Date             string
	SnapshotAppended bool
	Milestones       []models.MilestoneDefinition
	RivalsGrown      int
}

// Daily runs the periodic day-boundary check: history snapshot, milestones and
// background growth of rival channels
type Daily struct {
	store    *store.Store
	rng      random.Source
	notifier notify.Notifier
	now      func() time.Time
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// NewDaily creates a daily progression engine
func NewDaily(st *store.Store, rng random.Source, notifier notify.Notifier, cfg Config, now func() time.Time) *Daily {
	return &Daily{
		store:    st,
		rng:      rng,
		notifier: notifier,
		now:      now,
		interval: cfg.DailyInterval,
	}
}

// Tick runs one daily step at now. It does nothing until a game is started.
//
// Only the history snapshot is guarded by date; milestone evaluation and rival growth
// run on every tick.
func (d *Daily) Tick(now time.Time) (DailyReport, error) {
	report := DailyReport{Date: now.UTC().Format(gamedata.DateLayout)}

	err := d.store.Update(func(state *models.GameState) error {
		if !state.IsGameStarted {
			return store.ErrNoChange
		}
		player := &state.Channel

		if last := player.LastSnapshot(); last == nil || last.Date != report.Date {
			player.AnalyticsHistory = append(player.AnalyticsHistory, models.AnalyticsSnapshot{
				Date:        report.Date,
				Views:       player.TotalViews,
				Subscribers: player.Subscribers,
				Likes:       player.SumLiveLikes(),
			})
			report.SnapshotAppended = true
		}

		for _, milestone := range gamedata.Milestones {
			if player.HasMilestone(milestone.ID) || !milestoneReached(player, milestone) {
				continue
			}
			player.MilestoneIDs = append(player.MilestoneIDs, milestone.ID)
			report.Milestones = append(report.Milestones, milestone)
		}

		for i := range state.OtherChannels {
			rival := &state.OtherChannels[i]
			if rival.Pinned {
				continue
			}
			rival.Subscribers += int64(d.rng.IntN(rivalSubscriberGrowthSpan))
			rival.TotalViews += int64(d.rng.IntN(rivalViewGrowthSpan))
			report.RivalsGrown++
		}
		return nil
	})
	if err != nil {
		return DailyReport{}, err
	}

	for _, milestone := range report.Milestones {
		logger.Log.Info().
			Str("milestone_id", milestone.ID).
			Int64("threshold", milestone.Threshold).
			Msg("Milestone achieved")
		d.notifier.Notify("Milestone Achieved!", milestone.Message, notify.VariantDefault)
	}
	if report.SnapshotAppended {
		logger.Log.Info().
			Str("date", report.Date).
			Msg("Daily analytics snapshot recorded")
	}

	return report, nil
}

func milestoneReached(player *models.PlayerChannel, milestone models.MilestoneDefinition) bool {
	switch milestone.Metric {
	case models.MetricSubscribers:
		return player.Subscribers >= milestone.Threshold
	case models.MetricTotalViews:
		return player.TotalViews >= milestone.Threshold
	default:
		return false
	}
}

// Start runs a tick immediately and then every interval until Stop
func (d *Daily) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.wg.Go(func() { d.run(ctx) })

	logger.Log.Info().
		Dur("interval", d.interval).
		Msg("Daily progression started")
}

func (d *Daily) run(ctx context.Context) {
	d.tickLogged()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tickLogged()
		}
	}
}

func (d *Daily) tickLogged() {
	if _, err := d.Tick(d.now()); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Daily tick failed")
	}
}

// Stop halts the recurring tick and waits for it to exit
func (d *Daily) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	d.wg.Wait()

	logger.Log.Info().Msg("Daily progression stopped")
}
