package engine

import (
	"testing"
	"time"

	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func init() {
	logger.Init("error", false)
}

// quietConfig keeps every recurring timer out of the way unless a test shortens it
func quietConfig() Config {
	return Config{
		GrowthInterval:   time.Hour,
		CommentRevealMin: time.Hour,
		CommentRevealMax: time.Hour,
		ProcessingDelay:  10 * time.Millisecond,
		DailyInterval:    time.Hour,
	}
}

// playerState returns a started game with only the player's channel
func playerState(subscribers int64) *models.GameState {
	return &models.GameState{
		Channel:       gamedata.NewPlayerChannel("MC Test", subscribers),
		OtherChannels: []models.OtherChannel{},
		IsGameStarted: true,
	}
}

func newTestGame(t *testing.T, state *models.GameState, src random.Source, cfg Config) (*Game, *notify.Feed) {
	t.Helper()
	feed := notify.NewFeed(100)
	g := NewGame(store.New(state), cfg,
		WithRandom(src),
		WithClock(func() time.Time { return testNow }),
		WithNotifier(feed),
	)
	t.Cleanup(func() {
		g.Stop()
		g.Daily.Stop()
		g.teardown()
	})
	return g, feed
}

func liveItem(id string, views, likes, dislikes int64, comments int, gen *generator.Generator) models.ContentItem {
	return models.ContentItem{
		ID:                id,
		Title:             "Item " + id,
		Description:       "desc",
		Thumbnail:         "/thumb/" + id + ".png",
		Type:              models.ContentTypeStandard,
		Quality:           3,
		UploadDate:        "2026-10-18",
		State:             models.StateLive,
		InitialViews:      views,
		CurrentViews:      views,
		InitialLikes:      likes,
		CurrentLikes:      likes,
		InitialDislikes:   dislikes,
		CurrentDislikes:   dislikes,
		TotalComments:     gen.GenerateComments(comments),
		DisplayedComments: []models.Comment{},
		Analytics:         gen.GenerateAnalytics(views),
	}
}

func titles(feed *notify.Feed) []string {
	var out []string
	for _, n := range feed.Recent() {
		out = append(out, n.Title)
	}
	return out
}

func assertDisplayedPrefix(t *testing.T, item models.ContentItem) {
	t.Helper()
	if len(item.DisplayedComments) > len(item.TotalComments) {
		t.Fatalf("displayed %d > total %d", len(item.DisplayedComments), len(item.TotalComments))
	}
	for i, c := range item.DisplayedComments {
		if c.ID != item.TotalComments[i].ID {
			t.Fatalf("displayed comment %d is %s, want %s", i, c.ID, item.TotalComments[i].ID)
		}
	}
}
