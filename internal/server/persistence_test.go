package server

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/config"
	"github.com/stwalsh4118/punsta/internal/engine"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/persistence"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/store"
)

// migrationsPath resolves the repository migrations directory regardless of working directory
func migrationsPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return "file://" + filepath.Join(root, "migrations")
}

type session struct {
	game      *engine.Game
	persister *persistence.Persister
	feed      *notify.Feed
	loadErr   error
}

// openSession wires a game to a persister the same way the server binary does
func openSession(t *testing.T, storage *Storage) *session {
	t.Helper()
	src := random.New(21)
	feed := notify.NewFeed(20)
	persister := persistence.NewPersister(
		persistence.NewGuardedStore(storage.Snapshots, 3, time.Minute),
		"punstaSimState", time.Hour, feed)

	state, err := persister.Load(context.Background(), gamedata.DefaultState(generator.New(src)))

	st := store.New(state)
	st.OnCommit(persister.ScheduleSave)
	game := engine.NewGame(st, engine.Config{
		GrowthInterval:   time.Hour,
		CommentRevealMin: time.Hour,
		CommentRevealMax: time.Hour,
		ProcessingDelay:  time.Hour,
		DailyInterval:    time.Hour,
	}, engine.WithRandom(src), engine.WithNotifier(feed), engine.WithSnapshotClearer(persister))

	t.Cleanup(func() {
		game.Lifecycle.CancelPending()
		game.Scheduler.DetachAll()
	})
	return &session{game: game, persister: persister, feed: feed, loadErr: err}
}

func TestSaveAndRestoreAcrossSessions(t *testing.T) {
	cfg := testConfig(t, config.StorageDriverSQLite)
	cfg.Database.MigrationsPath = migrationsPath(t)
	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	ctx := context.Background()

	first := openSession(t, storage)
	require.NoError(t, first.loadErr)
	assert.False(t, first.game.State().IsGameStarted)

	_, err = first.game.StartNewGame(ctx, "MC Test", nil)
	require.NoError(t, err)
	_, err = first.game.CreatePost(ctx, "First bars")
	require.NoError(t, err)
	_, err = first.game.RunAdCampaign(ctx, 500)
	require.NoError(t, err)
	_, err = first.game.CreateContent(ctx, engine.ContentDraft{
		Title:       "Processing Forever",
		Description: "still uploading",
		Thumbnail:   "/thumbs/p.png",
		Type:        models.ContentTypeStandard,
		Quality:     2,
	})
	require.NoError(t, err)
	require.NoError(t, first.persister.Close(ctx))

	second := openSession(t, storage)
	require.NoError(t, second.loadErr)

	restored := second.game.State()
	assert.True(t, restored.IsGameStarted)
	assert.Equal(t, "MC Test", restored.Channel.Name)
	assert.Equal(t, gamedata.StartingMoney-500, restored.Channel.Money)
	assert.True(t, restored.Channel.HasAdvertised)
	require.Len(t, restored.Channel.Posts, 1)
	require.Len(t, restored.Channel.ContentItems, 1)
	assert.Equal(t, models.StateLive, restored.Channel.ContentItems[0].State, "items are live after a reload")
	assert.NotEmpty(t, restored.OtherChannels)

	var titles []string
	for _, n := range second.feed.Recent() {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Game Loaded!")
}

func TestStartNewGameClearsSavedGame(t *testing.T) {
	cfg := testConfig(t, config.StorageDriverSQLite)
	cfg.Database.MigrationsPath = migrationsPath(t)
	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	ctx := context.Background()

	first := openSession(t, storage)
	_, err = first.game.StartNewGame(ctx, "Old Name", nil)
	require.NoError(t, err)
	require.NoError(t, first.persister.Flush(ctx))

	_, err = storage.Snapshots.Get(ctx, "punstaSimState")
	require.NoError(t, err)

	_, err = first.game.StartNewGame(ctx, "New Name", nil)
	require.NoError(t, err)
	require.NoError(t, first.persister.Flush(ctx))

	second := openSession(t, storage)
	assert.Equal(t, "New Name", second.game.State().Channel.Name)
}
