package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
)

const testKey = "punstaSimState"

func init() {
	logger.Init("error", false)
}

// countingStore wraps a MemoryStore and can be told to fail
type countingStore struct {
	*MemoryStore
	mu     sync.Mutex
	puts   int
	putErr error
	getErr error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *countingStore) Put(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	s.puts++
	err := s.putErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Put(ctx, key, payload)
}

func (s *countingStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func defaults() *models.GameState {
	return &models.GameState{
		Channel:       gamedata.NewPlayerChannel("Default Punster", 0),
		OtherChannels: seedChannels(),
	}
}

func started(name string, money int64) *models.GameState {
	state := &models.GameState{
		Channel:       gamedata.NewPlayerChannel(name, 0),
		OtherChannels: []models.OtherChannel{},
		IsGameStarted: true,
	}
	state.Channel.Money = money
	return state
}

func TestLoad_MissingSnapshotReturnsDefaults(t *testing.T) {
	feed := notify.NewFeed(10)
	p := NewPersister(NewMemoryStore(), testKey, time.Millisecond, feed)
	def := defaults()

	state, err := p.Load(context.Background(), def)

	require.NoError(t, err)
	assert.Same(t, def, state)
	assert.False(t, state.IsGameStarted)
	assert.Empty(t, feed.Recent())
}

func TestLoad_CorruptSnapshotFallsBack(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), testKey, []byte("{not json")))
	feed := notify.NewFeed(10)
	p := NewPersister(store, testKey, time.Millisecond, feed)
	def := defaults()

	state, err := p.Load(context.Background(), def)

	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.True(t, IsCorruptSnapshot(err))
	assert.Same(t, def, state)
	require.Len(t, feed.Recent(), 1)
	assert.Equal(t, "Load Error", feed.Recent()[0].Title)
	assert.Equal(t, notify.VariantDestructive, feed.Recent()[0].Variant)
}

func TestLoad_BackendFailureFallsBack(t *testing.T) {
	store := newCountingStore()
	store.getErr = errors.New("connection refused")
	p := NewPersister(store, testKey, time.Millisecond, nil)

	state, err := p.Load(context.Background(), defaults())

	assert.True(t, IsStorage(err))
	assert.False(t, state.IsGameStarted)
}

func TestSaveThenLoad(t *testing.T) {
	store := NewMemoryStore()
	feed := notify.NewFeed(10)
	p := NewPersister(store, testKey, time.Millisecond, feed)

	p.ScheduleSave(started("MC Test", 1234))
	require.NoError(t, p.Flush(context.Background()))

	state, err := p.Load(context.Background(), defaults())
	require.NoError(t, err)
	assert.True(t, state.IsGameStarted)
	assert.Equal(t, "MC Test", state.Channel.Name)
	assert.Equal(t, int64(1234), state.Channel.Money)
	assert.Len(t, state.OtherChannels, 2)
	assert.Equal(t, "Game Loaded!", feed.Recent()[0].Title)
}

func TestScheduleSave_Debounces(t *testing.T) {
	store := newCountingStore()
	p := NewPersister(store, testKey, 30*time.Millisecond, nil)

	for i := range 10 {
		p.ScheduleSave(started("MC Test", int64(i)))
	}

	require.Eventually(t, func() bool { return store.putCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.putCount())

	state, err := p.Load(context.Background(), defaults())
	require.NoError(t, err)
	assert.Equal(t, int64(9), state.Channel.Money)
}

func TestSaveFailureNotifies(t *testing.T) {
	store := newCountingStore()
	store.putErr = errors.New("quota exceeded")
	feed := notify.NewFeed(10)
	p := NewPersister(store, testKey, time.Millisecond, feed)

	p.ScheduleSave(started("MC Test", 1))
	err := p.Flush(context.Background())

	assert.True(t, IsStorage(err))
	require.NotEmpty(t, feed.Recent())
	assert.Equal(t, "Save Error", feed.Recent()[0].Title)
}

func TestClear_DropsPendingAndDeletes(t *testing.T) {
	store := newCountingStore()
	p := NewPersister(store, testKey, 20*time.Millisecond, nil)
	require.NoError(t, store.MemoryStore.Put(context.Background(), testKey, []byte(`{}`)))

	p.ScheduleSave(started("MC Test", 1))
	require.NoError(t, p.Clear(context.Background()))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.putCount())
	_, err := store.Get(context.Background(), testKey)
	assert.True(t, IsSnapshotNotFound(err))
}

func TestClose_FlushesAndRejectsLaterSaves(t *testing.T) {
	store := newCountingStore()
	p := NewPersister(store, testKey, time.Hour, nil)

	p.ScheduleSave(started("MC Test", 1))
	require.NoError(t, p.Close(context.Background()))
	assert.Equal(t, 1, store.putCount())

	p.ScheduleSave(started("MC Test", 2))
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, 1, store.putCount())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "k")
	assert.True(t, IsSnapshotNotFound(err))

	payload := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", payload))
	payload[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.True(t, IsSnapshotNotFound(err))
}
