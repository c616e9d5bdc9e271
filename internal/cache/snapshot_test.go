package cache

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/persistence"
)

func init() {
	logger.Init("error", false)
}

// newTestStore connects to the Redis named by PUNSTA_TEST_REDIS_PORT on localhost
func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	port := os.Getenv("PUNSTA_TEST_REDIS_PORT")
	if port == "" {
		t.Skip("PUNSTA_TEST_REDIS_PORT not set, skipping redis tests")
	}
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	store, err := NewSnapshotStore(Config{Host: "localhost", Port: p, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSnapshotStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := "punstaTestState"
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	_, err := store.Get(ctx, key)
	require.Error(t, err)
	assert.True(t, persistence.IsSnapshotNotFound(err))

	require.NoError(t, store.Put(ctx, key, []byte(`{"v":1}`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":1}`), got)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.True(t, persistence.IsSnapshotNotFound(err))

	// Deleting a missing key is a no-op
	assert.NoError(t, store.Delete(ctx, key))
}

func TestNewSnapshotStore_Unreachable(t *testing.T) {
	_, err := NewSnapshotStore(Config{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}
