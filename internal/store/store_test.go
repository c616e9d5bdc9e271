package store

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/models"
)

func newState() *models.GameState {
	return &models.GameState{
		Channel: models.PlayerChannel{
			Channel: models.Channel{ID: "player", Subscribers: 10},
			Money:   100,
		},
		IsGameStarted: true,
	}
}

func TestUpdate_Commits(t *testing.T) {
	s := New(newState())

	err := s.Update(func(state *models.GameState) error {
		state.Channel.Money -= 40
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(60), s.Snapshot().Channel.Money)
}

func TestUpdate_FailureLeavesStateUntouched(t *testing.T) {
	s := New(newState())
	boom := errors.New("boom")

	err := s.Update(func(state *models.GameState) error {
		state.Channel.Money = 0
		state.Channel.Subscribers = 999
		return boom
	})

	assert.ErrorIs(t, err, boom)
	snap := s.Snapshot()
	assert.Equal(t, int64(100), snap.Channel.Money)
	assert.Equal(t, int64(10), snap.Channel.Subscribers)
}

func TestUpdate_NoChangeSkipsCommit(t *testing.T) {
	s := New(newState())
	commits := 0
	s.OnCommit(func(*models.GameState) { commits++ })

	err := s.Update(func(state *models.GameState) error {
		state.Channel.Money = 1
		return ErrNoChange
	})

	require.NoError(t, err)
	assert.Equal(t, 0, commits)
	assert.Equal(t, int64(100), s.Snapshot().Channel.Money)
}

func TestUpdateIf_RejectsStaleGeneration(t *testing.T) {
	s := New(newState())
	gen := s.Generation()

	s.Replace(newState())

	err := s.UpdateIf(gen, func(state *models.GameState) error {
		state.Channel.Money = 0
		return nil
	})
	assert.True(t, IsStaleGeneration(err))
	assert.Equal(t, int64(100), s.Snapshot().Channel.Money)

	err = s.UpdateIf(s.Generation(), func(state *models.GameState) error {
		state.Channel.Money = 0
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Snapshot().Channel.Money)
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := New(newState())

	snap := s.Snapshot()
	snap.Channel.Money = 5
	snap.Channel.Posts = append(snap.Channel.Posts, models.Post{ID: "p"})

	fresh := s.Snapshot()
	assert.Equal(t, int64(100), fresh.Channel.Money)
	assert.Empty(t, fresh.Channel.Posts)
}

func TestOnCommit_SeesCommittedDocument(t *testing.T) {
	s := New(newState())
	var seen []int64
	s.OnCommit(func(state *models.GameState) { seen = append(seen, state.Channel.Money) })

	require.NoError(t, s.Update(func(state *models.GameState) error {
		state.Channel.Money = 7
		return nil
	}))
	s.Replace(&models.GameState{})

	assert.Equal(t, []int64{7, 0}, seen)
}

func TestUpdate_ConcurrentIncrements(t *testing.T) {
	s := New(newState())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(func(state *models.GameState) error {
				state.Channel.Subscribers++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(60), s.Snapshot().Channel.Subscribers)
}

func TestOnCommit_DeliversInCommitOrder(t *testing.T) {
	s := New(newState())
	var seen []int64
	s.OnCommit(func(state *models.GameState) {
		runtime.Gosched()
		seen = append(seen, state.Channel.Subscribers)
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(func(state *models.GameState) error {
				state.Channel.Subscribers++
				return nil
			})
		}()
	}
	wg.Wait()

	require.Len(t, seen, 50)
	for i, subs := range seen {
		assert.Equal(t, int64(11+i), subs, "hook %d saw an out-of-order document", i)
	}
}
