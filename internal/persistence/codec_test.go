package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/models"
)

func seedChannels() []models.OtherChannel {
	return []models.OtherChannel{
		{Channel: models.Channel{ID: "pinned", Name: "Seed Pinned", Subscribers: 10}, Pinned: true},
		{Channel: models.Channel{ID: "rival", Name: "Seed Rival", Subscribers: 20}},
	}
}

const legacySave = `{
  "channel": {
    "id": "my-rapper-profile",
    "name": "Old Timer",
    "handle": "@OldTimerOfficial",
    "subscribers": 1200,
    "totalViews": 5000,
    "money": 19000000,
    "hasAdvertised": true,
    "punEditingSkill": 3,
    "milestones": ["subs-100", "subs-1k"],
    "videos": [
      {
        "id": "v1",
        "title": "First",
        "type": "video",
        "quality": 4,
        "initialViews": 5000,
        "currentViews": 4000,
        "initialLikes": 300,
        "currentLikes": 350,
        "initialDislikes": 10,
        "currentDislikes": 12,
        "isProcessing": true,
        "viewIntervalId": 17,
        "videoFileName": "first.mp4",
        "videoFileSize": 2048,
        "totalComments": [{"id": "c1", "user": "u", "text": "t", "timeAgo": "just now"}],
        "displayedComments": [{"id": "c1", "user": "u", "text": "t", "timeAgo": "just now"}],
        "analytics": {"countryStats": {"USA": 5000}, "cityStats": {"New York": 5000}, "engagement": {"likesToViewsRatio": 6}}
      }
    ],
    "playlists": [{"id": "pl1", "title": "Hits", "videoIds": ["v1"], "thumbnail": "/t.png"}]
  },
  "otherChannels": [
    {"id": "rival", "name": "Saved Rival", "subscribers": 999, "videos": []},
    {"id": "pinned", "name": "Saved Pinned", "subscribers": 1}
  ]
}`

func TestDecode_LegacySave(t *testing.T) {
	state, err := Decode([]byte(legacySave), seedChannels())
	require.NoError(t, err)

	assert.True(t, state.IsGameStarted)
	ch := state.Channel
	assert.Equal(t, "Old Timer", ch.Name)
	assert.Equal(t, int64(19_000_000), ch.Money)
	assert.Equal(t, 3, ch.SkillLevel)
	assert.Equal(t, []string{"subs-100", "subs-1k"}, ch.MilestoneIDs)
	assert.Equal(t, gamedata.DefaultHomepageLayout, ch.HomepageLayout)
	assert.Empty(t, ch.Posts)
	assert.NotNil(t, ch.Posts)
	assert.NotNil(t, ch.AnalyticsHistory)

	require.Len(t, ch.ContentItems, 1)
	item := ch.ContentItems[0]
	assert.Equal(t, models.ContentTypeStandard, item.Type)
	assert.Equal(t, models.StateLive, item.State)
	assert.Equal(t, "first.mp4", item.FileName)
	assert.Equal(t, int64(2048), item.FileSize)
	assert.Len(t, item.TotalComments, 1)
	assert.Empty(t, item.DisplayedComments)
	assert.Equal(t, int64(5000), item.CurrentViews, "current is raised to the initial floor")
	assert.Equal(t, int64(350), item.CurrentLikes)

	require.Len(t, ch.Playlists, 1)
	assert.Equal(t, []string{"v1"}, ch.Playlists[0].ContentIDs)
}

const fractionalSave = `{
  "channel": {
    "id": "my-rapper-profile",
    "name": "Drifter",
    "subscribers": 1200.7,
    "totalViews": 5000.2,
    "money": 19000000.99,
    "videos": [
      {
        "id": "v1",
        "type": "video",
        "quality": 3,
        "initialViews": 5000.5,
        "currentViews": 6000.9,
        "initialLikes": 300.4,
        "currentLikes": 350.6,
        "initialDislikes": 10.1,
        "currentDislikes": 12.8,
        "analytics": {"countryStats": {"USA": 2500.75, "Canada": 12}, "cityStats": {"Toronto": 99.99}}
      }
    ]
  }
}`

func TestDecode_LegacySaveFloorsFractionalCounters(t *testing.T) {
	state, err := Decode([]byte(fractionalSave), seedChannels())
	require.NoError(t, err)

	ch := state.Channel
	assert.Equal(t, int64(1200), ch.Subscribers)
	assert.Equal(t, int64(5000), ch.TotalViews)
	assert.Equal(t, int64(19_000_000), ch.Money)

	require.Len(t, ch.ContentItems, 1)
	item := ch.ContentItems[0]
	assert.Equal(t, int64(5000), item.InitialViews)
	assert.Equal(t, int64(6000), item.CurrentViews)
	assert.Equal(t, int64(300), item.InitialLikes)
	assert.Equal(t, int64(350), item.CurrentLikes)
	assert.Equal(t, int64(10), item.InitialDislikes)
	assert.Equal(t, int64(12), item.CurrentDislikes)
	assert.Equal(t, int64(2500), item.Analytics.CountryStats["USA"])
	assert.Equal(t, int64(12), item.Analytics.CountryStats["Canada"])
	assert.Equal(t, int64(99), item.Analytics.CityStats["Toronto"])
}

func TestDecode_MergesSeedChannels(t *testing.T) {
	state, err := Decode([]byte(legacySave), seedChannels())
	require.NoError(t, err)

	require.Len(t, state.OtherChannels, 2)
	assert.Equal(t, "pinned", state.OtherChannels[0].ID)
	assert.Equal(t, "Saved Pinned", state.OtherChannels[0].Name)
	assert.True(t, state.OtherChannels[0].Pinned)
	assert.Equal(t, "rival", state.OtherChannels[1].ID)
	assert.Equal(t, int64(999), state.OtherChannels[1].Subscribers)
	assert.False(t, state.OtherChannels[1].Pinned)
	assert.NotNil(t, state.OtherChannels[0].ContentItems)
}

func TestDecode_AppendsUnknownSavedChannels(t *testing.T) {
	payload := `{"channel": {"name": "X"}, "otherChannels": [{"id": "extra", "name": "Extra"}], "isGameStarted": false}`

	state, err := Decode([]byte(payload), seedChannels())
	require.NoError(t, err)

	assert.False(t, state.IsGameStarted)
	assert.Equal(t, gamedata.PlayerChannelID, state.Channel.ID)
	assert.Equal(t, gamedata.BaseSkillLevel, state.Channel.SkillLevel)
	ids := []string{}
	for _, ch := range state.OtherChannels {
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []string{"pinned", "rival", "extra"}, ids)
}

func TestDecode_MissingOthersUsesSeeds(t *testing.T) {
	seeds := seedChannels()

	state, err := Decode([]byte(`{"channel": {"name": "X"}}`), seeds)
	require.NoError(t, err)

	require.Len(t, state.OtherChannels, 2)
	state.OtherChannels[0].Name = "changed"
	assert.Equal(t, "Seed Pinned", seeds[0].Name)
}

func TestDecode_CurrentKeysWin(t *testing.T) {
	payload := `{"channel": {"skillLevel": 4, "punEditingSkill": 2, "milestoneIds": ["a"], "milestones": ["b"]}}`

	state, err := Decode([]byte(payload), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, state.Channel.SkillLevel)
	assert.Equal(t, []string{"a"}, state.Channel.MilestoneIDs)
}

func TestDecode_Corrupt(t *testing.T) {
	for _, payload := range []string{"", "{", "null", `{"channel": {"money": "lots"}}`} {
		_, err := Decode([]byte(payload), nil)
		assert.True(t, IsCorruptSnapshot(err), "payload %q", payload)
	}
}

func TestEncodeDecode_RoundTripResetsRuntimeFields(t *testing.T) {
	state := &models.GameState{
		Channel:       gamedata.NewPlayerChannel("MC Test", 10),
		OtherChannels: []models.OtherChannel{},
		IsGameStarted: true,
	}
	state.Channel.ContentItems = []models.ContentItem{{
		ID:                "a",
		Type:              models.ContentTypeRelease,
		Quality:           2,
		State:             models.StateProcessing,
		InitialViews:      100,
		CurrentViews:      150,
		TotalComments:     []models.Comment{{ID: "c1"}, {ID: "c2"}},
		DisplayedComments: []models.Comment{{ID: "c1"}},
	}}

	payload, err := Encode(state)
	require.NoError(t, err)
	got, err := Decode(payload, nil)
	require.NoError(t, err)

	item := got.Channel.ContentItems[0]
	assert.Equal(t, models.StateLive, item.State)
	assert.Empty(t, item.DisplayedComments)
	assert.Len(t, item.TotalComments, 2)
	assert.Equal(t, int64(150), item.CurrentViews)
	assert.Equal(t, models.ContentTypeRelease, item.Type)
	assert.Equal(t, "@MCTestOfficial", got.Channel.Handle)
	assert.Equal(t, int64(20_000_000), got.Channel.Money)
}
