package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/models"
)

// defaultQuality is assumed for items saved before quality existed
const defaultQuality models.Quality = 3

// Keys renamed since earlier save formats, old name to current name
var (
	legacyPlayerKeys = map[string]string{
		"punEditingSkill": "skillLevel",
		"milestones":      "milestoneIds",
	}
	legacyChannelKeys = map[string]string{
		"videos": "contentItems",
	}
	legacyItemKeys = map[string]string{
		"videoFileName": "fileName",
		"videoFileSize": "fileSize",
	}
	legacyPlaylistKeys = map[string]string{
		"videoIds": "contentIds",
	}
	transientItemKeys = []string{"isProcessing", "viewIntervalId", "commentIntervalId"}
)

// Counters stored as integers; older saves may hold fractional values for them
var (
	integerPlayerKeys   = []string{"money", "skillLevel"}
	integerChannelKeys  = []string{"subscribers", "totalViews"}
	integerItemKeys     = []string{"initialViews", "currentViews", "initialLikes", "currentLikes", "initialDislikes", "currentDislikes", "fileSize", "quality"}
	integerPostKeys     = []string{"likes", "comments"}
	integerSnapshotKeys = []string{"views", "subscribers", "likes"}
)

// Encode serializes state for storage
func Encode(state *models.GameState) ([]byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode game state: %w", err)
	}
	return payload, nil
}

// Decode parses a saved document, upgrading older layouts and resetting runtime-only
// fields. seeds are merged into the rival channels by ID.
func Decode(payload []byte, seeds []models.OtherChannel) (*models.GameState, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptSnapshot)
	}

	_, hadOthers := raw["otherChannels"]
	migrateDocument(raw)

	upgraded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	var state models.GameState
	if err := json.Unmarshal(upgraded, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	normalizePlayer(&state.Channel)
	if hadOthers {
		state.OtherChannels = mergeSeeds(state.OtherChannels, seeds)
	} else {
		state.OtherChannels = cloneOthers(seeds)
	}
	for i := range state.OtherChannels {
		normalizeChannel(&state.OtherChannels[i].Channel)
	}

	return &state, nil
}

func migrateDocument(raw map[string]any) {
	if _, ok := raw["isGameStarted"]; !ok {
		raw["isGameStarted"] = true
	}

	if player, ok := raw["channel"].(map[string]any); ok {
		renameKeys(player, legacyPlayerKeys)
		floorNumbers(player, integerPlayerKeys...)
		if history, ok := player["analyticsHistory"].([]any); ok {
			for _, entry := range history {
				if snapshot, ok := entry.(map[string]any); ok {
					floorNumbers(snapshot, integerSnapshotKeys...)
				}
			}
		}
		migrateChannel(player)
	}

	if others, ok := raw["otherChannels"].([]any); ok {
		for _, other := range others {
			if channel, ok := other.(map[string]any); ok {
				migrateChannel(channel)
			}
		}
	}
}

func migrateChannel(channel map[string]any) {
	renameKeys(channel, legacyChannelKeys)
	floorNumbers(channel, integerChannelKeys...)

	if items, ok := channel["contentItems"].([]any); ok {
		for _, entry := range items {
			item, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			renameKeys(item, legacyItemKeys)
			for _, key := range transientItemKeys {
				delete(item, key)
			}
			if item["type"] == "video" {
				item["type"] = string(models.ContentTypeStandard)
			}
			floorNumbers(item, integerItemKeys...)
			if analytics, ok := item["analytics"].(map[string]any); ok {
				for _, key := range []string{"countryStats", "cityStats"} {
					if stats, ok := analytics[key].(map[string]any); ok {
						floorAll(stats)
					}
				}
				if engagement, ok := analytics["engagement"].(map[string]any); ok {
					floorNumbers(engagement, "averageViewDuration")
				}
			}
		}
	}

	if posts, ok := channel["posts"].([]any); ok {
		for _, entry := range posts {
			if post, ok := entry.(map[string]any); ok {
				floorNumbers(post, integerPostKeys...)
			}
		}
	}

	if playlists, ok := channel["playlists"].([]any); ok {
		for _, entry := range playlists {
			if playlist, ok := entry.(map[string]any); ok {
				renameKeys(playlist, legacyPlaylistKeys)
			}
		}
	}
}

// floorNumbers replaces fractional numbers under keys with their floor
func floorNumbers(m map[string]any, keys ...string) {
	for _, key := range keys {
		if n, ok := m[key].(json.Number); ok {
			m[key] = floorNumber(n)
		}
	}
}

func floorAll(m map[string]any) {
	for key, value := range m {
		if n, ok := value.(json.Number); ok {
			m[key] = floorNumber(n)
		}
	}
}

func floorNumber(n json.Number) json.Number {
	if _, err := n.Int64(); err == nil {
		return n
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return n
	}
	return json.Number(strconv.FormatInt(int64(math.Floor(f)), 10))
}

// renameKeys moves old keys to their new names unless the new key is already present
func renameKeys(m map[string]any, renames map[string]string) {
	for oldKey, newKey := range renames {
		value, ok := m[oldKey]
		if !ok {
			continue
		}
		delete(m, oldKey)
		if _, exists := m[newKey]; !exists {
			m[newKey] = value
		}
	}
}

func normalizePlayer(p *models.PlayerChannel) {
	if p.ID == "" {
		p.ID = gamedata.PlayerChannelID
	}
	normalizeChannel(&p.Channel)
	if p.SkillLevel < gamedata.BaseSkillLevel {
		p.SkillLevel = gamedata.BaseSkillLevel
	}
	if p.MilestoneIDs == nil {
		p.MilestoneIDs = []string{}
	}
	if p.AnalyticsHistory == nil {
		p.AnalyticsHistory = []models.AnalyticsSnapshot{}
	}
	if len(p.HomepageLayout) == 0 {
		p.HomepageLayout = append([]string(nil), gamedata.DefaultHomepageLayout...)
	}
}

// normalizeChannel backfills collections and resets every item to live with no
// revealed comments; reveal restarts when growth is re-attached
func normalizeChannel(c *models.Channel) {
	if c.ContentItems == nil {
		c.ContentItems = []models.ContentItem{}
	}
	if c.Playlists == nil {
		c.Playlists = []models.Playlist{}
	}
	if c.Posts == nil {
		c.Posts = []models.Post{}
	}
	for i := range c.Playlists {
		if c.Playlists[i].ContentIDs == nil {
			c.Playlists[i].ContentIDs = []string{}
		}
	}

	for i := range c.ContentItems {
		item := &c.ContentItems[i]
		item.State = models.StateLive
		item.DisplayedComments = []models.Comment{}
		if item.TotalComments == nil {
			item.TotalComments = []models.Comment{}
		}
		if !item.Type.IsValid() {
			item.Type = models.ContentTypeStandard
		}
		if !item.Quality.IsValid() {
			item.Quality = defaultQuality
		}
		item.CurrentViews = max(item.CurrentViews, item.InitialViews)
		item.CurrentLikes = max(item.CurrentLikes, item.InitialLikes)
		item.CurrentDislikes = max(item.CurrentDislikes, item.InitialDislikes)
		if item.Analytics.CountryStats == nil {
			item.Analytics.CountryStats = map[string]int64{}
		}
		if item.Analytics.CityStats == nil {
			item.Analytics.CityStats = map[string]int64{}
		}
	}
}

// mergeSeeds keeps seed order, lets saved channels replace seeds with the same ID and
// appends saved channels unknown to the seeds. Pinning always follows the seed.
func mergeSeeds(saved, seeds []models.OtherChannel) []models.OtherChannel {
	savedByID := make(map[string]models.OtherChannel, len(saved))
	for _, ch := range saved {
		savedByID[ch.ID] = ch
	}

	merged := make([]models.OtherChannel, 0, len(seeds)+len(saved))
	used := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		used[seed.ID] = true
		ch, ok := savedByID[seed.ID]
		if !ok {
			merged = append(merged, seed.Clone())
			continue
		}
		ch.Pinned = seed.Pinned
		merged = append(merged, ch)
	}
	for _, ch := range saved {
		if used[ch.ID] {
			continue
		}
		used[ch.ID] = true
		merged = append(merged, ch)
	}
	return merged
}

func cloneOthers(channels []models.OtherChannel) []models.OtherChannel {
	out := make([]models.OtherChannel, len(channels))
	for i, ch := range channels {
		out[i] = ch.Clone()
	}
	return out
}
