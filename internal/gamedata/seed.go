package gamedata

import (
	"strings"
	"time"

	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/models"
)

// DateLayout is the calendar-day format used for upload dates and history entries
const DateLayout = "2006-01-02"

// PlayerChannelID is the fixed ID of the player's channel
const PlayerChannelID = "my-rapper-profile"

const (
	defaultPlayerName = "Default Punster"
	defaultPlayerBio  = "Welcome to the official Punster Profile of the hottest new rap artist! " +
		"Here you'll find the sickest beats, rawest lyrics, and freshest puns. " +
		"Subscribe for new music every week and join the Punsta Fam!"
)

// HandleFor derives a channel handle from its display name
func HandleFor(name string) string {
	return "@" + strings.Join(strings.Fields(name), "") + "Official"
}

// NewPlayerChannel returns a fresh player channel with the starting balance
func NewPlayerChannel(name string, subscribers int64) models.PlayerChannel {
	return models.PlayerChannel{
		Channel: models.Channel{
			ID:           PlayerChannelID,
			Name:         name,
			Handle:       HandleFor(name),
			Avatar:       "/placeholder.svg?height=100&width=100",
			Banner:       "/placeholder.svg?height=200&width=1200",
			Bio:          defaultPlayerBio,
			IsVerified:   true,
			Subscribers:  subscribers,
			ContentItems: []models.ContentItem{},
			Playlists:    []models.Playlist{},
			Posts:        []models.Post{},
		},
		Money:            StartingMoney,
		SkillLevel:       BaseSkillLevel,
		MilestoneIDs:     []string{},
		AnalyticsHistory: []models.AnalyticsSnapshot{},
		HomepageLayout:   append([]string(nil), DefaultHomepageLayout...),
	}
}

// NewGameState returns a started game for name, with a zeroed history entry for today
func NewGameState(name string, subscribers int64, now time.Time, gen *generator.Generator) *models.GameState {
	channel := NewPlayerChannel(name, subscribers)
	channel.AnalyticsHistory = append(channel.AnalyticsHistory, models.AnalyticsSnapshot{
		Date: now.UTC().Format(DateLayout),
	})
	return &models.GameState{
		Channel:       channel,
		OtherChannels: SeedOtherChannels(gen),
		IsGameStarted: true,
	}
}

// DefaultState is the not-yet-started document used before setup and after a failed load
func DefaultState(gen *generator.Generator) *models.GameState {
	return &models.GameState{
		Channel:       NewPlayerChannel(defaultPlayerName, 0),
		OtherChannels: SeedOtherChannels(gen),
		IsGameStarted: false,
	}
}

// seedVideo describes a rival's pre-existing upload
type seedVideo struct {
	id, title, description, uploadDate, fileName string
	views, likes, dislikes                       int64
	comments, displayed                          int
	quality                                      models.Quality
	fileSize                                     int64
}

func (s seedVideo) build(gen *generator.Generator) models.ContentItem {
	pool := gen.GenerateComments(s.comments)
	displayed := make([]models.Comment, min(s.displayed, len(pool)))
	copy(displayed, pool)
	return models.ContentItem{
		ID:                s.id,
		Title:             s.title,
		Description:       s.description,
		Thumbnail:         PlaceholderThumbnail,
		Type:              models.ContentTypeStandard,
		Quality:           s.quality,
		UploadDate:        s.uploadDate,
		State:             models.StateLive,
		InitialViews:      s.views,
		CurrentViews:      s.views,
		InitialLikes:      s.likes,
		CurrentLikes:      s.likes,
		InitialDislikes:   s.dislikes,
		CurrentDislikes:   s.dislikes,
		TotalComments:     pool,
		DisplayedComments: displayed,
		Analytics:         gen.GenerateAnalytics(s.views),
		FileName:          s.fileName,
		FileSize:          s.fileSize,
	}
}

// SeedOtherChannels returns the rival channels every new game starts with
func SeedOtherChannels(gen *generator.Generator) []models.OtherChannel {
	cory := models.OtherChannel{
		Channel: models.Channel{
			ID:          "coryxkenshin",
			Name:        "CoryxKenshin",
			Handle:      "@CoryxKenshin",
			Avatar:      "/images/coryxkenshin_avatar.jpg",
			Banner:      "/images/coryxkenshin_banner.png",
			Bio:         "The Shogun himself. Known for his intense gameplay, horror game reactions, and samurai-like wisdom. The ultimate content creator.",
			IsVerified:  true,
			Subscribers: 22_600_000,
			TotalViews:  1_500_000_000,
			ContentItems: []models.ContentItem{
				seedVideo{
					id:          "cory-sps-video",
					title:       "SPS 9",
					description: "My last SPS video...",
					uploadDate:  "2019-10-08",
					views:       100_000_000,
					likes:       5_000_000,
					dislikes:    50_000,
					comments:    5_000,
					displayed:   50,
					quality:     5,
					fileName:    "SPS9.mp4",
					fileSize:    500 * 1024 * 1024,
				}.build(gen),
			},
			Playlists: []models.Playlist{},
			Posts: []models.Post{{
				ID:        "cory-post-1",
				Content:   "Thank you all for the incredible support over the years. Shogun out.",
				Timestamp: "2019-10-08T12:00:00Z",
				Likes:     1_000_000,
				Comments:  50_000,
			}},
		},
		Pinned: true,
	}

	lyricLab := models.OtherChannel{
		Channel: models.Channel{
			ID:          "lyric-lab",
			Name:        "Lyric Lab",
			Handle:      "@LyricLabOfficial",
			Avatar:      "/placeholder.svg?height=100&width=100",
			Banner:      "/placeholder.svg?height=200&width=1200",
			Bio:         "Breaking down the wordplay behind your favorite verses.",
			Subscribers: 480_000,
			TotalViews:  61_000_000,
			ContentItems: []models.ContentItem{
				seedVideo{
					id:          "lyric-lab-breakdown",
					title:       "Every Double Entendre Explained",
					description: "We counted them all so you don't have to.",
					uploadDate:  "2024-03-14",
					views:       2_400_000,
					likes:       180_000,
					dislikes:    3_100,
					comments:    400,
					displayed:   20,
					quality:     4,
				}.build(gen),
			},
			Playlists: []models.Playlist{},
			Posts:     []models.Post{},
		},
	}

	beatBarn := models.OtherChannel{
		Channel: models.Channel{
			ID:          "beat-barn",
			Name:        "Beat Barn",
			Handle:      "@BeatBarnOfficial",
			Avatar:      "/placeholder.svg?height=100&width=100",
			Banner:      "/placeholder.svg?height=200&width=1200",
			Bio:         "Free beats every Friday. Producers welcome.",
			Subscribers: 95_000,
			TotalViews:  8_700_000,
			ContentItems: []models.ContentItem{
				seedVideo{
					id:          "beat-barn-friday",
					title:       "Friday Beat Drop #112",
					description: "Lo-fi boom bap, free for non-profit use.",
					uploadDate:  "2025-01-10",
					views:       310_000,
					likes:       21_000,
					dislikes:    400,
					comments:    120,
					displayed:   10,
					quality:     3,
				}.build(gen),
			},
			Playlists: []models.Playlist{},
			Posts:     []models.Post{},
		},
	}

	return []models.OtherChannel{cory, lyricLab, beatBarn}
}
