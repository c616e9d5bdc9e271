// Package api exposes the simulation engine over a JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/punsta/internal/engine"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/notify"
)

const requestTimeout = 5 * time.Second

// Request/Response DTOs

// NewGameRequest represents a request to start a new game
type NewGameRequest struct {
	Name                string `json:"name" binding:"required"`
	StartingSubscribers *int64 `json:"startingSubscribers,omitempty"`
}

// CreatePostRequest represents a request to publish a community post
type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// AdCampaignRequest represents a request to run the ad campaign
type AdCampaignRequest struct {
	Budget int64 `json:"budget"`
}

// ContentListResponse represents the player's live content
type ContentListResponse struct {
	Items []models.ContentItem `json:"items"`
}

// NotificationListResponse represents the recent notifications
type NotificationListResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}

// GameHandler handles game-related API requests
type GameHandler struct {
	game *engine.Game
	feed *notify.Feed
}

// NewGameHandler creates a new game handler instance
func NewGameHandler(game *engine.Game, feed *notify.Feed) *GameHandler {
	return &GameHandler{game: game, feed: feed}
}

// GetState handles GET /api/game
func (h *GameHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.game.State())
}

// NewGame handles POST /api/game
func (h *GameHandler) NewGame(c *gin.Context) {
	var req NewGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	state, err := h.game.StartNewGame(ctx, req.Name, req.StartingSubscribers)
	if err != nil {
		writeEngineError(c, err, "new_game")
		return
	}

	c.JSON(http.StatusCreated, state)
}

// ListContent handles GET /api/content
func (h *GameHandler) ListContent(c *gin.Context) {
	items := h.game.LiveContent()
	if items == nil {
		items = []models.ContentItem{}
	}
	c.JSON(http.StatusOK, ContentListResponse{Items: items})
}

// CreateContent handles POST /api/content
func (h *GameHandler) CreateContent(c *gin.Context) {
	var draft engine.ContentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	item, err := h.game.CreateContent(ctx, draft)
	if err != nil {
		writeEngineError(c, err, "create_content")
		return
	}

	logger.Log.Info().
		Str("content_id", item.ID).
		Str("title", item.Title).
		Msg("Content uploaded via API")

	c.JSON(http.StatusAccepted, item)
}

// CreatePlaylist handles POST /api/playlists
func (h *GameHandler) CreatePlaylist(c *gin.Context) {
	var draft engine.PlaylistDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	playlist, err := h.game.CreatePlaylist(ctx, draft)
	if err != nil {
		writeEngineError(c, err, "create_playlist")
		return
	}

	c.JSON(http.StatusCreated, playlist)
}

// CreatePost handles POST /api/posts
func (h *GameHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	post, err := h.game.CreatePost(ctx, req.Content)
	if err != nil {
		writeEngineError(c, err, "create_post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// RunAdCampaign handles POST /api/ads
func (h *GameHandler) RunAdCampaign(c *gin.Context) {
	var req AdCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.game.RunAdCampaign(ctx, req.Budget)
	if err != nil {
		writeEngineError(c, err, "ad_campaign")
		return
	}

	c.JSON(http.StatusOK, result)
}

// TrainSkill handles POST /api/skills/train
func (h *GameHandler) TrainSkill(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.game.TrainSkill(ctx)
	if err != nil {
		writeEngineError(c, err, "train_skill")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListNotifications handles GET /api/notifications
func (h *GameHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, NotificationListResponse{Notifications: h.feed.Recent()})
}

// SetupGameRoutes registers game routes
func SetupGameRoutes(apiGroup *gin.RouterGroup, game *engine.Game, feed *notify.Feed) {
	handler := NewGameHandler(game, feed)

	apiGroup.GET("/game", handler.GetState)
	apiGroup.POST("/game", handler.NewGame)

	apiGroup.GET("/content", handler.ListContent)
	apiGroup.POST("/content", handler.CreateContent)
	apiGroup.POST("/playlists", handler.CreatePlaylist)
	apiGroup.POST("/posts", handler.CreatePost)

	apiGroup.POST("/ads", handler.RunAdCampaign)
	apiGroup.POST("/skills/train", handler.TrainSkill)

	apiGroup.GET("/notifications", handler.ListNotifications)
}
