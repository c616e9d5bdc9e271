// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/punsta/internal/api"
	"github.com/stwalsh4118/punsta/internal/config"
	"github.com/stwalsh4118/punsta/internal/engine"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/middleware"
	"github.com/stwalsh4118/punsta/internal/notify"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	game    *engine.Game
	feed    *notify.Feed
	storage *Storage
	router  *gin.Engine
	server  *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, game *engine.Game, feed *notify.Feed, storage *Storage) *Server {
	s := &Server{
		config:  cfg,
		game:    game,
		feed:    feed,
		storage: storage,
	}
	s.setupRouter()
	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	var checker api.HealthChecker
	driver := ""
	if s.storage != nil {
		driver = s.storage.Driver
		checker = s.storage.Health
	}
	api.SetupHealthRoutes(apiGroup, driver, checker)
	api.SetupGameRoutes(apiGroup, s.game, s.feed)
	api.SetupEventRoutes(apiGroup, s.feed)
}

// Start starts the game engine and then the HTTP server. It blocks until the
// server stops; a graceful shutdown returns nil.
func (s *Server) Start() error {
	s.game.Start()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the engine, disconnects event streams and gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	s.game.Stop()
	s.feed.Close()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
