package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwalsh4118/punsta/internal/config"
	"github.com/stwalsh4118/punsta/internal/engine"
	"github.com/stwalsh4118/punsta/internal/gamedata"
	"github.com/stwalsh4118/punsta/internal/generator"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/notify"
	"github.com/stwalsh4118/punsta/internal/persistence"
	"github.com/stwalsh4118/punsta/internal/random"
	"github.com/stwalsh4118/punsta/internal/server"
	"github.com/stwalsh4118/punsta/internal/store"
)

const (
	notificationHistory = 100
	loadTimeout         = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	logger.Log.Info().
		Str("storage_driver", cfg.Storage.Driver).
		Str("storage_key", cfg.Storage.Key).
		Msg("Punsta simulation starting")

	storage, err := server.OpenStorage(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	feed := notify.NewFeed(notificationHistory)
	snapshots := persistence.NewGuardedStore(storage.Snapshots, cfg.Storage.BreakerThreshold, cfg.Storage.BreakerCooldown)
	persister := persistence.NewPersister(snapshots, cfg.Storage.Key, cfg.Storage.SaveDebounce, feed)

	src := random.New(cfg.Simulation.Seed)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), loadTimeout)
	state, err := persister.Load(loadCtx, gamedata.DefaultState(generator.New(src)))
	cancelLoad()
	if err != nil {
		// Load already fell back to a fresh default state
		logger.Log.Warn().Err(err).Msg("Continuing with a new game")
	}

	st := store.New(state)
	st.OnCommit(persister.ScheduleSave)

	game := engine.NewGame(st, engine.Config{
		GrowthInterval:   cfg.Simulation.GrowthInterval,
		CommentRevealMin: cfg.Simulation.CommentRevealMin,
		CommentRevealMax: cfg.Simulation.CommentRevealMax,
		ProcessingDelay:  cfg.Simulation.ProcessingDelay,
		DailyInterval:    cfg.Simulation.DailyInterval,
	},
		engine.WithRandom(src),
		engine.WithNotifier(feed),
		engine.WithSnapshotClearer(persister),
	)

	srv := server.New(cfg, game, feed, storage)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Log.Error().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := persister.Close(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to save game on shutdown")
	}
}
