package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stwalsh4118/punsta/internal/api"
	"github.com/stwalsh4118/punsta/internal/cache"
	"github.com/stwalsh4118/punsta/internal/config"
	"github.com/stwalsh4118/punsta/internal/db"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/persistence"
)

// Storage is the snapshot backend selected by storage.driver
type Storage struct {
	Driver    string
	Snapshots persistence.SnapshotStore
	// Health is nil for backends with nothing external to probe
	Health api.HealthChecker
	close  func() error
}

// Close releases the backend's connections
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage connects the configured snapshot backend
func OpenStorage(cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		return openSQLite(cfg.Database)
	case config.StorageDriverRedis:
		store, err := cache.NewSnapshotStore(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &Storage{
			Driver:    cfg.Storage.Driver,
			Snapshots: store,
			Health:    store,
			close:     store.Close,
		}, nil
	case config.StorageDriverMemory:
		logger.Log.Warn().Msg("Using in-memory storage, progress will not survive a restart")
		return &Storage{
			Driver:    cfg.Storage.Driver,
			Snapshots: persistence.NewMemoryStore(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

func openSQLite(cfg config.DatabaseConfig) (*Storage, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := db.New(cfg.Path, db.Options{
		EnableWAL:         cfg.EnableWAL,
		ConnectionTimeout: cfg.ConnectionTimeout,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return nil, errors.Join(err, database.Close())
	}
	if err := db.RunMigrations(sqlDB, cfg.MigrationsPath); err != nil {
		return nil, errors.Join(err, database.Close())
	}

	return &Storage{
		Driver:    config.StorageDriverSQLite,
		Snapshots: db.NewRepositories(database).Snapshots,
		Health:    database,
		close:     database.Close,
	}, nil
}
