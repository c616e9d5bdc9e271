package db

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/punsta/internal/models"
	"github.com/stwalsh4118/punsta/internal/persistence"
	"gorm.io/gorm/clause"
)

// SnapshotRepository stores serialized game states in the game_snapshots table
type SnapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Get returns the payload stored under key
func (r *SnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var snapshot models.GameSnapshot
	result := r.db.WithContext(ctx).Where("snapshot_key = ?", key).First(&snapshot)
	if result.Error != nil {
		err := MapGormError(result.Error)
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", persistence.ErrSnapshotNotFound, err)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snapshot.Payload, nil
}

// Put inserts or overwrites the payload stored under key
func (r *SnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	snapshot := models.GameSnapshot{
		Key:       key,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snapshot)
	if result.Error != nil {
		return fmt.Errorf("failed to save snapshot: %w", MapGormError(result.Error))
	}
	return nil
}

// Delete removes the snapshot stored under key; a missing key is not an error
func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("snapshot_key = ?", key).Delete(&models.GameSnapshot{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete snapshot: %w", MapGormError(result.Error))
	}
	return nil
}
