package models

import "time"

// GameSnapshot is a persisted, serialized GameState stored under a single key
type GameSnapshot struct {
	Key       string    `json:"key" gorm:"type:text;primaryKey;column:snapshot_key"`
	Payload   []byte    `json:"-" gorm:"type:blob;not null;column:payload"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// TableName returns the table backing game snapshots
func (GameSnapshot) TableName() string {
	return "game_snapshots"
}
