package persistence

import (
	"errors"
	"fmt"
)

// Custom persistence errors
var (
	// ErrSnapshotNotFound indicates nothing has been saved under the key
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptSnapshot indicates the saved payload could not be decoded
	ErrCorruptSnapshot = errors.New("snapshot is corrupt")
)

// StorageError wraps a failed snapshot read or write
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("snapshot %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorage checks if the error is a storage error
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsSnapshotNotFound checks if the error is a snapshot not found error
func IsSnapshotNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}

// IsCorruptSnapshot checks if the error is a corrupt snapshot error
func IsCorruptSnapshot(err error) bool {
	return errors.Is(err, ErrCorruptSnapshot)
}
