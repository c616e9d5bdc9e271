package db

// Repositories provides access to all database repositories
type Repositories struct {
	Snapshots *SnapshotRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Snapshots: NewSnapshotRepository(db),
	}
}
