package domain

import "context"

// Database defines lifecycle operations for the underlying database and
// hands out the repositories backed by it. Each implementation (SQLite,
// Postgres) owns its own migration files, so the whole storage backend is
// swappable from configuration.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error

	Users() UserRepository
	Products() ProductRepository
	FileStore() FileStore
}
