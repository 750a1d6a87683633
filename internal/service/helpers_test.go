package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/storefront/internal/repository/sqlite"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testPublicURL = "http://localhost:4000"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
