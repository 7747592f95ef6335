// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sujalbistaa/ideas/internal/config"
	"github.com/sujalbistaa/ideas/internal/db"
)

// NewDB opens a migrated SQLite database in a temp dir. It is closed when the
// test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	return NewDBWithPool(t, 4)
}

// NewDBWithPool is NewDB with a specific pool capacity.
func NewDBWithPool(t *testing.T, maxOpen int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ideas.db")
	cfg := &config.Config{
		DatabaseURL:       "sqlite://" + path + "?_pragma=busy_timeout(5000)",
		DBMaxOpenConns:    maxOpen,
		DBMaxIdleConns:    maxOpen,
		DBConnMaxLifetime: time.Hour,
		DBAcquireTimeout:  time.Second,
	}

	database, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

// Clock returns a func that starts at start and advances by step on every call.
// Services take it so "newest first" ordering is deterministic in tests.
func Clock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
