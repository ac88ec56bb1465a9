// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"go-store-orders/internal/config"
	"go-store-orders/pkg/database"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

var seq atomic.Int64

// New returns a migrated in-memory SQLite database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	// A distinct name per call keeps shared-cache databases from leaking between tests.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", seq.Add(1))
	db, err := database.Connect(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		URL:      dsn,
		LogLevel: "silent",
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// NewWithSQLX also returns the read-side handle over the same pool.
func NewWithSQLX(t testing.TB) (*gorm.DB, *sqlx.DB) {
	t.Helper()
	db := New(t)
	x, err := database.NewSQLX(db, config.DriverSQLite)
	if err != nil {
		t.Fatalf("wrap sqlx: %v", err)
	}
	return db, x
}

// Postgres returns a migrated connection to TEST_DATABASE_URL and skips the test when it is unset.
// Unlike SQLite it has a real pool, so concurrent transactions actually interleave.
func Postgres(t testing.TB) *gorm.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		URL:      url,
		LogLevel: "silent",
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return db
}
