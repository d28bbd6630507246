// Package dbtest opens migrated databases for repository and query tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pgadapter "fulfillment/internal/adapters/out/postgres"
)

// SQLite returns a private in-memory database with the full schema.
func SQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, pgadapter.Migrate(db))
	return db
}

// Postgres starts a disposable PostgreSQL container with the full schema.
// The returned function terminates it.
func Postgres(ctx context.Context) (*gorm.DB, func(context.Context) error, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	terminate := func(ctx context.Context) error {
		return container.Terminate(ctx)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = terminate(ctx)
		return nil, nil, err
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = terminate(ctx)
		return nil, nil, err
	}

	if err := pgadapter.Migrate(db); err != nil {
		_ = terminate(ctx)
		return nil, nil, err
	}
	return db, terminate, nil
}

// Truncate empties every table owned by the service.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE orders, product_inventories, products, stores, users RESTART IDENTITY CASCADE").Error
}
