// Package pgtest starts a disposable PostgreSQL for integration suites and
// applies the embedded migrations to it.
package pgtest

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	adapter "orderwatch/internal/adapters/out/postgres"
	"orderwatch/internal/adapters/out/postgres/migrations"
)

// Tables lists every migrated table, for TRUNCATE between tests.
const Tables = "order_status_logs, orders, store_holidays, store_schedules, stores, customers, couriers"

// Start runs a postgres:15-alpine container and returns it with a migrated
// gorm connection.
func Start(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
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

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}
	if err = migrations.Up(url); err != nil {
		return container, nil, err
	}

	db, err := adapter.Open(url)
	return container, db, err
}
