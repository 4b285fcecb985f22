// Package pgtest starts a throwaway PostgreSQL container for integration suites.
package pgtest

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables is the TRUNCATE list covering every table of the schema.
const Tables = "campaign_logs, print_orders, print_batch_campaigns, print_batches, " +
	"campaign_designs, campaigns, rate_counters, clients, partners"

// Start runs postgres:15-alpine and opens a gorm connection to it. The caller
// terminates the container.
func Start(ctx context.Context) (*postgres.PostgresContainer, *gorm.DB, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	return container, db, nil
}

// Truncate empties every table.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE " + Tables + " CASCADE").Error
}
