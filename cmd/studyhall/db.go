package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studyhall/studyhall/pkg/config"
	"github.com/studyhall/studyhall/pkg/observability"
	"github.com/studyhall/studyhall/pkg/storage"
)

// dbStatsInterval is how often pool statistics are exported
const dbStatsInterval = 15 * time.Second

// openDatabase opens the configured database and applies the schema
func openDatabase(ctx context.Context, cfg *config.Config) (*storage.DB, error) {
	db, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// collectDBStats periodically exports connection pool statistics
func collectDBStats(logger *logrus.Logger, metrics *observability.Metrics, db interface{ Stats() sql.DBStats }) {
	defer observability.RecoverPanic(logger, "db stats collector")

	ticker := time.NewTicker(dbStatsInterval)
	defer ticker.Stop()
	for range ticker.C {
		metrics.UpdateDBStats(db.Stats())
	}
}
