package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"mealdeal/logger"
)

// Connect opens the Postgres pool, tuned for serverless hosts that suspend
// idle compute.
func Connect(ctx context.Context, connStr string, log logger.Logger) (*sql.DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Warn("Database ping failed, proceeding carefully", logger.Fields{"error": err.Error()})
	}

	// Holding idle connections keeps suspended compute awake.
	db.SetMaxIdleConns(0)
	db.SetMaxOpenConns(10)

	log.Info("Connected to PostgreSQL", nil)
	return db, nil
}
