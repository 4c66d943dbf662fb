// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/forecast-club/cliparse"
)

// DriverName maps a configured database type to its database/sql driver.
func DriverName(databaseType string) (string, error) {
	switch databaseType {
	case cliparse.DatabaseSQLite:
		return "sqlite", nil
	case cliparse.DatabasePostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported database type %q", databaseType)
}

// Open connects to the configured database, retrying the initial ping with
// exponential backoff so the server can start before the database is ready.
func Open(ctx context.Context, cfg cliparse.Config) (*sqlx.DB, error) {
	driver, err := DriverName(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows a single writer; serialize access through one connection.
		conn.SetMaxOpenConns(1)
	}

	operation := func() error {
		if err := conn.PingContext(ctx); err != nil {
			slog.Warn("database ping failed, retrying", "error", err)
			return err
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(strategy, ctx)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed after retries: %w", err)
	}

	return conn, nil
}

func init() {
	// modernc registers as "sqlite", which sqlx does not know by default.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}
