// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	// One statement per Exec; not every driver accepts a multi-statement string.
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// The schema sticks to types and syntax that PostgreSQL and SQLite share.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Groups
CREATE TABLE IF NOT EXISTS forecast_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    invite_code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecast_group_invite_code ON forecast_group(invite_code);

-- Memberships
CREATE TABLE IF NOT EXISTS group_membership (
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    group_id TEXT NOT NULL REFERENCES forecast_group(id) ON DELETE CASCADE,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'admin')),
    joined_at TIMESTAMP NOT NULL,
    PRIMARY KEY (user_id, group_id)
);

CREATE INDEX IF NOT EXISTS idx_group_membership_group_id ON group_membership(group_id);

-- Predictions
CREATE TABLE IF NOT EXISTS prediction (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES forecast_group(id) ON DELETE CASCADE,
    creator_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT,
    resolution_criteria TEXT,
    resolution_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'resolved_yes', 'resolved_no', 'ambiguous')),
    resolved_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    CHECK (resolution_date > created_at)
);

CREATE INDEX IF NOT EXISTS idx_prediction_group_id ON prediction(group_id);
CREATE INDEX IF NOT EXISTS idx_prediction_status ON prediction(group_id, status);

-- Forecasts
CREATE TABLE IF NOT EXISTS forecast (
    id TEXT PRIMARY KEY,
    prediction_id TEXT NOT NULL REFERENCES prediction(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    probability DOUBLE PRECISION NOT NULL CHECK (probability >= 0 AND probability <= 1),
    reasoning TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (prediction_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_forecast_user_id ON forecast(user_id);
CREATE INDEX IF NOT EXISTS idx_forecast_prediction_id ON forecast(prediction_id);
`
