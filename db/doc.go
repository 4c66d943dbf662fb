// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

	conn, err := db.Open(ctx, cfg)

The driver follows cfg.DatabaseType: "sqlite" (modernc.org/sqlite, the
default) or "postgres" (lib/pq). The first ping is retried with exponential
backoff for up to 30 seconds.

# Schema Creation

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: Registered users (by email)
  - forecast_group: Groups with invite codes
  - group_membership: One row per (user, group) with a role
  - prediction: Yes/no questions with a resolution date and status
  - forecast: One probability per (prediction, user)

# Relationships

	forecast_group 1──* group_membership *──1 app_user
	forecast_group 1──* prediction
	prediction 1──* forecast *──1 app_user

Deletes are cascaded explicitly by package store inside a transaction, so
behavior does not depend on foreign key enforcement being enabled.
*/
package db
