// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Forecast Club API server.

Forecast Club lets small groups post yes/no predictions, record probability
forecasts on them, and rank members by Brier score once predictions resolve.
Forecasts lock in after 75% of a prediction's lifetime has passed; only
locked-in forecasts count toward scores.

# Starting the Server

The server reads a .env file if present, then environment variables or
CLI flags:

	SECRET_KEY=... go run .

Or with flags:

	go run . -p 8000 -t postgres -d "postgres://..." --secret ...

# Configuration

Required settings:

  - SECRET_KEY (--secret): Signing key for access and magic-link tokens
  - DATABASE_URL (-d): Required for postgres; sqlite defaults to file:forecast_club.db

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ACCESS_TOKEN_EXPIRE_MINUTES (--access-ttl): default 10080
  - MAGIC_LINK_EXPIRE_MINUTES (--magic-ttl): default 15
  - MAGIC_LINK_RATE_PER_MINUTE (--magic-rate): default 5
  - BASE_URL (--base-url): Used to build magic links
  - TRUST_PROXY (--trust-proxy): Rate limit by X-Forwarded-For
  - DEBUG (--debug): Log magic links and enable CORS
  - LOG_LEVEL (--log-level), LOG_FORMAT (json or text)

# Architecture

  - handlers: HTTP request handlers (auth, groups, predictions, forecasts, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, auth, rate limiting, validation, JSON helpers
  - scoring: Lock-in, Brier score, calibration and leaderboard
  - store: Repository over sqlx
  - models: Domain, request and response types
  - auth: JWT tokens and invite codes
  - mail: Magic-link delivery
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
