// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Forecast Club API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AuthHandler: magic-link sign-in and the current user's profile
  - GroupHandler: groups, invite codes and membership
  - PredictionHandler: prediction lifecycle (create, resolve, delete)
  - ForecastHandler: submitting and editing forecasts
  - StatsHandler: Brier scores, calibration and leaderboards

Handlers are created via constructor functions:

	groupHandler := handlers.NewGroupHandler(repo, cfg)

All routes except magic-link request and verification expect the caller's
user ID in the request context, placed there by middleware.RequireUser.

# Prediction Lifecycle

A prediction is open until resolved exactly once to resolved_yes,
resolved_no or ambiguous by its creator or a group admin:

	POST /api/predictions                → CreatePrediction
	POST /api/predictions/{id}/resolve   → ResolvePrediction
	DELETE /api/predictions/{id}         → DeletePrediction (forecasts too)

# Lock-in

Forecasts are accepted until 75% of the way from a prediction's creation
to its resolution date. After that the prediction is locked: new forecasts
and edits are rejected with 409. Only forecasts created before lock-in
count toward scores. Edits keep the original created_at.

# Scoring

StatsHandler loads records from the store and delegates to package
scoring. Nothing is cached; each request recomputes from stored forecasts.
*/
package handlers
