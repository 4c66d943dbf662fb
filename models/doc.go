// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, validated with go-playground/validator tags:

  - MagicLinkRequest: email
  - UpdateUserRequest: display_name
  - CreateGroupRequest: name, description
  - CreatePredictionRequest: group_id, title, resolution_date, ...
  - ResolveRequest: outcome
  - CreateForecastRequest / UpdateForecastRequest: probability (0-1), reasoning

# Domain Types

Stored records:

  - User, Group, Membership
  - Prediction: question with a resolution date and lifecycle status
  - Forecast: one user's probability on one prediction
  - ForecastWithPrediction: the joined pair consumed by package scoring

# Stats Types

  - UserStats: totals and an optional average Brier score
  - LeaderboardEntry: ranked member score within a group
  - CalibrationBucket: predicted vs. observed frequency per probability range

A nil AverageBrierScore means no scorable forecasts, never a perfect score.

# Constants

Prediction status values:

	StatusOpen        = "open"
	StatusResolvedYes = "resolved_yes"
	StatusResolvedNo  = "resolved_no"
	StatusAmbiguous   = "ambiguous"

Group roles:

	RoleMember = "member"
	RoleAdmin  = "admin"
*/
package models
