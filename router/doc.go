// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Forecast Club API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store.New(db), cfg)

Every route is wrapped in request logging. Routes other than health,
magic-link and verify require an "Authorization: Bearer <token>" header.

# Endpoints

Health:

	GET /health

Sign-in (magic-link is rate limited per client IP):

	POST  /api/auth/magic-link - Email a sign-in link
	GET   /api/auth/verify     - Exchange link token for access token
	GET   /api/auth/me         - Current user
	PATCH /api/auth/me         - Set display name

Groups:

	POST   /api/groups              - Create group (caller becomes admin)
	GET    /api/groups              - Caller's groups with role
	POST   /api/groups/join         - Join by ?invite_code=
	GET    /api/groups/{id}         - Group details
	GET    /api/groups/{id}/members - Members
	DELETE /api/groups/{id}/leave   - Leave

Predictions:

	POST   /api/predictions                   - Create
	GET    /api/predictions/group/{group_id}  - List, optional ?status_filter=
	GET    /api/predictions/{id}              - Details with scored forecasts
	POST   /api/predictions/{id}/resolve      - Resolve once
	DELETE /api/predictions/{id}              - Delete with its forecasts

Forecasts:

	POST  /api/forecasts                              - Submit
	PATCH /api/forecasts/{id}                         - Update before lock-in
	GET   /api/forecasts/prediction/{prediction_id}   - All forecasts on a prediction
	GET   /api/forecasts/mine                         - Caller's forecasts

Stats:

	GET /api/stats/me                                - Caller's summary
	GET /api/stats/me/calibration                    - Calibration, optional ?buckets=
	GET /api/stats/group/{group_id}/leaderboard      - Group ranking
	GET /api/stats/group/{group_id}/user/{user_id}   - Member summary in group
*/
package router
