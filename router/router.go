// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/forecast-club/auth"
	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/handlers"
	"github.com/danielhkuo/forecast-club/mail"
	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/store"
)

func NewRouter(repo store.Repository, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	issuer := auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.MagicLinkTTL)
	mailer := mail.NewLogMailer(slog.Default(), cfg.Debug)
	limiter := middleware.NewRateLimiter(cfg.MagicLinkRate, cfg.TrustProxy)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(repo, cfg, issuer, mailer)
	groupHandler := handlers.NewGroupHandler(repo, cfg)
	predictionHandler := handlers.NewPredictionHandler(repo, cfg)
	forecastHandler := handlers.NewForecastHandler(repo, cfg)
	statsHandler := handlers.NewStatsHandler(repo, cfg)

	public := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(h))
	}
	authed := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.RequireUser(issuer, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Sign-in
	public("POST /api/auth/magic-link", limiter.Limit(authHandler.RequestMagicLink))
	public("GET /api/auth/verify", authHandler.VerifyMagicLink)
	authed("GET /api/auth/me", authHandler.GetMe)
	authed("PATCH /api/auth/me", authHandler.UpdateMe)

	// Groups
	authed("POST /api/groups", groupHandler.CreateGroup)
	authed("GET /api/groups", groupHandler.ListGroups)
	authed("POST /api/groups/join", groupHandler.JoinGroup)
	authed("GET /api/groups/{id}", groupHandler.GetGroup)
	authed("GET /api/groups/{id}/members", groupHandler.ListMembers)
	authed("DELETE /api/groups/{id}/leave", groupHandler.LeaveGroup)

	// Predictions
	authed("POST /api/predictions", predictionHandler.CreatePrediction)
	authed("GET /api/predictions/group/{group_id}", predictionHandler.ListGroupPredictions)
	authed("GET /api/predictions/{id}", predictionHandler.GetPrediction)
	authed("POST /api/predictions/{id}/resolve", predictionHandler.ResolvePrediction)
	authed("DELETE /api/predictions/{id}", predictionHandler.DeletePrediction)

	// Forecasts
	authed("POST /api/forecasts", forecastHandler.CreateForecast)
	authed("PATCH /api/forecasts/{id}", forecastHandler.UpdateForecast)
	authed("GET /api/forecasts/prediction/{prediction_id}", forecastHandler.ListPredictionForecasts)
	authed("GET /api/forecasts/mine", forecastHandler.ListMyForecasts)

	// Stats
	authed("GET /api/stats/me", statsHandler.GetMyStats)
	authed("GET /api/stats/me/calibration", statsHandler.GetMyCalibration)
	authed("GET /api/stats/group/{group_id}/leaderboard", statsHandler.GetGroupLeaderboard)
	authed("GET /api/stats/group/{group_id}/user/{user_id}", statsHandler.GetUserStatsInGroup)

	return mux
}
