// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/scoring"
	"github.com/danielhkuo/forecast-club/store"
)

type ForecastHandler struct {
	repo store.Repository
	cfg  cliparse.Config
	now  func() time.Time
}

func NewForecastHandler(repo store.Repository, cfg cliparse.Config) *ForecastHandler {
	return &ForecastHandler{repo: repo, cfg: cfg, now: time.Now}
}

// CreateForecast handles POST /api/forecasts
// One forecast per user per prediction, only while the prediction is open and unlocked.
func (h *ForecastHandler) CreateForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreateForecastRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	p, _, ok := predictionForMember(w, r, h.repo, req.PredictionID, userID)
	if !ok {
		return
	}

	now := h.now().UTC()
	if !acceptingForecasts(w, p, now) {
		return
	}

	f := models.Forecast{
		ID:           uuid.NewString(),
		PredictionID: p.ID,
		UserID:       userID,
		Probability:  *req.Probability,
		Reasoning:    req.Reasoning,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := h.repo.CreateForecast(r.Context(), f)
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "You already have a forecast for this prediction. Use PATCH to update.")
		return
	}
	if err != nil {
		internalError(w, "failed to create forecast", err)
		return
	}

	slog.Info("forecast created", "forecast_id", f.ID, "prediction_id", p.ID)

	middleware.JSONResponse(w, http.StatusCreated, f)
}

// UpdateForecast handles PATCH /api/forecasts/{id}
// The forecast keeps its original created_at, which is what lock-in is judged on.
func (h *ForecastHandler) UpdateForecast(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.UpdateForecastRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	f, err := h.repo.GetForecast(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Forecast not found")
		return
	}
	if err != nil {
		internalError(w, "failed to get forecast", err)
		return
	}
	if f.UserID != userID {
		middleware.ErrorResponse(w, http.StatusForbidden, "You can only update your own forecasts")
		return
	}

	p, err := h.repo.GetPrediction(r.Context(), f.PredictionID)
	if err != nil {
		internalError(w, "failed to get prediction", err)
		return
	}

	now := h.now().UTC()
	if !acceptingForecasts(w, p, now) {
		return
	}

	reasoning := f.Reasoning
	if req.Reasoning != nil {
		reasoning = req.Reasoning
	}

	updated, err := h.repo.UpdateForecast(r.Context(), f.ID, *req.Probability, reasoning, now)
	if errors.Is(err, store.ErrAlreadyResolved) {
		// Resolved between the check above and the write
		middleware.ErrorResponse(w, http.StatusConflict, "Prediction is already resolved")
		return
	}
	if err != nil {
		internalError(w, "failed to update forecast", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// ListPredictionForecasts handles GET /api/forecasts/prediction/{prediction_id}
func (h *ForecastHandler) ListPredictionForecasts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	p, _, ok := predictionForMember(w, r, h.repo, r.PathValue("prediction_id"), userID)
	if !ok {
		return
	}

	forecasts, err := h.repo.ListForecastsForPrediction(r.Context(), p.ID)
	if err != nil {
		internalError(w, "failed to list forecasts", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, forecasts)
}

// ListMyForecasts handles GET /api/forecasts/mine
func (h *ForecastHandler) ListMyForecasts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	records, err := h.repo.ListForecastRecordsForUser(r.Context(), userID, "")
	if err != nil {
		internalError(w, "failed to list forecasts", err)
		return
	}

	forecasts := make([]models.Forecast, len(records))
	for i, rec := range records {
		forecasts[i] = rec.Forecast
	}

	middleware.JSONResponse(w, http.StatusOK, forecasts)
}

// acceptingForecasts writes a 409 unless the prediction is open and not yet locked
func acceptingForecasts(w http.ResponseWriter, p *models.Prediction, now time.Time) bool {
	if p.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Prediction is already resolved")
		return false
	}
	if scoring.IsLocked(now, scoring.PredictionLockInAt(*p)) {
		middleware.ErrorResponse(w, http.StatusConflict, "Forecasts are locked for this prediction")
		return false
	}
	return true
}
