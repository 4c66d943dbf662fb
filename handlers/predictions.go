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

type PredictionHandler struct {
	repo store.Repository
	cfg  cliparse.Config
	now  func() time.Time
}

func NewPredictionHandler(repo store.Repository, cfg cliparse.Config) *PredictionHandler {
	return &PredictionHandler{repo: repo, cfg: cfg, now: time.Now}
}

// CreatePrediction handles POST /api/predictions
func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreatePredictionRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	m, err := membershipOf(r.Context(), h.repo, req.GroupID, userID)
	if err != nil {
		internalError(w, "failed to check membership", err)
		return
	}
	if m == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	now := h.now().UTC()
	if !req.ResolutionDate.After(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "resolution_date must be in the future")
		return
	}

	p := models.Prediction{
		ID:                 uuid.NewString(),
		GroupID:            req.GroupID,
		CreatorID:          userID,
		Title:              req.Title,
		Description:        req.Description,
		ResolutionCriteria: req.ResolutionCriteria,
		ResolutionDate:     req.ResolutionDate.UTC(),
		Status:             models.StatusOpen,
		CreatedAt:          now,
	}
	if err := h.repo.CreatePrediction(r.Context(), p); err != nil {
		internalError(w, "failed to create prediction", err)
		return
	}

	slog.Info("prediction created", "prediction_id", p.ID, "group_id", p.GroupID)

	middleware.JSONResponse(w, http.StatusCreated, predictionResponse(p, now))
}

// ListGroupPredictions handles GET /api/predictions/group/{group_id}?status_filter=
func (h *PredictionHandler) ListGroupPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("group_id")

	var status *models.PredictionStatus
	if raw := r.URL.Query().Get("status_filter"); raw != "" {
		s := models.PredictionStatus(raw)
		if !s.Valid() {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status_filter")
			return
		}
		status = &s
	}

	m, err := membershipOf(r.Context(), h.repo, groupID, userID)
	if err != nil {
		internalError(w, "failed to check membership", err)
		return
	}
	if m == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "You are not a member of this group")
		return
	}

	predictions, err := h.repo.ListPredictions(r.Context(), groupID, status)
	if err != nil {
		internalError(w, "failed to list predictions", err)
		return
	}

	now := h.now()
	resp := make([]models.PredictionResponse, len(predictions))
	for i, p := range predictions {
		resp[i] = predictionResponse(p, now)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPrediction handles GET /api/predictions/{id}
// Forecasts carry their Brier score once the prediction has resolved.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	p, _, ok := predictionForMember(w, r, h.repo, r.PathValue("id"), userID)
	if !ok {
		return
	}

	forecasts, err := h.repo.ListForecastsForPrediction(r.Context(), p.ID)
	if err != nil {
		internalError(w, "failed to list forecasts", err)
		return
	}

	scored := make([]models.ForecastWithScore, len(forecasts))
	for i, f := range forecasts {
		scored[i] = models.ForecastWithScore{Forecast: f}
		if score, ok := scoring.ScoreForecast(models.ForecastWithPrediction{Forecast: f, Prediction: *p}); ok {
			scored[i].BrierScore = &score
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PredictionWithForecasts{
		PredictionResponse: predictionResponse(*p, h.now()),
		Forecasts:          scored,
	})
}

// ResolvePrediction handles POST /api/predictions/{id}/resolve
// Only the creator or a group admin can resolve, and only once.
func (h *PredictionHandler) ResolvePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.ResolveRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	p, m, ok := predictionForMember(w, r, h.repo, r.PathValue("id"), userID)
	if !ok {
		return
	}
	if p.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Prediction is already resolved")
		return
	}
	if !canManage(p, m) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator or group admin can resolve this prediction")
		return
	}

	now := h.now().UTC()
	resolved, err := h.repo.ResolvePrediction(r.Context(), p.ID, req.Outcome, now)
	if errors.Is(err, store.ErrAlreadyResolved) {
		middleware.ErrorResponse(w, http.StatusConflict, "Prediction is already resolved")
		return
	}
	if err != nil {
		internalError(w, "failed to resolve prediction", err)
		return
	}

	slog.Info("prediction resolved", "prediction_id", p.ID, "outcome", req.Outcome)

	middleware.JSONResponse(w, http.StatusOK, predictionResponse(*resolved, now))
}

// DeletePrediction handles DELETE /api/predictions/{id}
func (h *PredictionHandler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	p, m, ok := predictionForMember(w, r, h.repo, r.PathValue("id"), userID)
	if !ok {
		return
	}
	if !canManage(p, m) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator or group admin can delete this prediction")
		return
	}

	err := h.repo.DeletePrediction(r.Context(), p.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Prediction not found")
		return
	}
	if err != nil {
		internalError(w, "failed to delete prediction", err)
		return
	}

	slog.Info("prediction deleted", "prediction_id", p.ID)

	w.WriteHeader(http.StatusNoContent)
}
