// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/scoring"
	"github.com/danielhkuo/forecast-club/store"
)

// currentUserID returns the authenticated user, writing a 401 if there is none
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
	}
	return userID, ok
}

// internalError logs err and writes a generic 500
func internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}

// membershipOf returns the user's membership in the group, or nil if they are not a member
func membershipOf(ctx context.Context, repo store.Repository, groupID, userID string) (*models.Membership, error) {
	m, err := repo.GetMembership(ctx, groupID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return m, err
}

// canManage reports whether a member may resolve or delete the prediction
func canManage(p *models.Prediction, m *models.Membership) bool {
	return p.CreatorID == m.UserID || m.Role == models.RoleAdmin
}

// predictionResponse adds the derived lock-in fields as of now
func predictionResponse(p models.Prediction, now time.Time) models.PredictionResponse {
	lockInAt := scoring.PredictionLockInAt(p)
	resp := models.PredictionResponse{
		Prediction: p,
		LockInAt:   lockInAt,
		IsLocked:   scoring.IsLocked(now, lockInAt),
	}
	if remaining, ok := scoring.TimeUntilLock(now, lockInAt); ok && p.Status == models.StatusOpen {
		resp.LocksIn = humanize.RelTime(now, now.Add(remaining), "from now", "")
	}
	return resp
}

// predictionForMember loads a prediction and the caller's membership in its group
func predictionForMember(w http.ResponseWriter, r *http.Request, repo store.Repository, predictionID, userID string) (*models.Prediction, *models.Membership, bool) {
	p, err := repo.GetPrediction(r.Context(), predictionID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Prediction not found")
		return nil, nil, false
	}
	if err != nil {
		internalError(w, "failed to get prediction", err)
		return nil, nil, false
	}

	m, err := membershipOf(r.Context(), repo, p.GroupID, userID)
	if err != nil {
		internalError(w, "failed to check membership", err)
		return nil, nil, false
	}
	if m == nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "You are not a member of this group")
		return nil, nil, false
	}
	return p, m, true
}
