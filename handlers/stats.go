// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/scoring"
	"github.com/danielhkuo/forecast-club/store"
)

// maxBucketCount caps the calibration resolution a client may request
const maxBucketCount = 100

// StatsHandler serves scores. Everything is recomputed from stored forecasts
// on each request.
type StatsHandler struct {
	repo store.Repository
	cfg  cliparse.Config
}

func NewStatsHandler(repo store.Repository, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{repo: repo, cfg: cfg}
}

// GetMyStats handles GET /api/stats/me
func (h *StatsHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if err != nil {
		internalError(w, "failed to get user", err)
		return
	}

	records, err := h.repo.ListForecastRecordsForUser(r.Context(), userID, "")
	if err != nil {
		internalError(w, "failed to list forecast records", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scoring.Summarize(*user, records))
}

// GetMyCalibration handles GET /api/stats/me/calibration?buckets=
func (h *StatsHandler) GetMyCalibration(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	buckets := scoring.DefaultBucketCount
	if raw := r.URL.Query().Get("buckets"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxBucketCount {
			middleware.ErrorResponse(w, http.StatusBadRequest, "buckets must be an integer between 1 and 100")
			return
		}
		buckets = n
	}

	records, err := h.repo.ListForecastRecordsForUser(r.Context(), userID, "")
	if err != nil {
		internalError(w, "failed to list forecast records", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scoring.Calibrate(scoring.ScoredPairs(records), buckets))
}

// GetGroupLeaderboard handles GET /api/stats/group/{group_id}/leaderboard
func (h *StatsHandler) GetGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("group_id")

	if !h.requireMember(w, r, groupID, userID, "Group not found or you are not a member") {
		return
	}

	members, err := h.repo.ListMembers(r.Context(), groupID)
	if err != nil {
		internalError(w, "failed to list members", err)
		return
	}

	byMember, err := h.repo.ListForecastRecordsForGroup(r.Context(), groupID)
	if err != nil {
		internalError(w, "failed to list group forecasts", err)
		return
	}

	resolved, err := h.repo.ListResolvedPredictionIDs(r.Context(), groupID)
	if err != nil {
		internalError(w, "failed to list resolved predictions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scoring.Leaderboard(members, byMember, resolved))
}

// GetUserStatsInGroup handles GET /api/stats/group/{group_id}/user/{user_id}
func (h *StatsHandler) GetUserStatsInGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("group_id")
	targetID := r.PathValue("user_id")

	if !h.requireMember(w, r, groupID, userID, "Group not found or you are not a member") {
		return
	}
	if !h.requireMember(w, r, groupID, targetID, "User is not a member of this group") {
		return
	}

	target, err := h.repo.GetUser(r.Context(), targetID)
	if err != nil {
		internalError(w, "failed to get user", err)
		return
	}

	records, err := h.repo.ListForecastRecordsForUser(r.Context(), targetID, groupID)
	if err != nil {
		internalError(w, "failed to list forecast records", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scoring.Summarize(*target, records))
}

// requireMember writes a 404 with notFound unless userID belongs to the group
func (h *StatsHandler) requireMember(w http.ResponseWriter, r *http.Request, groupID, userID, notFound string) bool {
	member, err := store.IsMember(r.Context(), h.repo, groupID, userID)
	if err != nil {
		internalError(w, "failed to check membership", err)
		return false
	}
	if !member {
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
		return false
	}
	return true
}
