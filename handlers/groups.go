// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/forecast-club/auth"
	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/store"
)

type GroupHandler struct {
	repo store.Repository
	cfg  cliparse.Config
	now  func() time.Time
}

func NewGroupHandler(repo store.Repository, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{repo: repo, cfg: cfg, now: time.Now}
}

// CreateGroup handles POST /api/groups
// The creator becomes the group's admin.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.CreateGroupRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	inviteCode, err := auth.GenerateInviteCode()
	if err != nil {
		slog.Error("failed to generate invite code", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create group")
		return
	}

	group := models.Group{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		InviteCode:  inviteCode,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.repo.CreateGroup(r.Context(), group, userID); err != nil {
		internalError(w, "failed to create group", err)
		return
	}

	slog.Info("group created", "group_id", group.ID, "admin", userID)

	middleware.JSONResponse(w, http.StatusCreated, group)
}

// ListGroups handles GET /api/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	groups, err := h.repo.ListGroupsForUser(r.Context(), userID)
	if err != nil {
		internalError(w, "failed to list groups", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, groups)
}

// GetGroup handles GET /api/groups/{id}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("id")

	group, ok := h.groupForMember(w, r, groupID, userID)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, group)
}

// JoinGroup handles POST /api/groups/join?invite_code=
func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	code := r.URL.Query().Get("invite_code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	group, err := h.repo.GetGroupByInviteCode(r.Context(), code)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invalid invite code")
		return
	}
	if err != nil {
		internalError(w, "failed to look up invite code", err)
		return
	}

	err = h.repo.AddMembership(r.Context(), models.Membership{
		UserID:   userID,
		GroupID:  group.ID,
		Role:     models.RoleMember,
		JoinedAt: h.now().UTC(),
	})
	if errors.Is(err, store.ErrConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, "Already a member of this group")
		return
	}
	if err != nil {
		internalError(w, "failed to join group", err)
		return
	}

	slog.Info("group joined", "group_id", group.ID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, group)
}

// ListMembers handles GET /api/groups/{id}/members
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("id")

	if _, ok := h.groupForMember(w, r, groupID, userID); !ok {
		return
	}

	members, err := h.repo.ListMembers(r.Context(), groupID)
	if err != nil {
		internalError(w, "failed to list members", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, members)
}

// LeaveGroup handles DELETE /api/groups/{id}/leave
// Forecasts already made in the group are kept.
func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	groupID := r.PathValue("id")

	err := h.repo.RemoveMembership(r.Context(), groupID, userID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not a member of this group")
		return
	}
	if err != nil {
		internalError(w, "failed to leave group", err)
		return
	}

	slog.Info("group left", "group_id", groupID, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// groupForMember loads a group the user belongs to. Non-members get the same
// 404 as a missing group.
func (h *GroupHandler) groupForMember(w http.ResponseWriter, r *http.Request, groupID, userID string) (*models.Group, bool) {
	m, err := membershipOf(r.Context(), h.repo, groupID, userID)
	if err != nil {
		internalError(w, "failed to check membership", err)
		return nil, false
	}
	if m == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found or you are not a member")
		return nil, false
	}

	group, err := h.repo.GetGroup(r.Context(), groupID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Group not found or you are not a member")
		return nil, false
	}
	if err != nil {
		internalError(w, "failed to get group", err)
		return nil, false
	}
	return group, true
}
