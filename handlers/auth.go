// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/forecast-club/auth"
	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/mail"
	"github.com/danielhkuo/forecast-club/middleware"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/store"
)

type AuthHandler struct {
	repo   store.Repository
	cfg    cliparse.Config
	issuer *auth.TokenIssuer
	mailer mail.Mailer
	now    func() time.Time
}

func NewAuthHandler(repo store.Repository, cfg cliparse.Config, issuer *auth.TokenIssuer, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{repo: repo, cfg: cfg, issuer: issuer, mailer: mailer, now: time.Now}
}

// RequestMagicLink handles POST /api/auth/magic-link
func (h *AuthHandler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req models.MagicLinkRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	token, err := h.issuer.CreateMagicLinkToken(email)
	if err != nil {
		slog.Error("failed to create magic link token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create magic link")
		return
	}

	link, err := mail.MagicLinkURL(h.cfg.BaseURL, token)
	if err != nil {
		slog.Error("failed to build magic link", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create magic link")
		return
	}

	if err := h.mailer.SendMagicLink(r.Context(), email, link); err != nil {
		slog.Error("failed to send magic link", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to send magic link")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Magic link sent to your email"})
}

// VerifyMagicLink handles GET /api/auth/verify?token=
// The user is created on first successful verification.
func (h *AuthHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token is required")
		return
	}

	email, err := h.issuer.VerifyMagicLinkToken(token)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired magic link")
		return
	}

	user, err := h.repo.GetOrCreateUser(r.Context(), email, h.now())
	if err != nil {
		internalError(w, "failed to get or create user", err)
		return
	}

	accessToken, err := h.issuer.CreateAccessToken(user.ID)
	if err != nil {
		slog.Error("failed to create access token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("user signed in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// GetMe handles GET /api/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/auth/me
// A missing display_name leaves the profile unchanged.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	var (
		user *models.User
		err  error
	)
	if req.DisplayName != nil {
		user, err = h.repo.UpdateDisplayName(r.Context(), userID, req.DisplayName)
	} else {
		user, err = h.repo.GetUser(r.Context(), userID)
	}
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User no longer exists")
		return
	}
	if err != nil {
		internalError(w, "failed to update user", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
