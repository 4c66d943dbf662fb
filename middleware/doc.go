// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/groups", middleware.WithLogging(handler))

Logs completion with method, path, status and duration_ms.

# Authentication

RequireUser checks the Authorization: Bearer header against an access
token verifier and stores the user ID in the request context:

	mux.HandleFunc("GET /api/auth/me", middleware.RequireUser(issuer, h.GetMe))

	userID, _ := middleware.UserIDFromContext(r.Context())

# Rate Limiting

RateLimiter keeps one token bucket per client IP. Clients are keyed by the
peer address; forwarded headers are only used when cfg.TrustProxy is set:

	rl := middleware.NewRateLimiter(cfg.MagicLinkRate, cfg.TrustProxy)
	mux.HandleFunc("POST /api/auth/magic-link", rl.Limit(h.RequestMagicLink))

# CORS Middleware

Enable cross-origin requests for a separately served frontend (debug only):

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

DecodeAndValidate parses a body and applies its validate struct tags,
writing a 400 response on failure:

	var req models.CreateForecastRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

GetClientIP honors X-Forwarded-For and X-Real-IP before RemoteAddr.
RemoteIP uses the connection's peer address only.
*/
package middleware
