// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Mailer delivers magic links to users.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// LogMailer writes magic links to the log instead of sending email.
// Links are only logged in debug mode so tokens never reach production logs.
type LogMailer struct {
	logger *slog.Logger
	debug  bool
}

func NewLogMailer(logger *slog.Logger, debug bool) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger, debug: debug}
}

func (m *LogMailer) SendMagicLink(ctx context.Context, email, link string) error {
	if !m.debug {
		m.logger.InfoContext(ctx, "magic link requested", "email", email)
		return nil
	}
	m.logger.InfoContext(ctx, "magic link", "email", email, "link", link)
	return nil
}

// MagicLinkURL builds the verification link for a magic-link token.
func MagicLinkURL(baseURL, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/api/auth/verify")
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
