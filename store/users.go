// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/forecast-club/models"
)

const userColumns = `id, email, display_name, created_at`

func (s *SQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := getOne(ctx, s.db, &u, s.db.Rebind(`SELECT `+userColumns+` FROM app_user WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := getOne(ctx, s.db, &u, s.db.Rebind(`SELECT `+userColumns+` FROM app_user WHERE email = ?`), normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// GetOrCreateUser returns the user with the given email, creating it on first sign-in.
// Concurrent first sign-ins insert at most one row and all read it back.
func (s *SQLStore) GetOrCreateUser(ctx context.Context, email string, now time.Time) (*models.User, error) {
	email = normalizeEmail(email)

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO app_user (id, email, display_name, created_at)
		VALUES (?, ?, NULL, ?)
		ON CONFLICT (email) DO NOTHING
	`), uuid.NewString(), email, utc(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	var user models.User
	err = getOne(ctx, s.db, &user, s.db.Rebind(`SELECT `+userColumns+` FROM app_user WHERE email = ?`), email)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	return &user, nil
}

func (s *SQLStore) UpdateDisplayName(ctx context.Context, id string, displayName *string) (*models.User, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE app_user SET display_name = ? WHERE id = ?`), displayName, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("failed to update user: %w", ErrNotFound)
	}
	return s.GetUser(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
