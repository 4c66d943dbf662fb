// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/forecast-club/models"
)

const groupColumns = `g.id, g.name, g.description, g.invite_code, g.created_at`

// CreateGroup inserts the group and its creator's admin membership together.
func (s *SQLStore) CreateGroup(ctx context.Context, group models.Group, adminID string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO forecast_group (id, name, description, invite_code, created_at)
			VALUES (?, ?, ?, ?, ?)
		`), group.ID, group.Name, group.Description, group.InviteCode, utc(group.CreatedAt))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO group_membership (user_id, group_id, role, joined_at)
			VALUES (?, ?, ?, ?)
		`), adminID, group.ID, models.RoleAdmin, utc(group.CreatedAt))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (s *SQLStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	var g models.Group
	err := getOne(ctx, s.db, &g, s.db.Rebind(`SELECT `+groupColumns+` FROM forecast_group g WHERE g.id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

func (s *SQLStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var g models.Group
	err := getOne(ctx, s.db, &g, s.db.Rebind(`SELECT `+groupColumns+` FROM forecast_group g WHERE g.invite_code = ?`), code)
	if err != nil {
		return nil, fmt.Errorf("failed to get group by invite code: %w", err)
	}
	return &g, nil
}

// ListGroupsForUser returns every group the user belongs to with their role, oldest first.
func (s *SQLStore) ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupWithRole, error) {
	groups := []models.GroupWithRole{}
	err := s.db.SelectContext(ctx, &groups, s.db.Rebind(`
		SELECT `+groupColumns+`, m.role
		FROM forecast_group g
		JOIN group_membership m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY m.joined_at, g.id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *SQLStore) GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	var m models.Membership
	err := getOne(ctx, s.db, &m, s.db.Rebind(`
		SELECT user_id, group_id, role, joined_at
		FROM group_membership
		WHERE group_id = ? AND user_id = ?
	`), groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

// AddMembership returns ErrConflict if the user is already a member.
func (s *SQLStore) AddMembership(ctx context.Context, m models.Membership) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO group_membership (user_id, group_id, role, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, group_id) DO NOTHING
	`), m.UserID, m.GroupID, m.Role, utc(m.JoinedAt))
	if err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	} else if n == 0 {
		return fmt.Errorf("failed to add membership: %w", ErrConflict)
	}
	return nil
}

// ListMembers returns the group's members in join order.
func (s *SQLStore) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	members := []models.GroupMember{}
	err := s.db.SelectContext(ctx, &members, s.db.Rebind(`
		SELECT u.id AS user_id, u.email, u.display_name, m.role, m.joined_at
		FROM group_membership m
		JOIN app_user u ON u.id = m.user_id
		WHERE m.group_id = ?
		ORDER BY m.joined_at, u.id
	`), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// RemoveMembership deletes the membership. The user's forecasts are kept.
func (s *SQLStore) RemoveMembership(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM group_membership WHERE group_id = ? AND user_id = ?
	`), groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	} else if n == 0 {
		return fmt.Errorf("failed to remove membership: %w", ErrNotFound)
	}
	return nil
}

// IsMember reports whether the user belongs to the group.
func IsMember(ctx context.Context, repo Repository, groupID, userID string) (bool, error) {
	_, err := repo.GetMembership(ctx, groupID, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
