// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/forecast-club/models"
)

const predictionColumns = `p.id, p.group_id, p.creator_id, p.title, p.description, p.resolution_criteria,
	p.resolution_date, p.status, p.resolved_at, p.created_at`

func (s *SQLStore) CreatePrediction(ctx context.Context, p models.Prediction) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO prediction (id, group_id, creator_id, title, description, resolution_criteria,
			resolution_date, status, resolved_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.GroupID, p.CreatorID, p.Title, p.Description, p.ResolutionCriteria,
		utc(p.ResolutionDate), p.Status, nil, utc(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (s *SQLStore) GetPrediction(ctx context.Context, id string) (*models.Prediction, error) {
	var p models.Prediction
	err := getOne(ctx, s.db, &p, s.db.Rebind(`SELECT `+predictionColumns+` FROM prediction p WHERE p.id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &p, nil
}

// ListPredictions returns the group's predictions, newest first, optionally
// restricted to one status.
func (s *SQLStore) ListPredictions(ctx context.Context, groupID string, status *models.PredictionStatus) ([]models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM prediction p WHERE p.group_id = ?`
	args := []interface{}{groupID}
	if status != nil {
		query += ` AND p.status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY p.created_at DESC, p.id`

	predictions := []models.Prediction{}
	if err := s.db.SelectContext(ctx, &predictions, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}

// ResolvePrediction moves an open prediction to its terminal outcome and sets
// resolved_at in the same write. A prediction resolves at most once.
func (s *SQLStore) ResolvePrediction(ctx context.Context, id string, outcome models.PredictionStatus, resolvedAt time.Time) (*models.Prediction, error) {
	if !outcome.Terminal() {
		return nil, fmt.Errorf("invalid outcome %q", outcome)
	}

	var p models.Prediction
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE prediction SET status = ?, resolved_at = ?
			WHERE id = ? AND status = ?
		`), outcome, utc(resolvedAt), id, models.StatusOpen)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if err := getOne(ctx, tx, &p, tx.Rebind(`SELECT `+predictionColumns+` FROM prediction p WHERE p.id = ?`), id); err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyResolved
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve prediction: %w", err)
	}
	return &p, nil
}

// DeletePrediction removes the prediction and its forecasts in one transaction.
func (s *SQLStore) DeletePrediction(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM forecast WHERE prediction_id = ?`), id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM prediction WHERE id = ?`), id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}
	return nil
}

// ListResolvedPredictionIDs returns the ids of the group's predictions in a terminal state.
func (s *SQLStore) ListResolvedPredictionIDs(ctx context.Context, groupID string) (map[string]struct{}, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, s.db.Rebind(`
		SELECT id FROM prediction WHERE group_id = ? AND status <> ?
	`), groupID, models.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list resolved predictions: %w", err)
	}

	resolved := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		resolved[id] = struct{}{}
	}
	return resolved, nil
}
