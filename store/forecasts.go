// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/forecast-club/models"
)

const forecastColumns = `f.id, f.prediction_id, f.user_id, f.probability, f.reasoning, f.created_at, f.updated_at`

// recordColumns aliases both sides of the forecast/prediction join so sqlx
// can fill the nested structs of recordRow.
const recordColumns = `
	f.id AS "f.id", f.prediction_id AS "f.prediction_id", f.user_id AS "f.user_id",
	f.probability AS "f.probability", f.reasoning AS "f.reasoning",
	f.created_at AS "f.created_at", f.updated_at AS "f.updated_at",
	p.id AS "p.id", p.group_id AS "p.group_id", p.creator_id AS "p.creator_id",
	p.title AS "p.title", p.description AS "p.description",
	p.resolution_criteria AS "p.resolution_criteria", p.resolution_date AS "p.resolution_date",
	p.status AS "p.status", p.resolved_at AS "p.resolved_at", p.created_at AS "p.created_at"`

type recordRow struct {
	Forecast   models.Forecast   `db:"f"`
	Prediction models.Prediction `db:"p"`
}

// CreateForecast returns ErrConflict if the user already forecast this prediction.
// The unique (prediction_id, user_id) index decides, so concurrent submissions
// resolve to exactly one row.
func (s *SQLStore) CreateForecast(ctx context.Context, f models.Forecast) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO forecast (id, prediction_id, user_id, probability, reasoning, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (prediction_id, user_id) DO NOTHING
	`), f.ID, f.PredictionID, f.UserID, f.Probability, f.Reasoning, utc(f.CreatedAt), utc(f.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create forecast: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to create forecast: %w", err)
	} else if n == 0 {
		return fmt.Errorf("failed to create forecast: %w", ErrConflict)
	}
	return nil
}

func (s *SQLStore) GetForecast(ctx context.Context, id string) (*models.Forecast, error) {
	var f models.Forecast
	err := getOne(ctx, s.db, &f, s.db.Rebind(`SELECT `+forecastColumns+` FROM forecast f WHERE f.id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}
	return &f, nil
}

// UpdateForecast changes probability and reasoning. created_at is never touched.
// The update only applies while the prediction is open; otherwise it returns
// ErrAlreadyResolved.
func (s *SQLStore) UpdateForecast(ctx context.Context, id string, probability float64, reasoning *string, updatedAt time.Time) (*models.Forecast, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE forecast SET probability = ?, reasoning = ?, updated_at = ?
		WHERE id = ? AND EXISTS (
			SELECT 1 FROM prediction p WHERE p.id = forecast.prediction_id AND p.status = ?
		)
	`), probability, reasoning, utc(updatedAt), id, models.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to update forecast: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update forecast: %w", err)
	}
	if n == 0 {
		// Either the forecast is gone or its prediction has resolved.
		if _, err := s.GetForecast(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to update forecast: %w", err)
		}
		return nil, fmt.Errorf("failed to update forecast: %w", ErrAlreadyResolved)
	}
	return s.GetForecast(ctx, id)
}

func (s *SQLStore) ListForecastsForPrediction(ctx context.Context, predictionID string) ([]models.Forecast, error) {
	forecasts := []models.Forecast{}
	err := s.db.SelectContext(ctx, &forecasts, s.db.Rebind(`
		SELECT `+forecastColumns+` FROM forecast f WHERE f.prediction_id = ? ORDER BY f.created_at, f.id
	`), predictionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	return forecasts, nil
}

// ListForecastRecordsForUser returns the user's forecasts joined with their
// predictions, newest first. An empty groupID means every group.
func (s *SQLStore) ListForecastRecordsForUser(ctx context.Context, userID, groupID string) ([]models.ForecastWithPrediction, error) {
	query := `SELECT ` + recordColumns + `
		FROM forecast f
		JOIN prediction p ON p.id = f.prediction_id
		WHERE f.user_id = ?`
	args := []interface{}{userID}
	if groupID != "" {
		query += ` AND p.group_id = ?`
		args = append(args, groupID)
	}
	query += ` ORDER BY f.created_at DESC, f.id`

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list forecast records: %w", err)
	}

	records := make([]models.ForecastWithPrediction, len(rows))
	for i, row := range rows {
		records[i] = models.ForecastWithPrediction{Forecast: row.Forecast, Prediction: row.Prediction}
	}
	return records, nil
}

// ListForecastRecordsForGroup returns every forecast on the group's
// predictions, keyed by forecaster.
func (s *SQLStore) ListForecastRecordsForGroup(ctx context.Context, groupID string) (map[string][]models.ForecastWithPrediction, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT `+recordColumns+`
		FROM forecast f
		JOIN prediction p ON p.id = f.prediction_id
		WHERE p.group_id = ?
		ORDER BY f.created_at, f.id
	`), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group forecast records: %w", err)
	}

	byUser := make(map[string][]models.ForecastWithPrediction)
	for _, row := range rows {
		byUser[row.Forecast.UserID] = append(byUser[row.Forecast.UserID],
			models.ForecastWithPrediction{Forecast: row.Forecast, Prediction: row.Prediction})
	}
	return byUser, nil
}
