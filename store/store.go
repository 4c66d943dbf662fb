// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/forecast-club/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would violate a uniqueness rule.
	ErrConflict = errors.New("record already exists")
	// ErrAlreadyResolved is returned when resolving a prediction, or editing a
	// forecast on one, that is no longer open.
	ErrAlreadyResolved = errors.New("prediction already resolved")
)

// Repository is the persistence boundary used by the HTTP handlers.
type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetOrCreateUser(ctx context.Context, email string, now time.Time) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id string, displayName *string) (*models.User, error)

	CreateGroup(ctx context.Context, group models.Group, adminID string) error
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupWithRole, error)

	GetMembership(ctx context.Context, groupID, userID string) (*models.Membership, error)
	AddMembership(ctx context.Context, m models.Membership) error
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	RemoveMembership(ctx context.Context, groupID, userID string) error

	CreatePrediction(ctx context.Context, p models.Prediction) error
	GetPrediction(ctx context.Context, id string) (*models.Prediction, error)
	ListPredictions(ctx context.Context, groupID string, status *models.PredictionStatus) ([]models.Prediction, error)
	ResolvePrediction(ctx context.Context, id string, outcome models.PredictionStatus, resolvedAt time.Time) (*models.Prediction, error)
	DeletePrediction(ctx context.Context, id string) error

	CreateForecast(ctx context.Context, f models.Forecast) error
	GetForecast(ctx context.Context, id string) (*models.Forecast, error)
	UpdateForecast(ctx context.Context, id string, probability float64, reasoning *string, updatedAt time.Time) (*models.Forecast, error)
	ListForecastsForPrediction(ctx context.Context, predictionID string) ([]models.Forecast, error)

	ListForecastRecordsForUser(ctx context.Context, userID, groupID string) ([]models.ForecastWithPrediction, error)
	ListForecastRecordsForGroup(ctx context.Context, groupID string) (map[string][]models.ForecastWithPrediction, error)
	ListResolvedPredictionIDs(ctx context.Context, groupID string) (map[string]struct{}, error)
}

// SQLStore implements Repository on top of sqlx. Queries are written with ?
// placeholders and rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

var _ Repository = (*SQLStore)(nil)

func New(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// getOne wraps sqlx.GetContext, mapping sql.ErrNoRows to ErrNotFound.
func getOne(ctx context.Context, q sqlx.QueryerContext, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// utc normalizes a timestamp before it is written.
func utc(t time.Time) time.Time {
	return t.UTC()
}
