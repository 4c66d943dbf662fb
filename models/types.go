// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// PredictionStatus is the lifecycle state of a prediction.
type PredictionStatus string

// Prediction status constants
const (
	StatusOpen        PredictionStatus = "open"
	StatusResolvedYes PredictionStatus = "resolved_yes"
	StatusResolvedNo  PredictionStatus = "resolved_no"
	StatusAmbiguous   PredictionStatus = "ambiguous"
)

// Valid reports whether s is one of the known statuses.
func (s PredictionStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusResolvedYes, StatusResolvedNo, StatusAmbiguous:
		return true
	}
	return false
}

// Terminal reports whether s is a resolved state.
func (s PredictionStatus) Terminal() bool {
	return s.Valid() && s != StatusOpen
}

// GroupRole is a member's role inside a group.
type GroupRole string

// Group role constants
const (
	RoleMember GroupRole = "member"
	RoleAdmin  GroupRole = "admin"
)

// Request types

type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
}

type CreatePredictionRequest struct {
	GroupID            string    `json:"group_id" validate:"required"`
	Title              string    `json:"title" validate:"required,min=1,max=500"`
	Description        *string   `json:"description"`
	ResolutionCriteria *string   `json:"resolution_criteria"`
	ResolutionDate     time.Time `json:"resolution_date" validate:"required"`
}

type ResolveRequest struct {
	Outcome PredictionStatus `json:"outcome" validate:"required,oneof=resolved_yes resolved_no ambiguous"`
}

// Probability is a pointer so that an explicit 0 is distinguishable from a missing field.
type CreateForecastRequest struct {
	PredictionID string   `json:"prediction_id" validate:"required"`
	Probability  *float64 `json:"probability" validate:"required,gte=0,lte=1"`
	Reasoning    *string  `json:"reasoning"`
}

type UpdateForecastRequest struct {
	Probability *float64 `json:"probability" validate:"required,gte=0,lte=1"`
	Reasoning   *string  `json:"reasoning"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type GroupWithRole struct {
	Group
	Role GroupRole `json:"role" db:"role"`
}

type GroupMember struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Email       string    `json:"email" db:"email"`
	DisplayName *string   `json:"display_name" db:"display_name"`
	Role        GroupRole `json:"role" db:"role"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}

// PredictionResponse carries the derived lock-in fields alongside the stored record.
type PredictionResponse struct {
	Prediction
	LockInAt time.Time `json:"lock_in_at"`
	IsLocked bool      `json:"is_locked"`
	LocksIn  string    `json:"locks_in,omitempty"`
}

type PredictionWithForecasts struct {
	PredictionResponse
	Forecasts []ForecastWithScore `json:"forecasts"`
}

type ForecastWithScore struct {
	Forecast
	BrierScore *float64 `json:"brier_score,omitempty"`
}

// Domain types

type User struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName *string   `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	InviteCode  string    `json:"invite_code" db:"invite_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Membership struct {
	UserID   string    `json:"user_id" db:"user_id"`
	GroupID  string    `json:"group_id" db:"group_id"`
	Role     GroupRole `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

type Prediction struct {
	ID                 string           `json:"id" db:"id"`
	GroupID            string           `json:"group_id" db:"group_id"`
	CreatorID          string           `json:"creator_id" db:"creator_id"`
	Title              string           `json:"title" db:"title"`
	Description        *string          `json:"description" db:"description"`
	ResolutionCriteria *string          `json:"resolution_criteria" db:"resolution_criteria"`
	ResolutionDate     time.Time        `json:"resolution_date" db:"resolution_date"`
	Status             PredictionStatus `json:"status" db:"status"`
	ResolvedAt         *time.Time       `json:"resolved_at" db:"resolved_at"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

type Forecast struct {
	ID           string    `json:"id" db:"id"`
	PredictionID string    `json:"prediction_id" db:"prediction_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Probability  float64   `json:"probability" db:"probability"`
	Reasoning    *string   `json:"reasoning" db:"reasoning"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ForecastWithPrediction is a forecast joined with the prediction it targets.
// It is the read-only input of the scoring package.
type ForecastWithPrediction struct {
	Forecast   Forecast
	Prediction Prediction
}

// Stats types

type UserStats struct {
	UserID            string   `json:"user_id"`
	Email             string   `json:"email"`
	DisplayName       *string  `json:"display_name"`
	TotalForecasts    int      `json:"total_forecasts"`
	ResolvedForecasts int      `json:"resolved_forecasts"`
	AverageBrierScore *float64 `json:"average_brier_score"` // nil when nothing is scorable
}

type LeaderboardEntry struct {
	Rank              int     `json:"rank"` // 1-indexed ranking
	UserID            string  `json:"user_id"`
	Email             string  `json:"email"`
	DisplayName       *string `json:"display_name"`
	AverageBrierScore float64 `json:"average_brier_score"`
	ForecastCount     int     `json:"forecast_count"`
}

type CalibrationBucket struct {
	BucketStart          float64 `json:"bucket_start"`
	BucketEnd            float64 `json:"bucket_end"`
	PredictedProbability float64 `json:"predicted_probability"`
	ActualFrequency      float64 `json:"actual_frequency"`
	Count                int     `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
