// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/forecast-club/auth"
	"github.com/danielhkuo/forecast-club/cliparse"
	"github.com/danielhkuo/forecast-club/db"
	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/store"
)

// T0 is a fixed reference time for fixtures that need deterministic lock-in math.
var T0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// GetTestConfig returns a standard test configuration backed by in-memory SQLite
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           8000,
		DatabaseURL:    ":memory:",
		DatabaseType:   cliparse.DatabaseSQLite,
		SecretKey:      "test-secret-key",
		AccessTokenTTL: time.Hour,
		MagicLinkTTL:   15 * time.Minute,
		MagicLinkRate:  100,
		BaseURL:        "http://localhost:8000",
		LogLevel:       "info",
	}
}

// SetupTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own database, closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// CreateTestUser creates a user with the given email
func CreateTestUser(t *testing.T, repo store.Repository, email string) models.User {
	t.Helper()

	user, err := repo.GetOrCreateUser(context.Background(), email, T0)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return *user
}

// CreateTestGroup creates a group with adminID as its admin member
func CreateTestGroup(t *testing.T, repo store.Repository, adminID, name string) models.Group {
	t.Helper()

	code, err := auth.GenerateInviteCode()
	if err != nil {
		t.Fatalf("Failed to generate invite code: %v", err)
	}

	group := models.Group{
		ID:         uuid.NewString(),
		Name:       name,
		InviteCode: code,
		CreatedAt:  T0,
	}
	if err := repo.CreateGroup(context.Background(), group, adminID); err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return group
}

// AddTestMember adds a user to a group with the given role
func AddTestMember(t *testing.T, repo store.Repository, groupID, userID string, role models.GroupRole) {
	t.Helper()

	err := repo.AddMembership(context.Background(), models.Membership{
		UserID:   userID,
		GroupID:  groupID,
		Role:     role,
		JoinedAt: T0.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// CreateTestPrediction creates an open prediction with explicit timestamps
func CreateTestPrediction(t *testing.T, repo store.Repository, groupID, creatorID string, createdAt, resolutionDate time.Time) models.Prediction {
	t.Helper()

	p := models.Prediction{
		ID:             uuid.NewString(),
		GroupID:        groupID,
		CreatorID:      creatorID,
		Title:          "Will it happen?",
		ResolutionDate: resolutionDate.UTC(),
		Status:         models.StatusOpen,
		CreatedAt:      createdAt.UTC(),
	}
	if err := repo.CreatePrediction(context.Background(), p); err != nil {
		t.Fatalf("Failed to create test prediction: %v", err)
	}
	return p
}

// CreateTestForecast creates a forecast made at createdAt
func CreateTestForecast(t *testing.T, repo store.Repository, predictionID, userID string, probability float64, createdAt time.Time) models.Forecast {
	t.Helper()

	f := models.Forecast{
		ID:           uuid.NewString(),
		PredictionID: predictionID,
		UserID:       userID,
		Probability:  probability,
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    createdAt.UTC(),
	}
	if err := repo.CreateForecast(context.Background(), f); err != nil {
		t.Fatalf("Failed to create test forecast: %v", err)
	}
	return f
}

// ResolveTestPrediction resolves a prediction with the given outcome
func ResolveTestPrediction(t *testing.T, repo store.Repository, predictionID string, outcome models.PredictionStatus, at time.Time) {
	t.Helper()

	if _, err := repo.ResolvePrediction(context.Background(), predictionID, outcome, at); err != nil {
		t.Fatalf("Failed to resolve test prediction: %v", err)
	}
}

// AuthHeader returns an Authorization header carrying an access token for userID
func AuthHeader(t *testing.T, cfg cliparse.Config, userID string) map[string]string {
	t.Helper()

	issuer := auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.MagicLinkTTL)
	token, err := issuer.CreateAccessToken(userID)
	if err != nil {
		t.Fatalf("Failed to create access token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
