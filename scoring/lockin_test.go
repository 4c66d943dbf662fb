// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/forecast-club/models"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestLockInAt(t *testing.T) {
	tests := []struct {
		name     string
		created  time.Time
		resolves time.Time
		want     time.Time
	}{
		{"100 seconds", t0, t0.Add(100 * time.Second), t0.Add(75 * time.Second)},
		{"four days", t0, t0.Add(96 * time.Hour), t0.Add(72 * time.Hour)},
		{"one minute", t0, t0.Add(time.Minute), t0.Add(45 * time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LockInAt(tt.created, tt.resolves)
			if !got.Equal(tt.want) {
				t.Errorf("LockInAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLocked(t *testing.T) {
	lockInAt := LockInAt(t0, t0.Add(100*time.Second))

	assert.False(t, IsLocked(t0, lockInAt))
	assert.False(t, IsLocked(t0.Add(74900*time.Millisecond), lockInAt))
	assert.True(t, IsLocked(t0.Add(75*time.Second), lockInAt), "locked exactly at the deadline")
	assert.True(t, IsLocked(t0.Add(75*time.Second+time.Nanosecond), lockInAt))
	assert.True(t, IsLocked(t0.Add(200*time.Second), lockInAt), "locked after resolution date")
}

func TestTimeUntilLock(t *testing.T) {
	lockInAt := t0.Add(75 * time.Second)

	remaining, ok := TimeUntilLock(t0.Add(70*time.Second), lockInAt)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, remaining)

	remaining, ok = TimeUntilLock(lockInAt, lockInAt)
	assert.False(t, ok)
	assert.Zero(t, remaining)
}

func TestLockedIn_UsesCreationTimestamp(t *testing.T) {
	prediction := models.Prediction{
		ID:             "p1",
		CreatedAt:      t0,
		ResolutionDate: t0.Add(100 * time.Hour),
		Status:         models.StatusResolvedYes,
	}

	tests := []struct {
		name      string
		createdAt time.Time
		updatedAt time.Time
		want      bool
	}{
		{"created early, never edited", t0.Add(time.Hour), t0.Add(time.Hour), true},
		{"created early, edited after lock-in", t0.Add(time.Hour), t0.Add(90 * time.Hour), true},
		{"created exactly at lock-in", t0.Add(75 * time.Hour), t0.Add(75 * time.Hour), false},
		{"created after lock-in", t0.Add(80 * time.Hour), t0.Add(80 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := models.ForecastWithPrediction{
				Forecast: models.Forecast{
					PredictionID: prediction.ID,
					Probability:  0.7,
					CreatedAt:    tt.createdAt,
					UpdatedAt:    tt.updatedAt,
				},
				Prediction: prediction,
			}
			assert.Equal(t, tt.want, LockedIn(fp))
		})
	}
}
