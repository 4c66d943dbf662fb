// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"time"

	"github.com/danielhkuo/forecast-club/models"
)

// LockInFraction is the share of a prediction's lifetime during which forecasts may be made.
const LockInFraction = 0.75

// LockInAt returns the forecasting deadline: creation time plus 75% of the
// interval up to the resolution date.
// resolutionDate must be after createdAt; otherwise the result is at or before createdAt.
func LockInAt(createdAt, resolutionDate time.Time) time.Time {
	total := resolutionDate.Sub(createdAt)
	return createdAt.Add(time.Duration(float64(total) * LockInFraction))
}

// IsLocked reports whether now is at or past lockInAt.
func IsLocked(now, lockInAt time.Time) bool {
	return !now.Before(lockInAt)
}

// TimeUntilLock returns the time remaining before lockInAt.
// ok is false once the deadline has passed.
func TimeUntilLock(now, lockInAt time.Time) (remaining time.Duration, ok bool) {
	if IsLocked(now, lockInAt) {
		return 0, false
	}
	return lockInAt.Sub(now), true
}

// PredictionLockInAt is LockInAt applied to a stored prediction.
func PredictionLockInAt(p models.Prediction) time.Time {
	return LockInAt(p.CreatedAt, p.ResolutionDate)
}

// LockedIn reports whether a forecast was first committed before its
// prediction's lock-in deadline. Only the creation timestamp counts; edits
// made later do not change eligibility.
func LockedIn(fp models.ForecastWithPrediction) bool {
	return fp.Forecast.CreatedAt.Before(PredictionLockInAt(fp.Prediction))
}
