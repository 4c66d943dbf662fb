// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring implements forecast lock-in and Brier scoring.

Everything here is a pure function over in-memory records; callers load
forecasts and predictions from the store first. Nothing is cached, since
lock-in depends on the current time.

# Lock-in

A prediction locks at 75% of the way from creation to its resolution date:

	lockInAt := scoring.LockInAt(p.CreatedAt, p.ResolutionDate)
	locked := scoring.IsLocked(time.Now(), lockInAt)

A forecast counts toward scores only if it was created before lock-in.
Edits keep the original creation time for this check, but the edited
probability is what gets scored.

# Brier Score

	score, ok := scoring.Score(0.9, models.StatusResolvedYes) // 0.01, true
	_, ok = scoring.Score(0.9, models.StatusAmbiguous)        // excluded

Average returns ok == false for empty or all-ambiguous input, so "no data"
is never confused with a perfect score of 0.

# Calibration

Calibrate buckets forecasts by stated probability (10 buckets by default)
and reports predicted probability against observed frequency per bucket.

# Leaderboard

Leaderboard ranks group members by average score over their locked-in
forecasts on resolved predictions. Lower is better; rank is 1-indexed.
*/
package scoring
