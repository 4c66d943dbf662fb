// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"sort"

	"github.com/danielhkuo/forecast-club/models"
)

// ScoredPairs keeps the forecasts whose prediction has resolved and that were
// locked in, and returns them as (probability, outcome) pairs.
func ScoredPairs(records []models.ForecastWithPrediction) []Pair {
	pairs := make([]Pair, 0, len(records))
	for _, r := range records {
		if !r.Prediction.Status.Terminal() || !LockedIn(r) {
			continue
		}
		pairs = append(pairs, Pair{Probability: r.Forecast.Probability, Outcome: r.Prediction.Status})
	}
	return pairs
}

// Summarize builds a user's stats from all of their forecast records.
func Summarize(user models.User, records []models.ForecastWithPrediction) models.UserStats {
	pairs := ScoredPairs(records)

	stats := models.UserStats{
		UserID:            user.ID,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		TotalForecasts:    len(records),
		ResolvedForecasts: len(pairs),
	}
	if avg, ok := Average(pairs); ok {
		stats.AverageBrierScore = &avg
	}
	return stats
}

// Leaderboard ranks group members by average Brier score, lowest first.
//
// forecastsByMember is keyed by user ID. A forecast qualifies when its
// prediction is in resolvedPredictionIDs and it was locked in. Members with
// no qualifying forecasts, or whose qualifying forecasts are all ambiguous,
// are left out. Ties keep the order of members.
func Leaderboard(
	members []models.GroupMember,
	forecastsByMember map[string][]models.ForecastWithPrediction,
	resolvedPredictionIDs map[string]struct{},
) []models.LeaderboardEntry {
	entries := []models.LeaderboardEntry{}

	for _, m := range members {
		var pairs []Pair
		for _, r := range forecastsByMember[m.UserID] {
			if _, resolved := resolvedPredictionIDs[r.Prediction.ID]; !resolved {
				continue
			}
			if !LockedIn(r) {
				continue
			}
			pairs = append(pairs, Pair{Probability: r.Forecast.Probability, Outcome: r.Prediction.Status})
		}
		if len(pairs) == 0 {
			continue
		}

		avg, ok := Average(pairs)
		if !ok {
			continue
		}

		entries = append(entries, models.LeaderboardEntry{
			UserID:            m.UserID,
			Email:             m.Email,
			DisplayName:       m.DisplayName,
			AverageBrierScore: avg,
			ForecastCount:     len(pairs),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageBrierScore < entries[j].AverageBrierScore
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
