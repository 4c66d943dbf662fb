// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"github.com/montanaflynn/stats"

	"github.com/danielhkuo/forecast-club/models"
)

// Pair is a stated probability together with the outcome it is judged against.
type Pair struct {
	Probability float64
	Outcome     models.PredictionStatus
}

// actual maps a scorable outcome to its realized value.
func actual(outcome models.PredictionStatus) (float64, bool) {
	switch outcome {
	case models.StatusResolvedYes:
		return 1.0, true
	case models.StatusResolvedNo:
		return 0.0, true
	}
	return 0, false
}

// Score returns the Brier score (p - actual)² for a single forecast.
//
//	0    = perfect
//	0.25 = no information (always 50%)
//	1    = maximally wrong
//
// ok is false when the outcome cannot be scored (ambiguous, or still open).
func Score(probability float64, outcome models.PredictionStatus) (score float64, ok bool) {
	a, ok := actual(outcome)
	if !ok {
		return 0, false
	}
	d := probability - a
	return d * d, true
}

// Average returns the mean Brier score over the scorable pairs.
// ok is false when pairs is empty or every entry is excluded.
func Average(pairs []Pair) (avg float64, ok bool) {
	scores := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if s, ok := Score(p.Probability, p.Outcome); ok {
			scores = append(scores, s)
		}
	}
	if len(scores) == 0 {
		return 0, false
	}

	avg, err := stats.Mean(scores)
	if err != nil {
		return 0, false
	}
	return avg, true
}

// ScoreForecast scores a stored forecast against its prediction's current status.
func ScoreForecast(fp models.ForecastWithPrediction) (float64, bool) {
	return Score(fp.Forecast.Probability, fp.Prediction.Status)
}
