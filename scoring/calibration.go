// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"github.com/montanaflynn/stats"

	"github.com/danielhkuo/forecast-club/models"
)

// DefaultBucketCount is the number of calibration buckets used when none is given.
const DefaultBucketCount = 10

// bucketIndex assigns p to one of n equal-width buckets. The last bucket is
// closed on the right so that p == 1 lands in it.
func bucketIndex(p float64, n int) int {
	idx := int(p * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Calibrate groups scorable pairs into bucketCount probability buckets and
// compares the mean stated probability with the observed yes-frequency in each.
// Empty buckets are omitted; the rest are returned in ascending order.
// A non-positive bucketCount falls back to DefaultBucketCount.
func Calibrate(pairs []Pair, bucketCount int) []models.CalibrationBucket {
	if bucketCount <= 0 {
		bucketCount = DefaultBucketCount
	}

	predicted := make([][]float64, bucketCount)
	actuals := make([][]float64, bucketCount)
	for _, p := range pairs {
		a, ok := actual(p.Outcome)
		if !ok {
			continue
		}
		i := bucketIndex(p.Probability, bucketCount)
		predicted[i] = append(predicted[i], p.Probability)
		actuals[i] = append(actuals[i], a)
	}

	result := []models.CalibrationBucket{}
	for i := 0; i < bucketCount; i++ {
		if len(predicted[i]) == 0 {
			continue
		}

		// Mean only fails on empty input, which is ruled out above.
		predictedAvg, _ := stats.Mean(predicted[i])
		actualFreq, _ := stats.Mean(actuals[i])

		result = append(result, models.CalibrationBucket{
			BucketStart:          float64(i) / float64(bucketCount),
			BucketEnd:            float64(i+1) / float64(bucketCount),
			PredictedProbability: predictedAvg,
			ActualFrequency:      actualFreq,
			Count:                len(predicted[i]),
		})
	}

	return result
}
