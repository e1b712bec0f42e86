package review

import "math"

// WeightedAverage computes the weighted score across KRAs: the arithmetic
// mean of each KRA's ratings multiplied by its weightage over 100, summed.
// A nil rating counts as zero in the mean. KRAs with no ratings contribute
// nothing regardless of configured weightage, and weights are not rescaled
// when they do not sum to 100.
func WeightedAverage(ratingsByKRA map[string][]*int, weightageByKRA map[string]float64) float64 {
	var total float64
	for kraID, ratings := range ratingsByKRA {
		if len(ratings) == 0 {
			continue
		}
		var sum float64
		for _, r := range ratings {
			if r != nil {
				sum += float64(*r)
			}
		}
		mean := sum / float64(len(ratings))
		total += mean * weightageByKRA[kraID] / 100
	}
	return Round2(total)
}

// GroupRatings buckets submission ratings by KRA id for aggregation.
func GroupRatings(ratings []KRARating) map[string][]*int {
	grouped := make(map[string][]*int, len(ratings))
	for _, r := range ratings {
		grouped[r.KRAID] = append(grouped[r.KRAID], r.Rating)
	}
	return grouped
}

// Round2 rounds half-to-even at two decimal places. Stored scores are
// fixed-point to two decimals so recomputed values compare equal.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
