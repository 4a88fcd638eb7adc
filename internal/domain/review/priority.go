package review

import "math"

// PriorityFor combines mastery level, failure count and staleness into a
// 1-5 urgency score. Lower mastery, more failures and a longer gap since
// the last review all push the score up. This is a simple weighted
// heuristic, not a calibrated model.
func PriorityFor(masteryLevel, wrongCount, daysSinceLastReview int) int {
	p := 1.0
	p += float64(5 - masteryLevel)
	p += math.Min(float64(wrongCount)*0.5, 3)
	p += math.Min(float64(daysSinceLastReview)*0.1, 2)

	result := int(math.Round(p))
	if result < 1 {
		result = 1
	}
	if result > 5 {
		result = 5
	}
	return result
}
