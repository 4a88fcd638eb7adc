package review

import "time"

// reviewIntervals maps a mastery level (0-5) to the delay before the next
// review: 1 min, 5 min, 30 min, 3 h, 24 h, 3 days.
var reviewIntervals = [...]time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	30 * time.Minute,
	3 * time.Hour,
	24 * time.Hour,
	72 * time.Hour,
}

// IntervalForLevel returns the review delay for a mastery level.
// Out-of-range levels fall back to the level-0 interval.
func IntervalForLevel(level int) time.Duration {
	if level < 0 || level >= len(reviewIntervals) {
		return reviewIntervals[0]
	}
	return reviewIntervals[level]
}
