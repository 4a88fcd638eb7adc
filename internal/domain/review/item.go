package review

import "time"

// MaxMasteryLevel is the terminal mastery level. An item that reaches it is
// retired from the due queue but kept for statistics.
const MaxMasteryLevel = 5

// Item tracks the review state of one question. An item exists only for
// questions that have been answered incorrectly at least once; a question
// answered correctly on first attempt never enters the review queue.
// There is at most one Item per question.
type Item struct {
	QuestionID    string
	MasteryLevel  int       // 0 = just failed, 5 = mastered
	ReviewCount   int       // total reviews while tracked
	LastReviewed  time.Time // zero value = never reviewed
	NextReview    time.Time // item is due when now >= NextReview
	WrongCount    int       // cumulative incorrect answers
	CorrectStreak int       // consecutive correct answers, reset on a miss
	Priority      int       // 1-5, recomputed on every review
	IsActive      bool      // false once MasteryLevel reaches 5
}

// NewItem creates the review item for a question's first incorrect answer.
func NewItem(questionID string, now time.Time) *Item {
	return &Item{
		QuestionID:   questionID,
		MasteryLevel: 0,
		ReviewCount:  1,
		LastReviewed: now,
		NextReview:   now.Add(IntervalForLevel(0)),
		WrongCount:   1,
		Priority:     PriorityFor(0, 1, 0),
		IsActive:     true,
	}
}

// Record applies one answer outcome. A correct answer moves the mastery
// level up by one (ceiling 5); an incorrect answer moves it down by one
// (floor 0) and resets the streak. The next review is scheduled by the new
// level's interval, while staleness is measured against the previous
// LastReviewed.
func (it *Item) Record(correct bool, now time.Time) {
	days := it.daysSince(now)

	if correct {
		if it.MasteryLevel < MaxMasteryLevel {
			it.MasteryLevel++
		}
		it.CorrectStreak++
	} else {
		if it.MasteryLevel > 0 {
			it.MasteryLevel--
		}
		it.CorrectStreak = 0
		it.WrongCount++
	}

	it.ReviewCount++
	it.NextReview = now.Add(IntervalForLevel(it.MasteryLevel))
	it.Priority = PriorityFor(it.MasteryLevel, it.WrongCount, days)
	it.IsActive = it.MasteryLevel < MaxMasteryLevel
	it.LastReviewed = now
}

// Due reports whether the item should be shown at the given time.
func (it *Item) Due(now time.Time) bool {
	return it.IsActive && !it.NextReview.After(now)
}

// daysSince returns whole days elapsed since the last review, 0 if the item
// has never been reviewed.
func (it *Item) daysSince(now time.Time) int {
	if it.LastReviewed.IsZero() {
		return 0
	}
	d := int(now.Sub(it.LastReviewed).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
