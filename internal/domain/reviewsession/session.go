package reviewsession

import (
	"math"
	"time"

	"github.com/quizkeeper/backend/internal/id"
)

// Session records one timed review batch. Totals stay zero until the
// session is finalized; sessions feed aggregate statistics only and are
// independent of per-question review state.
type Session struct {
	ID           string
	Context      string // optional device/context tag, e.g. "mobile"
	StartedAt    time.Time
	Duration     time.Duration
	TotalItems   int
	CorrectItems int
	Completed    bool
}

// Results holds the metrics derived from a finalized session.
type Results struct {
	TotalItems      int
	CorrectItems    int
	Accuracy        float64 // percentage, rounded to 2 decimals
	TimePerQuestion int     // seconds per item, rounded
}

// New creates a session with zero totals.
func New(context string, now time.Time) *Session {
	return &Session{
		ID:        id.GenerateID(),
		Context:   context,
		StartedAt: now,
	}
}

// Finalize writes the end-of-session totals.
func (s *Session) Finalize(duration time.Duration, totalItems, correctItems int) {
	s.Duration = duration
	s.TotalItems = totalItems
	s.CorrectItems = correctItems
	s.Completed = true
}

// Results derives accuracy and pace. An empty session yields zeros rather
// than a division error.
func (s *Session) Results() Results {
	r := Results{
		TotalItems:   s.TotalItems,
		CorrectItems: s.CorrectItems,
	}
	if s.TotalItems == 0 {
		return r
	}
	r.Accuracy = math.Round(float64(s.CorrectItems)/float64(s.TotalItems)*100*100) / 100
	r.TimePerQuestion = int(math.Round(s.Duration.Seconds() / float64(s.TotalItems)))
	return r
}
