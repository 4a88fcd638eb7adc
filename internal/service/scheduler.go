package service

import (
	"context"
	"errors"
	"time"

	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/store"
)

// ItemStore is the persistence the scheduler needs: get and upsert keyed by
// question id.
type ItemStore interface {
	GetReviewItem(ctx context.Context, questionID string) (*review.Item, error)
	UpsertReviewItem(ctx context.Context, item *review.Item) error
}

// ReviewScheduler decides, for every question a learner has gotten wrong,
// when it should be shown again and how urgently. It is stateless between
// calls; all durable state lives in the store.
type ReviewScheduler struct {
	store ItemStore
}

func NewReviewScheduler(s ItemStore) *ReviewScheduler {
	return &ReviewScheduler{store: s}
}

// RecordReview applies one answer outcome to the question's review item.
//
// A question with no item that is answered correctly never enters the
// review system: the call returns (nil, nil). A first incorrect answer
// creates the item; any later answer steps the existing item through the
// mastery state machine. Store failures are returned as *PersistenceError.
func (s *ReviewScheduler) RecordReview(ctx context.Context, questionID string, isCorrect bool, now time.Time) (*review.Item, error) {
	if questionID == "" {
		return nil, &ValidationError{Field: "question_id", Reason: "must not be empty"}
	}

	item, err := s.store.GetReviewItem(ctx, questionID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if isCorrect {
			// first-attempt success, nothing to track
			return nil, nil
		}
		item = review.NewItem(questionID, now)
	case err != nil:
		return nil, &PersistenceError{Op: "load review item", Wrapped: err}
	default:
		item.Record(isCorrect, now)
	}

	if err := s.store.UpsertReviewItem(ctx, item); err != nil {
		return nil, &PersistenceError{Op: "save review item", Wrapped: err}
	}
	return item, nil
}
