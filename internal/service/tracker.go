package service

import (
	"context"
	"errors"
	"time"

	"github.com/quizkeeper/backend/internal/domain/reviewsession"
	"github.com/quizkeeper/backend/internal/store"
)

// SessionStore is the persistence the tracker needs.
type SessionStore interface {
	SaveReviewSession(ctx context.Context, session *reviewsession.Session) error
	GetReviewSession(ctx context.Context, id string) (*reviewsession.Session, error)
	UpdateReviewSession(ctx context.Context, session *reviewsession.Session) error
}

// ReviewSessionTracker records the start and end of timed review batches.
// Sessions only feed aggregate reporting; they do not touch per-question
// review state.
type ReviewSessionTracker struct {
	store SessionStore
}

func NewReviewSessionTracker(s SessionStore) *ReviewSessionTracker {
	return &ReviewSessionTracker{store: s}
}

// StartSession creates a session with zero totals.
func (t *ReviewSessionTracker) StartSession(ctx context.Context, contextTag string, now time.Time) (*reviewsession.Session, error) {
	session := reviewsession.New(contextTag, now)
	if err := t.store.SaveReviewSession(ctx, session); err != nil {
		return nil, &PersistenceError{Op: "save review session", Wrapped: err}
	}
	return session, nil
}

// EndSession writes the final totals onto the session and returns the
// derived metrics. Ending an unknown session returns store.ErrNotFound.
func (t *ReviewSessionTracker) EndSession(ctx context.Context, sessionID string, duration time.Duration, totalItems, correctItems int) (reviewsession.Results, error) {
	if sessionID == "" {
		return reviewsession.Results{}, &ValidationError{Field: "session_id", Reason: "must not be empty"}
	}
	if totalItems < 0 || correctItems < 0 {
		return reviewsession.Results{}, &ValidationError{Field: "totals", Reason: "must not be negative"}
	}
	if correctItems > totalItems {
		return reviewsession.Results{}, &ValidationError{Field: "correct_items", Reason: "cannot exceed total items"}
	}

	session, err := t.store.GetReviewSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return reviewsession.Results{}, err
	}
	if err != nil {
		return reviewsession.Results{}, &PersistenceError{Op: "load review session", Wrapped: err}
	}

	session.Finalize(duration, totalItems, correctItems)
	if err := t.store.UpdateReviewSession(ctx, session); err != nil {
		return reviewsession.Results{}, &PersistenceError{Op: "update review session", Wrapped: err}
	}
	return session.Results(), nil
}
