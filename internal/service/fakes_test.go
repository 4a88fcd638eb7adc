package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/quizkeeper/backend/internal/domain/question"
	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/domain/reviewsession"
	"github.com/quizkeeper/backend/internal/store"
)

// fakeStore is an in-memory stand-in for the SQLite store. Setting failWith
// makes every call fail, for exercising the persistence-error paths.
type fakeStore struct {
	items      map[string]*review.Item
	sessions   map[string]*reviewsession.Session
	questions  map[string]*question.Question
	categories map[string]string // questionID -> category
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:      make(map[string]*review.Item),
		sessions:   make(map[string]*reviewsession.Session),
		questions:  make(map[string]*question.Question),
		categories: make(map[string]string),
	}
}

func (f *fakeStore) GetReviewItem(_ context.Context, questionID string) (*review.Item, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	item, ok := f.items[questionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) UpsertReviewItem(_ context.Context, item *review.Item) error {
	if f.failWith != nil {
		return f.failWith
	}
	cp := *item
	f.items[item.QuestionID] = &cp
	return nil
}

func (f *fakeStore) ListDueReviewItems(_ context.Context, minPriority int, now time.Time, limit int) ([]*review.Item, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var due []*review.Item
	for _, it := range f.items {
		if it.IsActive && it.Priority >= minPriority && !it.NextReview.After(now) {
			cp := *it
			due = append(due, &cp)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority > due[j].Priority
		}
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		return due[i].WrongCount > due[j].WrongCount
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeStore) ListActiveReviewItems(_ context.Context) ([]*review.Item, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var active []*review.Item
	for _, it := range f.items {
		if it.IsActive {
			cp := *it
			active = append(active, &cp)
		}
	}
	return active, nil
}

func (f *fakeStore) ListActiveReviewItemsWithCategory(ctx context.Context) ([]store.ItemWithCategory, error) {
	items, err := f.ListActiveReviewItems(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]store.ItemWithCategory, len(items))
	for i, it := range items {
		rows[i] = store.ItemWithCategory{Item: it, Category: f.categories[it.QuestionID]}
	}
	return rows, nil
}

func (f *fakeStore) SaveReviewSession(_ context.Context, session *reviewsession.Session) error {
	if f.failWith != nil {
		return f.failWith
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeStore) GetReviewSession(_ context.Context, id string) (*reviewsession.Session, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	session, ok := f.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

func (f *fakeStore) UpdateReviewSession(_ context.Context, session *reviewsession.Session) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.sessions[session.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeStore) ListReviewSessionsSince(_ context.Context, since time.Time) ([]*reviewsession.Session, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var result []*reviewsession.Session
	for _, s := range f.sessions {
		if !s.StartedAt.Before(since) {
			cp := *s
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

func (f *fakeStore) GetQuestion(_ context.Context, id string) (*question.Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return q, nil
}

func (f *fakeStore) addQuestion(prompt, category string) *question.Question {
	q := question.New(prompt, category)
	q.AddChoice("right", true)
	q.AddChoice("wrong", false)
	f.questions[q.ID] = q
	f.categories[q.ID] = category
	return q
}
