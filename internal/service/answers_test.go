package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quizkeeper/backend/internal/service"
	"github.com/quizkeeper/backend/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmitAnswer_CorrectFirstAttempt(t *testing.T) {
	fs := newFakeStore()
	q := fs.addQuestion("Prompt", "go")
	answers := service.NewAnswerService(fs, service.NewReviewScheduler(fs), discardLogger())

	result, err := answers.SubmitAnswer(context.Background(), q.ID, q.Choices[0].ID, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected answer to be judged correct")
	}
	if result.Review != nil {
		t.Error("expected no review item for a first-attempt success")
	}
	if result.CorrectChoiceID != q.Choices[0].ID {
		t.Errorf("unexpected correct choice id %q", result.CorrectChoiceID)
	}
}

func TestSubmitAnswer_IncorrectCreatesReviewItem(t *testing.T) {
	fs := newFakeStore()
	q := fs.addQuestion("Prompt", "go")
	answers := service.NewAnswerService(fs, service.NewReviewScheduler(fs), discardLogger())

	result, err := answers.SubmitAnswer(context.Background(), q.ID, q.Choices[1].ID, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected answer to be judged incorrect")
	}
	if result.Review == nil {
		t.Fatal("expected a review item for a failure")
	}
	if result.Review.WrongCount != 1 || result.Review.MasteryLevel != 0 {
		t.Errorf("unexpected review state: %+v", result.Review)
	}
}

func TestSubmitAnswer_UnknownQuestion(t *testing.T) {
	fs := newFakeStore()
	answers := service.NewAnswerService(fs, service.NewReviewScheduler(fs), discardLogger())

	_, err := answers.SubmitAnswer(context.Background(), "missing", "c1", t0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitAnswer_UnknownChoice(t *testing.T) {
	fs := newFakeStore()
	q := fs.addQuestion("Prompt", "go")
	answers := service.NewAnswerService(fs, service.NewReviewScheduler(fs), discardLogger())

	_, err := answers.SubmitAnswer(context.Background(), q.ID, "not-a-choice", t0)
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

// Review-tracking failures must not fail the answer flow: the learner still
// gets their verdict, the error is only logged. The dedicated review flow
// (ReviewScheduler.RecordReview called directly) surfaces the same failure.
func TestSubmitAnswer_SwallowsTrackingFailure(t *testing.T) {
	questions := newFakeStore()
	q := questions.addQuestion("Prompt", "go")

	broken := newFakeStore()
	broken.failWith = errors.New("disk on fire")
	scheduler := service.NewReviewScheduler(broken)

	answers := service.NewAnswerService(questions, scheduler, discardLogger())

	result, err := answers.SubmitAnswer(context.Background(), q.ID, q.Choices[1].ID, t0)
	if err != nil {
		t.Fatalf("answer flow must not fail on tracking errors, got %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect verdict")
	}
	if result.Review != nil {
		t.Error("expected no review item when tracking failed")
	}

	// same failure propagates on the dedicated review path
	_, err = scheduler.RecordReview(context.Background(), q.ID, false, t0)
	var perr *service.PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("expected PersistenceError from the review flow, got %v", err)
	}
}
