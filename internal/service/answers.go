package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quizkeeper/backend/internal/domain/question"
	"github.com/quizkeeper/backend/internal/domain/review"
)

// QuestionStore is the question lookup the answer flow needs.
type QuestionStore interface {
	GetQuestion(ctx context.Context, id string) (*question.Question, error)
}

// AnswerService grades a submitted choice and keeps review tracking up to
// date as a side effect. Review tracking is best-effort here: the learner
// still gets their verdict if the tracking write fails.
type AnswerService struct {
	questions QuestionStore
	scheduler *ReviewScheduler
	logger    *slog.Logger
}

func NewAnswerService(questions QuestionStore, scheduler *ReviewScheduler, logger *slog.Logger) *AnswerService {
	return &AnswerService{
		questions: questions,
		scheduler: scheduler,
		logger:    logger,
	}
}

// AnswerResult is the learner-facing outcome of one submitted answer.
// Review is nil when the question is not tracked (first-attempt success)
// or when review tracking failed.
type AnswerResult struct {
	QuestionID      string
	ChoiceID        string
	Correct         bool
	CorrectChoiceID string
	Review          *review.Item
}

// SubmitAnswer checks the chosen choice against the stored correct one,
// then records the outcome with the review scheduler. Scheduler failures
// are logged and swallowed; they never fail the answer itself.
func (a *AnswerService) SubmitAnswer(ctx context.Context, questionID, choiceID string, now time.Time) (*AnswerResult, error) {
	q, err := a.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	chosen, ok := q.Choice(choiceID)
	if !ok {
		return nil, &ValidationError{Field: "choice_id", Reason: "not a choice of this question"}
	}

	result := &AnswerResult{
		QuestionID: questionID,
		ChoiceID:   choiceID,
		Correct:    chosen.Correct,
	}
	if correct, ok := q.CorrectChoice(); ok {
		result.CorrectChoiceID = correct.ID
	}

	item, err := a.scheduler.RecordReview(ctx, questionID, chosen.Correct, now)
	if err != nil {
		a.logger.Error("review tracking failed",
			"question_id", questionID,
			"error", err,
		)
		return result, nil
	}
	result.Review = item

	return result, nil
}
