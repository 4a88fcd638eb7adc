package question

import (
	"errors"

	"github.com/quizkeeper/backend/internal/id"
)

// Choice is one selectable answer for a question.
type Choice struct {
	ID      string
	Label   string
	Correct bool
}

// Question is a multiple-choice question with an optional category tag.
type Question struct {
	ID       string
	Prompt   string
	Category string // free-form subject tag, may be empty
	Choices  []Choice
}

func New(prompt, category string) *Question {
	return &Question{
		ID:       id.GenerateID(),
		Prompt:   prompt,
		Category: category,
		Choices:  []Choice{},
	}
}

func (q *Question) AddChoice(label string, correct bool) error {
	if label == "" {
		return errors.New("choice label cannot be empty")
	}
	q.Choices = append(q.Choices, Choice{
		ID:      id.GenerateID(),
		Label:   label,
		Correct: correct,
	})
	return nil
}

// Choice returns the choice with the given id.
func (q *Question) Choice(choiceID string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return c, true
		}
	}
	return Choice{}, false
}

// CorrectChoice returns the choice marked correct.
func (q *Question) CorrectChoice() (Choice, bool) {
	for _, c := range q.Choices {
		if c.Correct {
			return c, true
		}
	}
	return Choice{}, false
}
