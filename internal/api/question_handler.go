package api

import (
	"net/http"

	"github.com/quizkeeper/backend/internal/domain/question"
)

// ── Request / Response types ────────────────────────────────────────────────

type ChoiceRequest struct {
	Label   string `json:"label" validate:"required"`
	Correct bool   `json:"correct"`
}

type CreateQuestionRequest struct {
	Prompt   string          `json:"prompt" validate:"required"`
	Category string          `json:"category"`
	Choices  []ChoiceRequest `json:"choices" validate:"required,min=2,dive"`
}

type ChoiceResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type QuestionResponse struct {
	ID       string           `json:"id"`
	Prompt   string           `json:"prompt"`
	Category string           `json:"category,omitempty"`
	Choices  []ChoiceResponse `json:"choices,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /questions
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	correctCount := 0
	for _, c := range req.Choices {
		if c.Correct {
			correctCount++
		}
	}
	if correctCount != 1 {
		http.Error(w, "exactly one choice must be marked correct", http.StatusBadRequest)
		return
	}

	q := question.New(req.Prompt, req.Category)
	for _, c := range req.Choices {
		if err := q.AddChoice(c.Label, c.Correct); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := h.store.SaveQuestion(r.Context(), q); err != nil {
		h.logger.Error("failed to save question", "error", err)
		http.Error(w, "failed to save question", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, toQuestionResponse(q))
}

// GET /questions
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.ListQuestions(r.Context())
	if err != nil {
		h.logger.Error("failed to load questions", "error", err)
		http.Error(w, "failed to load questions", http.StatusInternalServerError)
		return
	}

	response := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		response[i] = toQuestionResponse(q)
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /questions/{questionID}
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.GetQuestion(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q))
}

// DELETE /questions/{questionID}
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteQuestion(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toQuestionResponse(q *question.Question) QuestionResponse {
	choices := make([]ChoiceResponse, len(q.Choices))
	for i, c := range q.Choices {
		// correctness is deliberately not exposed on the read path
		choices[i] = ChoiceResponse{ID: c.ID, Label: c.Label}
	}
	return QuestionResponse{
		ID:       q.ID,
		Prompt:   q.Prompt,
		Category: q.Category,
		Choices:  choices,
	}
}
