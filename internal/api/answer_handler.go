package api

import (
	"net/http"
	"time"
)

// ── Request / Response types ────────────────────────────────────────────────

type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	ChoiceID   string `json:"choice_id" validate:"required"`
}

type SubmitAnswerResponse struct {
	QuestionID      string              `json:"question_id"`
	Correct         bool                `json:"correct"`
	CorrectChoiceID string              `json:"correct_choice_id"`
	Review          *ReviewItemResponse `json:"review,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /answers
//
// The primary answer-submission flow. Review tracking runs as a side
// effect and is best-effort: the learner sees their verdict even if the
// review-state write failed (the service logs those).
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	result, err := h.answers.SubmitAnswer(r.Context(), req.QuestionID, req.ChoiceID, time.Now())
	if h.handleServiceError(w, err, "question") {
		return
	}

	response := SubmitAnswerResponse{
		QuestionID:      result.QuestionID,
		Correct:         result.Correct,
		CorrectChoiceID: result.CorrectChoiceID,
	}
	if result.Review != nil {
		ir := toReviewItemResponse(result.Review)
		response.Review = &ir
	}

	respondJSON(w, http.StatusOK, response)
}
