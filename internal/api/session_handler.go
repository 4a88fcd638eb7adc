package api

import (
	"net/http"
	"time"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartSessionRequest struct {
	Context string `json:"context"`
}

type StartSessionResponse struct {
	ID        string    `json:"id"`
	Context   string    `json:"context,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

type EndSessionRequest struct {
	DurationSeconds int `json:"duration_seconds" validate:"min=0"`
	TotalItems      int `json:"total_items" validate:"min=0"`
	CorrectItems    int `json:"correct_items" validate:"min=0"`
}

type EndSessionResponse struct {
	SessionID       string  `json:"session_id"`
	TotalItems      int     `json:"total_items"`
	CorrectItems    int     `json:"correct_items"`
	Accuracy        float64 `json:"accuracy"`
	TimePerQuestion int     `json:"time_per_question"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /review-sessions
func (h *Handler) startReviewSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	session, err := h.tracker.StartSession(r.Context(), req.Context, time.Now())
	if h.handleServiceError(w, err, "review session") {
		return
	}

	respondJSON(w, http.StatusCreated, StartSessionResponse{
		ID:        session.ID,
		Context:   session.Context,
		StartedAt: session.StartedAt,
	})
}

// POST /review-sessions/{sessionID}/complete
func (h *Handler) completeReviewSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	var req EndSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	results, err := h.tracker.EndSession(
		r.Context(), sessionID,
		time.Duration(req.DurationSeconds)*time.Second,
		req.TotalItems, req.CorrectItems,
	)
	if h.handleServiceError(w, err, "review session") {
		return
	}

	respondJSON(w, http.StatusOK, EndSessionResponse{
		SessionID:       sessionID,
		TotalItems:      results.TotalItems,
		CorrectItems:    results.CorrectItems,
		Accuracy:        results.Accuracy,
		TimePerQuestion: results.TimePerQuestion,
	})
}
