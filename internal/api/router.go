// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Questions
	mux.HandleFunc("POST /questions", h.createQuestion)
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
	mux.HandleFunc("DELETE /questions/{questionID}", h.deleteQuestion)

	// Answers (review tracking is best-effort here)
	mux.HandleFunc("POST /answers", h.submitAnswer)

	// Reviews (tracking failures are errors here)
	mux.HandleFunc("POST /reviews", h.recordReview)
	mux.HandleFunc("GET /reviews/due", h.getDueReviews)
	mux.HandleFunc("GET /reviews/schedule", h.getReviewSchedule)
	mux.HandleFunc("GET /reviews/stats", h.getReviewStats)

	// Review sessions
	mux.HandleFunc("POST /review-sessions", h.startReviewSession)
	mux.HandleFunc("POST /review-sessions/{sessionID}/complete", h.completeReviewSession)
}
