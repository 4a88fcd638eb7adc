// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quizkeeper/backend/internal/service"
	"github.com/quizkeeper/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store     *store.SQLiteStore
	scheduler *service.ReviewScheduler
	query     *service.ReviewQueryEngine
	tracker   *service.ReviewSessionTracker
	answers   *service.AnswerService
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(
	s *store.SQLiteStore,
	scheduler *service.ReviewScheduler,
	query *service.ReviewQueryEngine,
	tracker *service.ReviewSessionTracker,
	answers *service.AnswerService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		store:     s,
		scheduler: scheduler,
		query:     query,
		tracker:   tracker,
		answers:   answers,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes and validates a request body. Returns false if an
// error response has already been written.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the appropriate
// HTTP response. Returns true if an error was handled (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, entity+" not found", http.StatusNotFound)
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}

// handleServiceError maps service-layer errors: validation failures become
// 400s, missing entities 404s, persistence failures 500s.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return true
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, entity+" not found", http.StatusNotFound)
		return true
	}
	h.logger.Error("service error", "error", err, "entity", entity)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}
