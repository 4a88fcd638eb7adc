package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type RecordReviewRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	IsCorrect  *bool  `json:"is_correct" validate:"required"`
}

type ReviewItemResponse struct {
	QuestionID    string     `json:"question_id"`
	MasteryLevel  int        `json:"mastery_level"`
	ReviewCount   int        `json:"review_count"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"`
	NextReview    time.Time  `json:"next_review"`
	WrongCount    int        `json:"wrong_count"`
	CorrectStreak int        `json:"correct_streak"`
	Priority      int        `json:"priority"`
	IsActive      bool       `json:"is_active"`
}

type RecordReviewResponse struct {
	Tracked bool                `json:"tracked"`
	Item    *ReviewItemResponse `json:"item,omitempty"`
}

type DueItemResponse struct {
	ReviewItemResponse
	Prompt   string `json:"prompt,omitempty"`
	Category string `json:"category,omitempty"`
}

type DueSummaryResponse struct {
	Urgent int `json:"urgent"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type DueItemsResponse struct {
	Items   []DueItemResponse  `json:"items"`
	Summary DueSummaryResponse `json:"summary"`
}

type ScheduleResponse struct {
	Today               int         `json:"today"`
	Tomorrow            int         `json:"tomorrow"`
	ThisWeek            int         `json:"this_week"`
	TotalActive         int         `json:"total_active"`
	MasteryDistribution map[int]int `json:"mastery_distribution"`
	Recommendations     struct {
		SuggestedDailyReviews int `json:"suggested_daily_reviews"`
		EstimatedTimeMinutes  int `json:"estimated_time_minutes"`
		UrgentItems           int `json:"urgent_items"`
	} `json:"recommendations"`
}

type SessionSummaryResponse struct {
	ID              string    `json:"id"`
	Context         string    `json:"context,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
	TotalItems      int       `json:"total_items"`
	CorrectItems    int       `json:"correct_items"`
	Accuracy        float64   `json:"accuracy"`
}

type CategoryStatsResponse struct {
	Category       string  `json:"category"`
	ActiveItems    int     `json:"active_items"`
	AvgMastery     float64 `json:"avg_mastery"`
	AvgReviewCount float64 `json:"avg_review_count"`
}

type LevelStatsResponse struct {
	Level          int     `json:"level"`
	Count          int     `json:"count"`
	AvgReviewCount float64 `json:"avg_review_count"`
}

type StatsResponse struct {
	PeriodDays      int                      `json:"period_days"`
	TotalSessions   int                      `json:"total_sessions"`
	TotalItems      int                      `json:"total_items"`
	TotalCorrect    int                      `json:"total_correct"`
	AverageAccuracy float64                  `json:"average_accuracy"`
	RecentSessions  []SessionSummaryResponse `json:"recent_sessions"`
	Categories      []CategoryStatsResponse  `json:"categories"`
	MasteryLevels   []LevelStatsResponse     `json:"mastery_levels"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /reviews
//
// The dedicated review flow: updating review state is the whole point of
// this call, so persistence failures propagate as errors. Contrast with
// POST /answers, where review tracking is best-effort.
func (h *Handler) recordReview(w http.ResponseWriter, r *http.Request) {
	var req RecordReviewRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	item, err := h.scheduler.RecordReview(r.Context(), req.QuestionID, *req.IsCorrect, time.Now())
	if h.handleServiceError(w, err, "review item") {
		return
	}

	response := RecordReviewResponse{Tracked: item != nil}
	if item != nil {
		ir := toReviewItemResponse(item)
		response.Item = &ir
	}
	respondJSON(w, http.StatusOK, response)
}

// GET /reviews/due?min_priority=&limit=
func (h *Handler) getDueReviews(w http.ResponseWriter, r *http.Request) {
	minPriority := intQueryParam(r, "min_priority", 1)
	limit := intQueryParam(r, "limit", 0)

	result, err := h.query.DueItems(r.Context(), minPriority, limit, time.Now())
	if h.handleServiceError(w, err, "due reviews") {
		return
	}

	response := DueItemsResponse{
		Items: make([]DueItemResponse, len(result.Items)),
		Summary: DueSummaryResponse{
			Urgent: result.Summary.Urgent,
			Medium: result.Summary.Medium,
			Low:    result.Summary.Low,
		},
	}

	// the scheduler only carries question ids; join the question content here
	for i, item := range result.Items {
		response.Items[i] = DueItemResponse{ReviewItemResponse: toReviewItemResponse(item)}

		q, err := h.store.GetQuestion(r.Context(), item.QuestionID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				h.logger.Error("failed to load question for due item",
					"question_id", item.QuestionID, "error", err)
			}
			continue
		}
		response.Items[i].Prompt = q.Prompt
		response.Items[i].Category = q.Category
	}

	respondJSON(w, http.StatusOK, response)
}

// GET /reviews/schedule
func (h *Handler) getReviewSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.query.Schedule(r.Context(), time.Now())
	if h.handleServiceError(w, err, "review schedule") {
		return
	}

	var response ScheduleResponse
	response.Today = sched.Today
	response.Tomorrow = sched.Tomorrow
	response.ThisWeek = sched.ThisWeek
	response.TotalActive = sched.TotalActive
	response.MasteryDistribution = sched.MasteryDistribution
	response.Recommendations.SuggestedDailyReviews = sched.Recommendations.SuggestedDailyReviews
	response.Recommendations.EstimatedTimeMinutes = sched.Recommendations.EstimatedTimeMinutes
	response.Recommendations.UrgentItems = sched.Recommendations.UrgentItems

	respondJSON(w, http.StatusOK, response)
}

// GET /reviews/stats?period_days=
func (h *Handler) getReviewStats(w http.ResponseWriter, r *http.Request) {
	periodDays := intQueryParam(r, "period_days", 7)

	stats, err := h.query.Stats(r.Context(), periodDays, time.Now())
	if h.handleServiceError(w, err, "review stats") {
		return
	}

	response := StatsResponse{
		PeriodDays:      stats.PeriodDays,
		TotalSessions:   stats.TotalSessions,
		TotalItems:      stats.TotalItems,
		TotalCorrect:    stats.TotalCorrect,
		AverageAccuracy: stats.AverageAccuracy,
		RecentSessions:  make([]SessionSummaryResponse, len(stats.RecentSessions)),
		Categories:      make([]CategoryStatsResponse, len(stats.Categories)),
		MasteryLevels:   make([]LevelStatsResponse, len(stats.MasteryLevels)),
	}
	for i, s := range stats.RecentSessions {
		response.RecentSessions[i] = SessionSummaryResponse{
			ID:              s.ID,
			Context:         s.Context,
			StartedAt:       s.StartedAt,
			DurationSeconds: s.DurationSeconds,
			TotalItems:      s.TotalItems,
			CorrectItems:    s.CorrectItems,
			Accuracy:        s.Accuracy,
		}
	}
	for i, c := range stats.Categories {
		response.Categories[i] = CategoryStatsResponse{
			Category:       c.Category,
			ActiveItems:    c.ActiveItems,
			AvgMastery:     c.AvgMastery,
			AvgReviewCount: c.AvgReviewCount,
		}
	}
	for i, l := range stats.MasteryLevels {
		response.MasteryLevels[i] = LevelStatsResponse{
			Level:          l.Level,
			Count:          l.Count,
			AvgReviewCount: l.AvgReviewCount,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

func toReviewItemResponse(item *review.Item) ReviewItemResponse {
	response := ReviewItemResponse{
		QuestionID:    item.QuestionID,
		MasteryLevel:  item.MasteryLevel,
		ReviewCount:   item.ReviewCount,
		NextReview:    item.NextReview,
		WrongCount:    item.WrongCount,
		CorrectStreak: item.CorrectStreak,
		Priority:      item.Priority,
		IsActive:      item.IsActive,
	}
	if !item.LastReviewed.IsZero() {
		t := item.LastReviewed
		response.LastReviewed = &t
	}
	return response
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
