package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/domain/reviewsession"
	"github.com/quizkeeper/backend/internal/store"
)

const (
	// recentSessionsCap limits the "recent sessions" list in Stats.
	recentSessionsCap = 10

	// minutesPerItem is the fixed review-time assumption behind the
	// schedule recommendation.
	minutesPerItem = 2

	defaultStatsPeriodDays = 7
)

// QueryStore is the read-side persistence the query engine needs.
type QueryStore interface {
	ListDueReviewItems(ctx context.Context, minPriority int, now time.Time, limit int) ([]*review.Item, error)
	ListActiveReviewItems(ctx context.Context) ([]*review.Item, error)
	ListActiveReviewItemsWithCategory(ctx context.Context) ([]store.ItemWithCategory, error)
	ListReviewSessionsSince(ctx context.Context, since time.Time) ([]*reviewsession.Session, error)
}

// ReviewQueryEngine answers "what is due" and "how am I doing" over the
// review items written by the scheduler. Due status is computed lazily from
// the caller-supplied reference time; there is no running clock here.
type ReviewQueryEngine struct {
	store QueryStore
}

func NewReviewQueryEngine(s QueryStore) *ReviewQueryEngine {
	return &ReviewQueryEngine{store: s}
}

// ── Due items ───────────────────────────────────────────────────────────────

type DueSummary struct {
	Urgent int // priority >= 4
	Medium int // priority == 3
	Low    int // priority <= 2
}

type DueResult struct {
	Items   []*review.Item
	Summary DueSummary
}

// DueItems returns active items due at the given time with at least the
// given priority, ordered by priority desc, then next-review asc, then
// wrong-count desc. The summary counts are computed over the returned set,
// not the whole table.
func (q *ReviewQueryEngine) DueItems(ctx context.Context, minPriority, limit int, now time.Time) (*DueResult, error) {
	if minPriority < 1 {
		minPriority = 1
	}

	items, err := q.store.ListDueReviewItems(ctx, minPriority, now, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list due review items", Wrapped: err}
	}

	result := &DueResult{Items: items}
	for _, it := range items {
		switch {
		case it.Priority >= 4:
			result.Summary.Urgent++
		case it.Priority == 3:
			result.Summary.Medium++
		default:
			result.Summary.Low++
		}
	}
	return result, nil
}

// ── Schedule ────────────────────────────────────────────────────────────────

type Recommendations struct {
	SuggestedDailyReviews int
	EstimatedTimeMinutes  int
	UrgentItems           int
}

type Schedule struct {
	Today               int // due now
	Tomorrow            int // due within the next 24h
	ThisWeek            int // due between 24h and 7d out
	TotalActive         int
	MasteryDistribution map[int]int
	Recommendations     Recommendations
}

// Schedule buckets the active items by when they come due. Items further
// out than a week are counted in TotalActive only.
func (q *ReviewQueryEngine) Schedule(ctx context.Context, now time.Time) (*Schedule, error) {
	items, err := q.store.ListActiveReviewItems(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list active review items", Wrapped: err}
	}

	sched := &Schedule{MasteryDistribution: make(map[int]int, review.MaxMasteryLevel+1)}
	for level := 0; level <= review.MaxMasteryLevel; level++ {
		sched.MasteryDistribution[level] = 0
	}

	dayOut := now.Add(24 * time.Hour)
	weekOut := now.Add(7 * 24 * time.Hour)

	for _, it := range items {
		sched.TotalActive++
		sched.MasteryDistribution[it.MasteryLevel]++

		switch {
		case !it.NextReview.After(now):
			sched.Today++
			if it.Priority >= 4 {
				sched.Recommendations.UrgentItems++
			}
		case !it.NextReview.After(dayOut):
			sched.Tomorrow++
		case !it.NextReview.After(weekOut):
			sched.ThisWeek++
		}
	}

	// deliberate floor of 5: suggest a minimum daily batch even with an
	// empty queue
	suggested := sched.Today
	if suggested < 5 {
		suggested = 5
	}
	if suggested > 20 {
		suggested = 20
	}
	sched.Recommendations.SuggestedDailyReviews = suggested
	sched.Recommendations.EstimatedTimeMinutes = sched.Today * minutesPerItem

	return sched, nil
}

// ── Stats ───────────────────────────────────────────────────────────────────

type SessionSummary struct {
	ID              string
	Context         string
	StartedAt       time.Time
	DurationSeconds int
	TotalItems      int
	CorrectItems    int
	Accuracy        float64
}

type CategoryStats struct {
	Category       string
	ActiveItems    int
	AvgMastery     float64
	AvgReviewCount float64
}

type LevelStats struct {
	Level          int
	Count          int
	AvgReviewCount float64
}

type Stats struct {
	PeriodDays      int
	TotalSessions   int
	TotalItems      int
	TotalCorrect    int
	AverageAccuracy float64
	RecentSessions  []SessionSummary // most recent first, capped at 10
	Categories      []CategoryStats  // over all currently-active items
	MasteryLevels   []LevelStats     // histogram, index = level
}

// Stats aggregates the sessions of the period plus category and mastery
// breakdowns over all currently-active items (the item breakdowns are not
// time-filtered).
func (q *ReviewQueryEngine) Stats(ctx context.Context, periodDays int, now time.Time) (*Stats, error) {
	if periodDays <= 0 {
		periodDays = defaultStatsPeriodDays
	}

	sessions, err := q.store.ListReviewSessionsSince(ctx, now.AddDate(0, 0, -periodDays))
	if err != nil {
		return nil, &PersistenceError{Op: "list review sessions", Wrapped: err}
	}

	stats := &Stats{PeriodDays: periodDays}
	for _, s := range sessions {
		stats.TotalSessions++
		stats.TotalItems += s.TotalItems
		stats.TotalCorrect += s.CorrectItems

		if len(stats.RecentSessions) < recentSessionsCap {
			r := s.Results()
			stats.RecentSessions = append(stats.RecentSessions, SessionSummary{
				ID:              s.ID,
				Context:         s.Context,
				StartedAt:       s.StartedAt,
				DurationSeconds: int(s.Duration.Seconds()),
				TotalItems:      s.TotalItems,
				CorrectItems:    s.CorrectItems,
				Accuracy:        r.Accuracy,
			})
		}
	}
	if stats.TotalItems > 0 {
		stats.AverageAccuracy = round2(float64(stats.TotalCorrect) / float64(stats.TotalItems) * 100)
	}

	rows, err := q.store.ListActiveReviewItemsWithCategory(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list active review items", Wrapped: err}
	}

	stats.Categories = categoryBreakdown(rows)
	stats.MasteryLevels = masteryBreakdown(rows)
	return stats, nil
}

func categoryBreakdown(rows []store.ItemWithCategory) []CategoryStats {
	type acc struct {
		count   int
		mastery int
		reviews int
	}
	byCategory := make(map[string]*acc)
	for _, r := range rows {
		cat := r.Category
		if cat == "" {
			cat = "uncategorized"
		}
		a := byCategory[cat]
		if a == nil {
			a = &acc{}
			byCategory[cat] = a
		}
		a.count++
		a.mastery += r.Item.MasteryLevel
		a.reviews += r.Item.ReviewCount
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]CategoryStats, 0, len(names))
	for _, name := range names {
		a := byCategory[name]
		result = append(result, CategoryStats{
			Category:       name,
			ActiveItems:    a.count,
			AvgMastery:     round2(float64(a.mastery) / float64(a.count)),
			AvgReviewCount: round2(float64(a.reviews) / float64(a.count)),
		})
	}
	return result
}

func masteryBreakdown(rows []store.ItemWithCategory) []LevelStats {
	counts := make([]int, review.MaxMasteryLevel+1)
	reviews := make([]int, review.MaxMasteryLevel+1)
	for _, r := range rows {
		level := r.Item.MasteryLevel
		if level < 0 || level > review.MaxMasteryLevel {
			continue
		}
		counts[level]++
		reviews[level] += r.Item.ReviewCount
	}

	result := make([]LevelStats, review.MaxMasteryLevel+1)
	for level := range result {
		result[level] = LevelStats{Level: level, Count: counts[level]}
		if counts[level] > 0 {
			result[level].AvgReviewCount = round2(float64(reviews[level]) / float64(counts[level]))
		}
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
