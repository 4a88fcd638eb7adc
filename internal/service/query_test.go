package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/domain/reviewsession"
	"github.com/quizkeeper/backend/internal/service"
)

func seedItem(fs *fakeStore, id string, priority, mastery, wrongCount int, nextReview time.Time) {
	fs.items[id] = &review.Item{
		QuestionID:   id,
		MasteryLevel: mastery,
		ReviewCount:  1,
		NextReview:   nextReview,
		WrongCount:   wrongCount,
		Priority:     priority,
		IsActive:     mastery < review.MaxMasteryLevel,
	}
}

func TestDueItems_PriorityIsPrimarySortKey(t *testing.T) {
	fs := newFakeStore()
	now := t0
	seedItem(fs, "low", 2, 2, 1, now.Add(-5*time.Second))
	seedItem(fs, "high", 5, 0, 3, now.Add(-10*time.Second))

	engine := service.NewReviewQueryEngine(fs)
	result, err := engine.DueItems(context.Background(), 1, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 due items, got %d", len(result.Items))
	}
	if result.Items[0].QuestionID != "high" || result.Items[1].QuestionID != "low" {
		t.Errorf("expected [high, low], got [%s, %s]",
			result.Items[0].QuestionID, result.Items[1].QuestionID)
	}
}

func TestDueItems_SummaryOverReturnedSet(t *testing.T) {
	fs := newFakeStore()
	now := t0
	seedItem(fs, "urgent-a", 5, 0, 2, now.Add(-time.Minute))
	seedItem(fs, "urgent-b", 4, 1, 2, now.Add(-time.Minute))
	seedItem(fs, "medium", 3, 2, 1, now.Add(-time.Minute))
	seedItem(fs, "low", 1, 4, 1, now.Add(-time.Minute))
	seedItem(fs, "not-due", 5, 0, 9, now.Add(time.Hour))

	engine := service.NewReviewQueryEngine(fs)
	result, err := engine.DueItems(context.Background(), 1, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.Urgent != 2 || result.Summary.Medium != 1 || result.Summary.Low != 1 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	// raising the floor shrinks both the list and the summary
	result, err = engine.DueItems(context.Background(), 4, 0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 || result.Summary.Urgent != 2 || result.Summary.Low != 0 {
		t.Errorf("expected summary over the filtered set only, got %+v", result.Summary)
	}
}

func TestDueItems_Limit(t *testing.T) {
	fs := newFakeStore()
	now := t0
	for _, id := range []string{"a", "b", "c", "d"} {
		seedItem(fs, id, 3, 1, 1, now.Add(-time.Minute))
	}

	engine := service.NewReviewQueryEngine(fs)
	result, err := engine.DueItems(context.Background(), 1, 2, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("expected limit of 2 to apply, got %d items", len(result.Items))
	}
}

func TestSchedule_Buckets(t *testing.T) {
	fs := newFakeStore()
	now := t0
	seedItem(fs, "due-now", 5, 0, 2, now.Add(-time.Minute))
	seedItem(fs, "due-now-low", 2, 3, 1, now)
	seedItem(fs, "tomorrow", 4, 1, 1, now.Add(10*time.Hour))
	seedItem(fs, "this-week", 3, 2, 1, now.Add(3*24*time.Hour))
	seedItem(fs, "far-out", 2, 4, 1, now.Add(30*24*time.Hour))
	seedItem(fs, "retired", 1, 5, 1, now.Add(-time.Hour)) // inactive, excluded entirely

	engine := service.NewReviewQueryEngine(fs)
	sched, err := engine.Schedule(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sched.Today != 2 || sched.Tomorrow != 1 || sched.ThisWeek != 1 {
		t.Errorf("unexpected buckets: today=%d tomorrow=%d thisWeek=%d",
			sched.Today, sched.Tomorrow, sched.ThisWeek)
	}
	if sched.TotalActive != 5 {
		t.Errorf("expected 5 active items, got %d", sched.TotalActive)
	}
	// the three buckets never exceed the active total
	if sched.Today+sched.Tomorrow+sched.ThisWeek > sched.TotalActive {
		t.Error("bucket counts exceed total active items")
	}

	if sched.MasteryDistribution[0] != 1 || sched.MasteryDistribution[3] != 1 {
		t.Errorf("unexpected mastery distribution: %v", sched.MasteryDistribution)
	}
	if _, ok := sched.MasteryDistribution[5]; !ok {
		t.Error("expected every level 0-5 to be present in the distribution")
	}

	if sched.Recommendations.UrgentItems != 1 {
		t.Errorf("expected 1 urgent item (due AND priority>=4), got %d", sched.Recommendations.UrgentItems)
	}
	if sched.Recommendations.EstimatedTimeMinutes != 4 {
		t.Errorf("expected 2 minutes per due item, got %d", sched.Recommendations.EstimatedTimeMinutes)
	}
}

func TestSchedule_RecommendationFloorAndCeiling(t *testing.T) {
	fs := newFakeStore()
	engine := service.NewReviewQueryEngine(fs)

	// empty queue still suggests the minimum batch of 5
	sched, err := engine.Schedule(context.Background(), t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.Recommendations.SuggestedDailyReviews != 5 {
		t.Errorf("expected floor of 5, got %d", sched.Recommendations.SuggestedDailyReviews)
	}

	for i := 0; i < 30; i++ {
		seedItem(fs, string(rune('a'+i)), 3, 1, 1, t0.Add(-time.Minute))
	}
	sched, err = engine.Schedule(context.Background(), t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.Recommendations.SuggestedDailyReviews != 20 {
		t.Errorf("expected ceiling of 20, got %d", sched.Recommendations.SuggestedDailyReviews)
	}
}

func TestStats_SessionsAndBreakdowns(t *testing.T) {
	fs := newFakeStore()
	now := t0

	// 12 sessions in the period: aggregates cover all, the recent list caps at 10
	for i := 0; i < 12; i++ {
		s := reviewsession.New("web", now.Add(-time.Duration(i)*time.Hour))
		s.Finalize(5*time.Minute, 10, 8)
		fs.sessions[s.ID] = s
	}
	// outside the period, ignored
	old := reviewsession.New("old", now.AddDate(0, 0, -30))
	old.Finalize(5*time.Minute, 100, 0)
	fs.sessions[old.ID] = old

	qa := fs.addQuestion("A", "go")
	qb := fs.addQuestion("B", "go")
	qc := fs.addQuestion("C", "sql")
	seedItem(fs, qa.ID, 5, 0, 2, now)
	seedItem(fs, qb.ID, 3, 2, 1, now)
	seedItem(fs, qc.ID, 4, 1, 1, now)
	seedItem(fs, "orphan", 2, 5, 1, now) // retired, excluded from breakdowns

	engine := service.NewReviewQueryEngine(fs)
	stats, err := engine.Stats(context.Background(), 7, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalSessions != 12 {
		t.Errorf("expected 12 sessions, got %d", stats.TotalSessions)
	}
	if len(stats.RecentSessions) != 10 {
		t.Errorf("expected recent list capped at 10, got %d", len(stats.RecentSessions))
	}
	if stats.TotalItems != 120 || stats.TotalCorrect != 96 {
		t.Errorf("unexpected totals: %d/%d", stats.TotalCorrect, stats.TotalItems)
	}
	if stats.AverageAccuracy != 80 {
		t.Errorf("expected 80%% accuracy, got %v", stats.AverageAccuracy)
	}

	if len(stats.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.Categories))
	}
	// sorted alphabetically
	if stats.Categories[0].Category != "go" || stats.Categories[1].Category != "sql" {
		t.Errorf("unexpected category order: %+v", stats.Categories)
	}
	goStats := stats.Categories[0]
	if goStats.ActiveItems != 2 || goStats.AvgMastery != 1 {
		t.Errorf("unexpected go category stats: %+v", goStats)
	}

	if len(stats.MasteryLevels) != 6 {
		t.Fatalf("expected histogram for levels 0-5, got %d entries", len(stats.MasteryLevels))
	}
	if stats.MasteryLevels[0].Count != 1 || stats.MasteryLevels[1].Count != 1 || stats.MasteryLevels[2].Count != 1 {
		t.Errorf("unexpected histogram: %+v", stats.MasteryLevels)
	}
}

func TestStats_DefaultPeriod(t *testing.T) {
	engine := service.NewReviewQueryEngine(newFakeStore())

	stats, err := engine.Stats(context.Background(), 0, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.PeriodDays != 7 {
		t.Errorf("expected default period of 7 days, got %d", stats.PeriodDays)
	}
	if stats.AverageAccuracy != 0 {
		t.Errorf("expected zero accuracy with no sessions, got %v", stats.AverageAccuracy)
	}
}
