// simulation/simulation.go
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/quizkeeper/backend/internal/domain/question"
	"github.com/quizkeeper/backend/internal/service"
	"github.com/quizkeeper/backend/internal/store"
	"github.com/quizkeeper/backend/internal/worker"
)

// Run drives the review scheduler through a compressed learner timeline
// without a running server: a batch of questions is failed concurrently,
// then reviewed across simulated sittings, printing how the due queue and
// schedule evolve. Reviews of distinct questions go through a worker pool
// to exercise the concurrent path.
func Run() error {
	db, err := store.NewSQLite(":memory:")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	scheduler := service.NewReviewScheduler(db)
	engine := service.NewReviewQueryEngine(db)

	questions, err := seedQuestions(ctx, db)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}

	now := time.Now()

	// Sitting 1: the learner gets everything wrong. Distinct questions are
	// independent, so the failures are recorded concurrently.
	pool := worker.NewPool[error](4, len(questions))
	for _, q := range questions {
		qID := q.ID
		pool.Submit(qID, func() error {
			_, err := scheduler.RecordReview(ctx, qID, false, now)
			return err
		})
	}
	for range questions {
		if r := <-pool.Results(); r.Output != nil {
			return fmt.Errorf("record review for %s: %w", r.JobID, r.Output)
		}
	}
	pool.Close()

	fmt.Println("=== After failing every question ===")
	if err := printDue(ctx, engine, now.Add(2*time.Minute)); err != nil {
		return err
	}

	// Sittings 2-6: review everything correctly once per simulated day.
	// Five consecutive correct answers walk an item from level 0 to 5.
	for day := 1; day <= 5; day++ {
		sittingTime := now.Add(time.Duration(day) * 24 * time.Hour)
		for _, q := range questions {
			if _, err := scheduler.RecordReview(ctx, q.ID, true, sittingTime); err != nil {
				return fmt.Errorf("day %d review for %s: %w", day, q.ID, err)
			}
		}

		fmt.Printf("=== After day %d of correct reviews ===\n", day)
		sched, err := engine.Schedule(ctx, sittingTime)
		if err != nil {
			return err
		}
		fmt.Printf("active: %d, mastery distribution: %v\n",
			sched.TotalActive, sched.MasteryDistribution)
	}

	sched, err := engine.Schedule(ctx, now.Add(6*24*time.Hour))
	if err != nil {
		return err
	}
	if sched.TotalActive != 0 {
		return fmt.Errorf("expected every item mastered, %d still active", sched.TotalActive)
	}
	fmt.Println("all items mastered and retired")
	return nil
}

func seedQuestions(ctx context.Context, db *store.SQLiteStore) ([]*question.Question, error) {
	seeds := []struct {
		prompt   string
		category string
	}{
		{"What is a goroutine?", "go"},
		{"What does a channel do?", "go"},
		{"What isolation level prevents dirty reads?", "sql"},
		{"What is a covering index?", "sql"},
		{"What does TCP slow start control?", "networking"},
	}

	questions := make([]*question.Question, 0, len(seeds))
	for _, seed := range seeds {
		q := question.New(seed.prompt, seed.category)
		q.AddChoice("the right answer", true)
		q.AddChoice("a wrong answer", false)
		if err := db.SaveQuestion(ctx, q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func printDue(ctx context.Context, engine *service.ReviewQueryEngine, now time.Time) error {
	result, err := engine.DueItems(ctx, 1, 0, now)
	if err != nil {
		return err
	}
	fmt.Printf("due: %d (urgent %d, medium %d, low %d)\n",
		len(result.Items), result.Summary.Urgent, result.Summary.Medium, result.Summary.Low)
	for _, item := range result.Items {
		fmt.Printf("  %s  priority=%d mastery=%d wrong=%d\n",
			item.QuestionID, item.Priority, item.MasteryLevel, item.WrongCount)
	}
	return nil
}
