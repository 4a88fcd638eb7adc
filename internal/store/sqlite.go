// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quizkeeper/backend/internal/domain/question"
	"github.com/quizkeeper/backend/internal/domain/review"
	"github.com/quizkeeper/backend/internal/domain/reviewsession"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS choices (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL,
    label TEXT NOT NULL,
    is_correct INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL,
    FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS review_items (
    question_id TEXT PRIMARY KEY,
    mastery_level INTEGER NOT NULL,
    review_count INTEGER NOT NULL,
    last_reviewed INTEGER,
    next_review INTEGER NOT NULL,
    wrong_count INTEGER NOT NULL,
    correct_streak INTEGER NOT NULL,
    priority INTEGER NOT NULL,
    is_active INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS review_sessions (
    id TEXT PRIMARY KEY,
    context TEXT NOT NULL DEFAULT '',
    started_at INTEGER NOT NULL,
    duration_seconds INTEGER NOT NULL DEFAULT 0,
    total_items INTEGER NOT NULL DEFAULT 0,
    correct_items INTEGER NOT NULL DEFAULT 0,
    completed INTEGER NOT NULL DEFAULT 0
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Questions
// ============================================================================

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO questions (id, prompt, category) VALUES (?, ?, ?)",
		q.ID, q.Prompt, q.Category,
	)
	if err != nil {
		return err
	}

	for i, c := range q.Choices {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO choices (id, question_id, label, is_correct, position) VALUES (?, ?, ?, ?, ?)",
			c.ID, q.ID, c.Label, boolToInt(c.Correct), i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*question.Question, error) {
	var q question.Question
	err := s.db.QueryRowContext(ctx,
		"SELECT id, prompt, category FROM questions WHERE id = ?", id,
	).Scan(&q.ID, &q.Prompt, &q.Category)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, is_correct FROM choices WHERE question_id = ? ORDER BY position", id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c question.Choice
		var correct int
		if err := rows.Scan(&c.ID, &c.Label, &correct); err != nil {
			return nil, err
		}
		c.Correct = correct != 0
		q.Choices = append(q.Choices, c)
	}
	return &q, rows.Err()
}

func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]*question.Question, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, prompt, category FROM questions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*question.Question
	for rows.Next() {
		var q question.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Category); err != nil {
			return nil, err
		}
		questions = append(questions, &q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM choices WHERE question_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Review items
// ============================================================================

func (s *SQLiteStore) GetReviewItem(ctx context.Context, questionID string) (*review.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT question_id, mastery_level, review_count, last_reviewed, next_review,
		       wrong_count, correct_streak, priority, is_active
		FROM review_items WHERE question_id = ?
	`, questionID)

	item, err := scanReviewItem(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpsertReviewItem writes the item keyed by question id. The primary key on
// question_id keeps the one-item-per-question constraint in the database, so
// concurrent first-failure recording cannot create duplicate rows.
func (s *SQLiteStore) UpsertReviewItem(ctx context.Context, item *review.Item) error {
	var lastReviewed any
	if !item.LastReviewed.IsZero() {
		lastReviewed = item.LastReviewed.Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_items
			(question_id, mastery_level, review_count, last_reviewed, next_review,
			 wrong_count, correct_streak, priority, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(question_id) DO UPDATE SET
			mastery_level = excluded.mastery_level,
			review_count = excluded.review_count,
			last_reviewed = excluded.last_reviewed,
			next_review = excluded.next_review,
			wrong_count = excluded.wrong_count,
			correct_streak = excluded.correct_streak,
			priority = excluded.priority,
			is_active = excluded.is_active
	`,
		item.QuestionID, item.MasteryLevel, item.ReviewCount, lastReviewed,
		item.NextReview.Unix(), item.WrongCount, item.CorrectStreak,
		item.Priority, boolToInt(item.IsActive),
	)
	return err
}

// ListDueReviewItems returns active items that are due at the given time
// with at least the given priority. The ordering decides which question a
// learner sees first: priority first, then how long the item has been
// waiting, then failure count.
func (s *SQLiteStore) ListDueReviewItems(ctx context.Context, minPriority int, now time.Time, limit int) ([]*review.Item, error) {
	query := `
		SELECT question_id, mastery_level, review_count, last_reviewed, next_review,
		       wrong_count, correct_streak, priority, is_active
		FROM review_items
		WHERE is_active = 1 AND priority >= ? AND next_review <= ?
		ORDER BY priority DESC, next_review ASC, wrong_count DESC
	`
	args := []any{minPriority, now.Unix()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviewItems(rows)
}

func (s *SQLiteStore) ListActiveReviewItems(ctx context.Context) ([]*review.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, mastery_level, review_count, last_reviewed, next_review,
		       wrong_count, correct_streak, priority, is_active
		FROM review_items WHERE is_active = 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviewItems(rows)
}

func (s *SQLiteStore) ListActiveReviewItemsWithCategory(ctx context.Context) ([]ItemWithCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ri.question_id, ri.mastery_level, ri.review_count, ri.last_reviewed,
		       ri.next_review, ri.wrong_count, ri.correct_streak, ri.priority,
		       ri.is_active, COALESCE(q.category, '')
		FROM review_items ri
		LEFT JOIN questions q ON q.id = ri.question_id
		WHERE ri.is_active = 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ItemWithCategory
	for rows.Next() {
		var item review.Item
		var lastReviewed sql.NullInt64
		var nextReview int64
		var active int
		var category string
		if err := rows.Scan(
			&item.QuestionID, &item.MasteryLevel, &item.ReviewCount, &lastReviewed,
			&nextReview, &item.WrongCount, &item.CorrectStreak, &item.Priority,
			&active, &category,
		); err != nil {
			return nil, err
		}
		if lastReviewed.Valid {
			item.LastReviewed = time.Unix(lastReviewed.Int64, 0).UTC()
		}
		item.NextReview = time.Unix(nextReview, 0).UTC()
		item.IsActive = active != 0
		result = append(result, ItemWithCategory{Item: &item, Category: category})
	}
	return result, rows.Err()
}

// ============================================================================
// Review sessions
// ============================================================================

func (s *SQLiteStore) SaveReviewSession(ctx context.Context, session *reviewsession.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_sessions
			(id, context, started_at, duration_seconds, total_items, correct_items, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID, session.Context, session.StartedAt.Unix(),
		int(session.Duration.Seconds()), session.TotalItems, session.CorrectItems,
		boolToInt(session.Completed),
	)
	return err
}

func (s *SQLiteStore) GetReviewSession(ctx context.Context, id string) (*reviewsession.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, context, started_at, duration_seconds, total_items, correct_items, completed
		FROM review_sessions WHERE id = ?
	`, id)

	session, err := scanReviewSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) UpdateReviewSession(ctx context.Context, session *reviewsession.Session) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE review_sessions
		SET duration_seconds = ?, total_items = ?, correct_items = ?, completed = ?
		WHERE id = ?
	`,
		int(session.Duration.Seconds()), session.TotalItems, session.CorrectItems,
		boolToInt(session.Completed), session.ID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReviewSessionsSince returns sessions started at or after the given
// time, most recent first.
func (s *SQLiteStore) ListReviewSessionsSince(ctx context.Context, since time.Time) ([]*reviewsession.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, context, started_at, duration_seconds, total_items, correct_items, completed
		FROM review_sessions
		WHERE started_at >= ?
		ORDER BY started_at DESC
	`, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*reviewsession.Session
	for rows.Next() {
		session, err := scanReviewSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// ============================================================================
// Row scanning
// ============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewItem(row rowScanner) (*review.Item, error) {
	var item review.Item
	var lastReviewed sql.NullInt64
	var nextReview int64
	var active int

	err := row.Scan(
		&item.QuestionID, &item.MasteryLevel, &item.ReviewCount, &lastReviewed,
		&nextReview, &item.WrongCount, &item.CorrectStreak, &item.Priority, &active,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		item.LastReviewed = time.Unix(lastReviewed.Int64, 0).UTC()
	}
	item.NextReview = time.Unix(nextReview, 0).UTC()
	item.IsActive = active != 0
	return &item, nil
}

func collectReviewItems(rows *sql.Rows) ([]*review.Item, error) {
	var items []*review.Item
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanReviewSession(row rowScanner) (*reviewsession.Session, error) {
	var session reviewsession.Session
	var startedAt int64
	var durationSeconds int
	var completed int

	err := row.Scan(
		&session.ID, &session.Context, &startedAt, &durationSeconds,
		&session.TotalItems, &session.CorrectItems, &completed,
	)
	if err != nil {
		return nil, err
	}

	session.StartedAt = time.Unix(startedAt, 0).UTC()
	session.Duration = time.Duration(durationSeconds) * time.Second
	session.Completed = completed != 0
	return &session, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
