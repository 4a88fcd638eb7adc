package store

import (
	"errors"

	"github.com/quizkeeper/backend/internal/domain/review"
)

var (
	ErrNotFound = errors.New("not found")
)

// ItemWithCategory pairs an active review item with its question's category
// tag, for per-category aggregation. Items whose question has been deleted
// carry an empty category.
type ItemWithCategory struct {
	Item     *review.Item
	Category string
}
