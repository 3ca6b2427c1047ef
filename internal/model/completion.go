package model

import (
	"time"
)

// Completion is one admitted occurrence of a goal. Rows are only ever
// inserted or deleted, never updated.
type Completion struct {
	ID        string    `db:"id"`
	GoalID    string    `db:"goal_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// CompletionWithTitle is a completion joined with its goal's title, as
// returned by week-scoped list queries.
type CompletionWithTitle struct {
	ID        string    `db:"id"`
	GoalID    string    `db:"goal_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
}
