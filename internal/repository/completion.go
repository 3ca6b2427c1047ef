package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/orbitapp/orbit/internal/model"
)

var (
	ErrCompletionNotFound = errors.New("completion not found")
)

type CompletionRepository interface {
	Insert(completion *model.Completion) error
	ByID(id string) (*model.Completion, error)
	Delete(id string) error
	// CountInWindow counts the goal's completions with created_at inside
	// the half-open UTC range [start, end).
	CountInWindow(goalID string, start, end time.Time) (int, error)
	// ExistsInWindow reports whether the goal has any completion inside
	// [start, end).
	ExistsInWindow(goalID string, start, end time.Time) (bool, error)
	// ListInWindow returns the user's completions inside [start, end)
	// joined with their goal titles, newest first.
	ListInWindow(userID string, start, end time.Time) ([]*model.CompletionWithTitle, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Insert(completion *model.Completion) error {
	query := `INSERT INTO goal_completions (id, goal_id, user_id, created_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query,
		completion.ID,
		completion.GoalID,
		completion.UserID,
		completion.CreatedAt,
	)

	return err
}

func (r *completionRepository) ByID(id string) (*model.Completion, error) {
	completion := &model.Completion{}
	query := `SELECT * FROM goal_completions WHERE id = $1`

	err := r.db.Get(completion, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCompletionNotFound
	}

	return completion, err
}

func (r *completionRepository) Delete(id string) error {
	query := `DELETE FROM goal_completions WHERE id = $1`
	result, err := r.db.Exec(query, id)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCompletionNotFound
	}

	return nil
}

func (r *completionRepository) CountInWindow(goalID string, start, end time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goal_completions
	          WHERE goal_id = $1 AND created_at >= $2 AND created_at < $3`

	err := r.db.QueryRow(query, goalID, start, end).Scan(&count)
	return count, err
}

func (r *completionRepository) ExistsInWindow(goalID string, start, end time.Time) (bool, error) {
	count, err := r.CountInWindow(goalID, start, end)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *completionRepository) ListInWindow(userID string, start, end time.Time) ([]*model.CompletionWithTitle, error) {
	var completions []*model.CompletionWithTitle
	query := `SELECT c.id, c.goal_id, g.title, c.created_at
	          FROM goal_completions c
	          INNER JOIN goals g ON g.id = c.goal_id
	          WHERE c.user_id = $1 AND c.created_at >= $2 AND c.created_at < $3
	          ORDER BY c.created_at DESC`

	err := r.db.Select(&completions, query, userID, start, end)
	if err != nil {
		return nil, err
	}

	return completions, nil
}
