package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/orbitapp/orbit/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	Delete(userID, goalID string) error
	// SumDesiredFrequency totals the weekly frequency of every goal the
	// user created strictly before the given instant.
	SumDesiredFrequency(userID string, createdBefore time.Time) (int, error)
	// PendingGoals lists the user's goals whose completion count inside
	// [start, end) is below their desired weekly frequency, annotated
	// with that count.
	PendingGoals(userID string, start, end time.Time) ([]*model.PendingGoal, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, desired_weekly_frequency, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.DesiredWeeklyFrequency,
		goal.CreatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Delete(userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) SumDesiredFrequency(userID string, createdBefore time.Time) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(desired_weekly_frequency), 0) FROM goals
	          WHERE user_id = $1 AND created_at < $2`

	err := r.db.QueryRow(query, userID, createdBefore).Scan(&total)
	return total, err
}

func (r *goalRepository) PendingGoals(userID string, start, end time.Time) ([]*model.PendingGoal, error) {
	var pending []*model.PendingGoal
	query := `SELECT g.id, g.title, g.desired_weekly_frequency, COUNT(c.id) AS completion_count
	          FROM goals g
	          LEFT JOIN goal_completions c
	            ON c.goal_id = g.id AND c.created_at >= $2 AND c.created_at < $3
	          WHERE g.user_id = $1
	          GROUP BY g.id, g.title, g.desired_weekly_frequency
	          HAVING COUNT(c.id) < g.desired_weekly_frequency
	          ORDER BY g.created_at ASC`

	err := r.db.Select(&pending, query, userID, start, end)
	if err != nil {
		return nil, err
	}

	return pending, nil
}
