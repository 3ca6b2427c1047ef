package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orbitapp/orbit/internal/model"
	"github.com/orbitapp/orbit/internal/repository"
	"github.com/orbitapp/orbit/internal/validation"
)

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) Create(userID, title string, desiredWeeklyFrequency int) (*model.Goal, error) {
	err := validation.ValidateGoalTitle(title)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateWeeklyFrequency(desiredWeeklyFrequency)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Title:                  title,
		DesiredWeeklyFrequency: desiredWeeklyFrequency,
		CreatedAt:              time.Now().UTC(),
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goals(userID string) ([]*model.Goal, error) {
	return s.repo.Goals(userID)
}

// Delete removes the goal and, via the schema's cascade, all of its
// completions.
func (s *GoalService) Delete(userID, goalID string) error {
	return s.repo.Delete(userID, goalID)
}
