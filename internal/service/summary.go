package service

import (
	"fmt"
	"time"

	"github.com/orbitapp/orbit/internal/calendar"
	"github.com/orbitapp/orbit/internal/model"
	"github.com/orbitapp/orbit/internal/repository"
)

// SummaryService builds read-only weekly views. It never mutates state
// and takes no locks; a summary racing a concurrent admission may be one
// completion ahead or behind, which is fine.
type SummaryService struct {
	goalRepo       repository.GoalRepository
	completionRepo repository.CompletionRepository
	windows        calendar.Windows
}

func NewSummaryService(
	goalRepo repository.GoalRepository,
	completionRepo repository.CompletionRepository,
	windows calendar.Windows,
) *SummaryService {
	return &SummaryService{
		goalRepo:       goalRepo,
		completionRepo: completionRepo,
		windows:        windows,
	}
}

// WeekSummary aggregates the user's activity for the week containing ref.
// Total is the sum of desired weekly frequencies over goals created before
// the week ends, so goals created mid-week count. Completions are grouped
// under their local calendar date, days and entries newest first.
func (s *SummaryService) WeekSummary(userID string, ref time.Time) (*model.WeekSummary, error) {
	weekStart, weekEnd := s.windows.WeekWindow(ref)

	total, err := s.goalRepo.SumDesiredFrequency(userID, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum goal frequencies: %w", err)
	}

	completions, err := s.completionRepo.ListInWindow(userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}

	summary := &model.WeekSummary{
		Completed: len(completions),
		Total:     total,
		PerDay:    []model.SummaryDay{},
	}

	// completions arrive newest first, so days are appended in descending
	// date order and entries within a day keep descending time order.
	dayIndex := map[string]int{}
	for _, c := range completions {
		date := s.windows.LocalDate(c.CreatedAt)
		entry := model.SummaryEntry{
			ID:          c.ID,
			Title:       c.Title,
			CompletedAt: c.CreatedAt,
		}

		i, ok := dayIndex[date]
		if !ok {
			i = len(summary.PerDay)
			dayIndex[date] = i
			summary.PerDay = append(summary.PerDay, model.SummaryDay{Date: date})
		}
		summary.PerDay[i].Completions = append(summary.PerDay[i].Completions, entry)
	}

	return summary, nil
}

// PendingGoals lists the user's goals still below their weekly frequency
// in the week containing ref, each annotated with its current count.
func (s *SummaryService) PendingGoals(userID string, ref time.Time) ([]*model.PendingGoal, error) {
	weekStart, weekEnd := s.windows.WeekWindow(ref)

	pending, err := s.goalRepo.PendingGoals(userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending goals: %w", err)
	}

	if pending == nil {
		pending = []*model.PendingGoal{}
	}
	return pending, nil
}
