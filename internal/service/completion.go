package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/orbitapp/orbit/internal/calendar"
	"github.com/orbitapp/orbit/internal/keymutex"
	"github.com/orbitapp/orbit/internal/model"
	"github.com/orbitapp/orbit/internal/repository"
)

var (
	ErrCompletedToday = errors.New("goal already completed today")
	ErrQuotaReached   = errors.New("goal already completed the desired number of times this week")
	ErrGoalBusy       = errors.New("goal is busy, try again")
)

// CompletionService admits and undoes goal completions. Every completion
// attempt for a goal runs under that goal's exclusive lock, so the
// count-then-insert sequence below can never race with itself: two
// concurrent attempts against the last free slot of a week serialize, and
// exactly one wins. Attempts against different goals never contend.
type CompletionService struct {
	goalRepo       repository.GoalRepository
	completionRepo repository.CompletionRepository
	windows        calendar.Windows
	locks          *keymutex.Registry
	now            func() time.Time
}

func NewCompletionService(
	goalRepo repository.GoalRepository,
	completionRepo repository.CompletionRepository,
	windows calendar.Windows,
	lockWait time.Duration,
) *CompletionService {
	return &CompletionService{
		goalRepo:       goalRepo,
		completionRepo: completionRepo,
		windows:        windows,
		locks:          keymutex.NewRegistry(lockWait),
		now:            time.Now,
	}
}

// Complete records one occurrence of the goal. If at is nil the current
// time is used. Fails with repository.ErrGoalNotFound when the goal does
// not exist or belongs to another user, ErrCompletedToday when the goal
// was already completed on the same local day, and ErrQuotaReached when
// the goal's weekly frequency is exhausted for the week containing the
// effective instant. Validation happens entirely before the insert; no
// partial state is left behind on any failure.
func (s *CompletionService) Complete(ctx context.Context, userID, goalID string, at *time.Time) (*model.Completion, error) {
	release, err := s.lock(ctx, goalID)
	if err != nil {
		return nil, err
	}
	defer release()

	goal, err := s.goalRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	effective := s.now()
	if at != nil {
		effective = *at
	}
	effective = effective.UTC()

	dayStart, dayEnd := s.windows.DayWindow(effective)
	completedToday, err := s.completionRepo.ExistsInWindow(goalID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check day window: %w", err)
	}
	if completedToday {
		return nil, ErrCompletedToday
	}

	weekStart, weekEnd := s.windows.WeekWindow(effective)
	count, err := s.completionRepo.CountInWindow(goalID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count week window: %w", err)
	}
	if count >= goal.DesiredWeeklyFrequency {
		return nil, ErrQuotaReached
	}

	completion := &model.Completion{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		UserID:    userID,
		CreatedAt: effective,
	}

	err = s.completionRepo.Insert(completion)
	if err != nil {
		return nil, fmt.Errorf("failed to insert completion: %w", err)
	}

	slog.Debug("completion admitted", "goal_id", goalID, "completion_id", completion.ID, "week_count", count+1)
	return completion, nil
}

// Undo deletes a completion, freeing the day and week slot it occupied.
// The freed slot is immediately re-completable; no quota re-check is
// performed. Undo serializes on the goal's lock so it cannot interleave
// with a Complete that is mid-validation on the same goal.
func (s *CompletionService) Undo(ctx context.Context, userID, completionID string) (string, error) {
	completion, err := s.completionRepo.ByID(completionID)
	if err != nil {
		return "", err
	}

	release, err := s.lock(ctx, completion.GoalID)
	if err != nil {
		return "", err
	}
	defer release()

	// Ownership check goes through the goal: a completion id from another
	// account resolves to a goal the caller does not own.
	_, err = s.goalRepo.ByID(userID, completion.GoalID)
	if err != nil {
		return "", err
	}

	err = s.completionRepo.Delete(completionID)
	if err != nil {
		return "", err
	}

	slog.Debug("completion undone", "goal_id", completion.GoalID, "completion_id", completionID)
	return completionID, nil
}

func (s *CompletionService) lock(ctx context.Context, goalID string) (func(), error) {
	release, err := s.locks.Acquire(ctx, goalID)
	if err != nil {
		if errors.Is(err, keymutex.ErrWaitTimeout) {
			return nil, ErrGoalBusy
		}
		return nil, err
	}
	return release, nil
}
