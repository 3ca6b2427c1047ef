package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/orbitapp/orbit/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Week under test: Monday 2024-03-04 through Sunday 2024-03-10, local
// UTC-3 wall clock.

func TestCompleteAdmits(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	at := ts(2024, 3, 4, 8, 0)
	completion, err := svc.Complete(context.Background(), user.ID, goal.ID, &at)
	require.NoError(t, err)

	assert.Equal(t, goal.ID, completion.GoalID)
	assert.Equal(t, user.ID, completion.UserID)
	assert.True(t, completion.CreatedAt.Equal(at))
}

func TestCompleteUsesNowWhenNoTimestamp(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	fixed := ts(2024, 3, 5, 14, 30)
	svc.now = func() time.Time { return fixed }

	completion, err := svc.Complete(context.Background(), user.ID, goal.ID, nil)
	require.NoError(t, err)
	assert.True(t, completion.CreatedAt.Equal(fixed))
}

func TestCompleteGoalNotFound(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	svc := newCompletionService(database, 0)

	at := ts(2024, 3, 4, 8, 0)
	_, err := svc.Complete(context.Background(), user.ID, "missing", &at)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestCompleteOtherUsersGoal(t *testing.T) {
	database := newTestDB(t)
	owner := seedUser(t, database)
	intruder := seedUser(t, database)
	goal := seedGoal(t, database, owner.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	at := ts(2024, 3, 4, 8, 0)
	_, err := svc.Complete(context.Background(), intruder.ID, goal.ID, &at)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	// Nothing was inserted.
	count, err := repository.NewCompletionRepository(database).CountInWindow(
		goal.ID, ts(2024, 3, 4, 0, 0), ts(2024, 3, 11, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCompleteSameDayRejected(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "run", 7, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	morning := ts(2024, 3, 10, 8, 0)
	_, err := svc.Complete(context.Background(), user.ID, goal.ID, &morning)
	require.NoError(t, err)

	evening := ts(2024, 3, 10, 20, 0)
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &evening)
	assert.ErrorIs(t, err, ErrCompletedToday)
}

func TestCompleteDayBoundaryIsLocal(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "run", 7, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	// 23:30 local Sunday is already past midnight UTC. A completion the
	// next local day must still be admitted.
	lateNight := ts(2024, 3, 10, 23, 30)
	_, err := svc.Complete(context.Background(), user.ID, goal.ID, &lateNight)
	require.NoError(t, err)

	nextMorning := ts(2024, 3, 11, 8, 0)
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &nextMorning)
	require.NoError(t, err)
}

func TestCompleteWeeklyQuota(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	// Three completions on three distinct days all succeed.
	for day := 4; day <= 6; day++ {
		at := ts(2024, 3, day, 9, 0)
		_, err := svc.Complete(context.Background(), user.ID, goal.ID, &at)
		require.NoError(t, err, "day %d", day)
	}

	// A fourth day in the same week hits the quota.
	fourth := ts(2024, 3, 7, 9, 0)
	_, err := svc.Complete(context.Background(), user.ID, goal.ID, &fourth)
	assert.ErrorIs(t, err, ErrQuotaReached)

	// The first day of the following week starts a fresh window.
	nextWeek := ts(2024, 3, 11, 9, 0)
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &nextWeek)
	assert.NoError(t, err)
}

func TestUndoFreesSlot(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 1, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	at := ts(2024, 3, 4, 9, 0)
	completion, err := svc.Complete(context.Background(), user.ID, goal.ID, &at)
	require.NoError(t, err)

	// Quota is now exhausted.
	later := ts(2024, 3, 5, 9, 0)
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &later)
	require.ErrorIs(t, err, ErrQuotaReached)

	deletedID, err := svc.Undo(context.Background(), user.ID, completion.ID)
	require.NoError(t, err)
	assert.Equal(t, completion.ID, deletedID)

	// The same local day is immediately completable again.
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &at)
	assert.NoError(t, err)
}

func TestUndoNotFound(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	svc := newCompletionService(database, 0)

	_, err := svc.Undo(context.Background(), user.ID, "missing")
	assert.ErrorIs(t, err, repository.ErrCompletionNotFound)
}

func TestUndoOtherUsersCompletion(t *testing.T) {
	database := newTestDB(t)
	owner := seedUser(t, database)
	intruder := seedUser(t, database)
	goal := seedGoal(t, database, owner.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	at := ts(2024, 3, 4, 9, 0)
	completion, err := svc.Complete(context.Background(), owner.ID, goal.ID, &at)
	require.NoError(t, err)

	_, err = svc.Undo(context.Background(), intruder.ID, completion.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	// Still there for the owner.
	_, err = repository.NewCompletionRepository(database).ByID(completion.ID)
	assert.NoError(t, err)
}

func TestConcurrentCompletesAdmitExactlyOne(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 1, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	// One quota slot, N concurrent attempts on distinct days of the same
	// week: exactly one may win.
	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			at := ts(2024, 3, 4+i%7, 9, 0)
			_, err := svc.Complete(context.Background(), user.ID, goal.ID, &at)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		if !assert.True(t,
			err == ErrQuotaReached || err == ErrCompletedToday,
			"unexpected error: %v", err) {
			return
		}
	}
	assert.Equal(t, 1, admitted)

	count, err := repository.NewCompletionRepository(database).CountInWindow(
		goal.ID, ts(2024, 3, 4, 0, 0), ts(2024, 3, 11, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompleteBusyOnHeldLock(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 20*time.Millisecond)

	// Hold the goal's lock directly so the next attempt times out.
	release, err := svc.locks.Acquire(context.Background(), goal.ID)
	require.NoError(t, err)
	defer release()

	at := ts(2024, 3, 4, 9, 0)
	_, err = svc.Complete(context.Background(), user.ID, goal.ID, &at)
	assert.ErrorIs(t, err, ErrGoalBusy)
}

func TestCompleteCanceledContext(t *testing.T) {
	database := newTestDB(t)
	user := seedUser(t, database)
	goal := seedGoal(t, database, user.ID, "read", 3, ts(2024, 3, 1, 10, 0))
	svc := newCompletionService(database, 0)

	release, err := svc.locks.Acquire(context.Background(), goal.ID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	at := ts(2024, 3, 4, 9, 0)
	_, err = svc.Complete(ctx, user.ID, goal.ID, &at)
	assert.ErrorIs(t, err, context.Canceled)
}
