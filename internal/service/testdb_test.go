package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/orbitapp/orbit/internal/calendar"
	"github.com/orbitapp/orbit/internal/db"
	"github.com/orbitapp/orbit/internal/model"
	"github.com/orbitapp/orbit/internal/repository"
	"github.com/stretchr/testify/require"
)

// testWindows pins quota boundaries to a fixed UTC-3 offset so tests do
// not depend on the host's timezone database.
var testWindows = calendar.New(time.FixedZone("-03", -3*60*60), time.Monday)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "orbit_test.db") + "?_pragma=foreign_keys(1)"
	database, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	database.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func newUserRepo(database *sqlx.DB) repository.UserRepository {
	return repository.NewUserRepository(database)
}

func seedUser(t *testing.T, database *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repository.NewUserRepository(database).Create(user))
	return user
}

func seedGoal(t *testing.T, database *sqlx.DB, userID, title string, frequency int, createdAt time.Time) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Title:                  title,
		DesiredWeeklyFrequency: frequency,
		CreatedAt:              createdAt.UTC(),
	}
	require.NoError(t, repository.NewGoalRepository(database).Create(goal))
	return goal
}

func newCompletionService(database *sqlx.DB, lockWait time.Duration) *CompletionService {
	return NewCompletionService(
		repository.NewGoalRepository(database),
		repository.NewCompletionRepository(database),
		testWindows,
		lockWait,
	)
}

func newSummaryService(database *sqlx.DB) *SummaryService {
	return NewSummaryService(
		repository.NewGoalRepository(database),
		repository.NewCompletionRepository(database),
		testWindows,
	)
}

// ts builds a UTC instant from a local São Paulo style wall clock.
func ts(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.FixedZone("-03", -3*60*60)).UTC()
}
