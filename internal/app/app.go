package app

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/orbitapp/orbit/internal/calendar"
	"github.com/orbitapp/orbit/internal/config"
	"github.com/orbitapp/orbit/internal/db"
	"github.com/orbitapp/orbit/internal/repository"
	"github.com/orbitapp/orbit/internal/service"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	AuthService       *service.AuthService
	UserService       *service.UserService
	GoalService       *service.GoalService
	CompletionService *service.CompletionService
	SummaryService    *service.SummaryService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Calendar windows for quota boundaries
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %v", cfg.Timezone, err)
	}
	windows := calendar.New(loc, time.Weekday(cfg.WeekStart))

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	completionRepository := repository.NewCompletionRepository(database)

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(goalRepository)
	completionService := service.NewCompletionService(goalRepository, completionRepository, windows, cfg.CompletionLockWait)
	summaryService := service.NewSummaryService(goalRepository, completionRepository, windows)

	return &App{
		Cfg:               cfg,
		DB:                database,
		AuthService:       authService,
		UserService:       userService,
		GoalService:       goalService,
		CompletionService: completionService,
		SummaryService:    summaryService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
