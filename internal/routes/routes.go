package routes

import (
	"net/http"

	"github.com/orbitapp/orbit/internal/app"
	"github.com/orbitapp/orbit/internal/handler"
	"github.com/orbitapp/orbit/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	goal := handler.NewGoalHandler(app.GoalService)
	completion := handler.NewCompletionHandler(app.CompletionService)
	summary := handler.NewSummaryHandler(app.SummaryService)

	mux := http.NewServeMux()

	// Public routes (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /login", rateLimiter(auth.Login))

	// Protected routes
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("POST /completions", middleware.RequireAuth(completion.Create))
	mux.HandleFunc("DELETE /completions/{id}", middleware.RequireAuth(completion.Undo))
	mux.HandleFunc("GET /pending-goals", middleware.RequireAuth(summary.PendingGoals))
	mux.HandleFunc("GET /summary", middleware.RequireAuth(summary.WeekSummary))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)
}
