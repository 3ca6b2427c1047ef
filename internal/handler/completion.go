package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/orbitapp/orbit/internal/ctxkeys"
	"github.com/orbitapp/orbit/internal/repository"
	"github.com/orbitapp/orbit/internal/service"
)

type CompletionHandler struct {
	completionService *service.CompletionService
}

func NewCompletionHandler(completionService *service.CompletionService) *CompletionHandler {
	return &CompletionHandler{
		completionService: completionService,
	}
}

type createCompletionRequest struct {
	GoalID    string `json:"goalId"`
	CreatedAt string `json:"createdAt"`
}

func (h *CompletionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createCompletionRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.GoalID == "" {
		respondError(w, http.StatusBadRequest, "goalId is required")
		return
	}

	var at *time.Time
	if req.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			respondError(w, http.StatusBadRequest, "createdAt must be an ISO-8601 timestamp")
			return
		}
		at = &parsed
	}

	completion, err := h.completionService.Complete(r.Context(), user.ID, req.GoalID, at)
	switch {
	case errors.Is(err, repository.ErrGoalNotFound):
		respondError(w, http.StatusNotFound, "goal not found")
		return
	case errors.Is(err, service.ErrCompletedToday):
		respondError(w, http.StatusConflict, "goal already completed today")
		return
	case errors.Is(err, service.ErrQuotaReached):
		respondError(w, http.StatusConflict, "weekly frequency already reached for this goal")
		return
	case errors.Is(err, service.ErrGoalBusy):
		respondError(w, http.StatusServiceUnavailable, "goal is busy, try again")
		return
	case err != nil:
		slog.Error("failed to complete goal", "error", err, "user_id", user.ID, "goal_id", req.GoalID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"goalCompletion": map[string]any{
			"id":        completion.ID,
			"goalId":    completion.GoalID,
			"createdAt": completion.CreatedAt,
		},
	})
}

func (h *CompletionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	completionID := r.PathValue("id")

	deletedID, err := h.completionService.Undo(r.Context(), user.ID, completionID)
	switch {
	case errors.Is(err, repository.ErrCompletionNotFound):
		respondError(w, http.StatusNotFound, "completion not found")
		return
	case errors.Is(err, repository.ErrGoalNotFound):
		respondError(w, http.StatusNotFound, "goal not found")
		return
	case errors.Is(err, service.ErrGoalBusy):
		respondError(w, http.StatusServiceUnavailable, "goal is busy, try again")
		return
	case err != nil:
		slog.Error("failed to undo completion", "error", err, "user_id", user.ID, "completion_id", completionID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deletedCompletionId": deletedID})
}
