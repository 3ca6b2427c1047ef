package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/orbitapp/orbit/internal/ctxkeys"
	"github.com/orbitapp/orbit/internal/service"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
}

func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// reference reads an optional ?date= query parameter selecting which week
// to report on, defaulting to now.
func reference(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h *SummaryHandler) WeekSummary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ref, ok := reference(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be an ISO-8601 timestamp")
		return
	}

	summary, err := h.summaryService.WeekSummary(user.ID, ref)
	if err != nil {
		slog.Error("failed to build week summary", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (h *SummaryHandler) PendingGoals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ref, ok := reference(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "date must be an ISO-8601 timestamp")
		return
	}

	pending, err := h.summaryService.PendingGoals(user.ID, ref)
	if err != nil {
		slog.Error("failed to list pending goals", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"pendingGoals": pending})
}
