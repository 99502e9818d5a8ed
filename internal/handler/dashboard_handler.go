package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/financasgo/backend/internal/service"
	"github.com/financasgo/backend/pkg/auth"
)

// DashboardHandler serves the aggregated dashboard figures.
type DashboardHandler struct {
	svc service.StatsService
}

func NewDashboardHandler(svc service.StatsService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats handles GET /api/dashboard/stats (auth required).
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	stats, err := h.svc.Dashboard(r.Context(), userID, time.Now())
	if err != nil {
		slog.Error("dashboard stats failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "stats_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(stats)
}
