package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
	"github.com/financasgo/backend/pkg/auth"
)

// MeHandler returns the authenticated user's profile and access state.
type MeHandler struct {
	userRepo repository.UserRepository
}

func NewMeHandler(userRepo repository.UserRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

type meResponse struct {
	*model.User
	HasAccess   bool      `json:"has_access"`
	TrialEndsAt time.Time `json:"trial_ends_at"`
}

// Me handles GET /api/me (auth required).
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	u, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "user_not_found"})
		return
	}

	_ = json.NewEncoder(w).Encode(meResponse{
		User:        u,
		HasAccess:   u.HasAccess(time.Now()),
		TrialEndsAt: u.TrialEndsAt(),
	})
}
