package handler

import (
	"encoding/json"
	"net/http"

	"github.com/financasgo/backend/internal/projection"
	"github.com/financasgo/backend/internal/service"
)

// SimulationHandler serves the financial projection endpoints. Simulations
// are stateless, so they require no authentication beyond the usual API
// middleware the router applies.
type SimulationHandler struct {
	svc service.SimulationService
}

func NewSimulationHandler(svc service.SimulationService) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

func decodeInput(w http.ResponseWriter, r *http.Request, in any) bool {
	if err := json.NewDecoder(r.Body).Decode(in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return false
	}
	return true
}

// Investment handles POST /api/simulations/investment.
func (h *SimulationHandler) Investment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var in projection.InvestmentInput
	if !decodeInput(w, r, &in) {
		return
	}
	if in.Years <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "years must be greater than 0"})
		return
	}

	_ = json.NewEncoder(w).Encode(h.svc.Investment(r.Context(), in))
}

// Financing handles POST /api/simulations/financing.
func (h *SimulationHandler) Financing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var in projection.LoanInput
	if !decodeInput(w, r, &in) {
		return
	}
	if in.Years <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "years must be greater than 0"})
		return
	}

	_ = json.NewEncoder(w).Encode(h.svc.Financing(r.Context(), in))
}

// Retirement handles POST /api/simulations/retirement.
func (h *SimulationHandler) Retirement(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var in projection.RetirementInput
	if !decodeInput(w, r, &in) {
		return
	}
	if in.RetirementAge <= in.CurrentAge {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "retirement_age must be after current_age"})
		return
	}

	_ = json.NewEncoder(w).Encode(h.svc.Retirement(r.Context(), in))
}

// Goal handles POST /api/simulations/goal.
func (h *SimulationHandler) Goal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var in projection.GoalInput
	if !decodeInput(w, r, &in) {
		return
	}
	if in.TargetAmount <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "target_amount must be greater than 0"})
		return
	}

	_ = json.NewEncoder(w).Encode(h.svc.Goal(r.Context(), in))
}
