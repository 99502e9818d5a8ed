package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
	"github.com/financasgo/backend/internal/service"
	"github.com/financasgo/backend/pkg/auth"
)

// TransactionHandler serves the transaction CRUD endpoints.
type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// parseDate accepts RFC 3339 or plain YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// List handles GET /api/transactions (auth required). Supported query
// params: type, account_id, card_id, from, to, limit, offset.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	q := r.URL.Query()
	filter := model.TransactionFilter{
		Type:      q.Get("type"),
		AccountID: q.Get("account_id"),
		CardID:    q.Get("card_id"),
	}
	if s := q.Get("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_from"})
			return
		}
		filter.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_to"})
			return
		}
		filter.To = t
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	transactions, err := h.svc.ListByUser(r.Context(), userID, filter, limit, offset)
	if err != nil {
		slog.Error("transaction list failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"transactions": transactions})
}

// Create handles POST /api/transactions (auth required).
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Type          string  `json:"type"`
		Amount        float64 `json:"amount"`
		Description   string  `json:"description"`
		CategoryID    *string `json:"category_id"`
		AccountID     *string `json:"account_id"`
		CardID        *string `json:"card_id"`
		Date          string  `json:"date"`
		IsRecurring   bool    `json:"is_recurring"`
		RecurringType *string `json:"recurring_type"`
		IsPaid        bool    `json:"is_paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		if date, err = parseDate(req.Date); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_date"})
			return
		}
	}

	t, err := h.svc.Create(r.Context(), userID, &model.Transaction{
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		CardID:        req.CardID,
		Date:          date,
		IsRecurring:   req.IsRecurring,
		RecurringType: req.RecurringType,
		IsPaid:        req.IsPaid,
	})
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

// Update handles PUT /api/transactions/{id} (auth required).
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")

	var req struct {
		Amount      *float64 `json:"amount"`
		Description *string  `json:"description"`
		CategoryID  *string  `json:"category_id"`
		Date        *string  `json:"date"`
		IsPaid      *bool    `json:"is_paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	patch := model.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		IsPaid:      req.IsPaid,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_date"})
			return
		}
		patch.Date = &t
	}

	if err := h.svc.Patch(r.Context(), id, userID, patch); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Delete handles DELETE /api/transactions/{id} (auth required).
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
			return
		}
		slog.Error("transaction delete failed", "error", err, "transaction_id", id)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "delete_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
