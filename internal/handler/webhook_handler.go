package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/financasgo/backend/internal/service"
)

// maxWebhookBody bounds gateway notification payloads.
const maxWebhookBody = 1 << 20

// WebhookHandler receives Mercado Pago webhook notifications.
type WebhookHandler struct {
	svc service.SubscriptionService
}

func NewWebhookHandler(svc service.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// MercadoPago handles POST /api/webhooks/mercadopago. The gateway signs each
// delivery with the x-signature header over the data.id query param and the
// x-request-id header.
func (h *WebhookHandler) MercadoPago(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "read_failed"})
		return
	}

	dataID := r.URL.Query().Get("data.id")
	requestID := r.Header.Get("x-request-id")
	sigHeader := r.Header.Get("x-signature")

	if err := h.svc.ProcessWebhook(r.Context(), payload, dataID, requestID, sigHeader); err != nil {
		slog.Error("webhook processing failed", "error", err, "data_id", dataID)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "webhook_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
