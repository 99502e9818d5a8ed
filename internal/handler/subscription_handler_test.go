package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/financasgo/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock SubscriptionService
// ---------------------------------------------------------------------------

type mockSubscriptionService struct {
	subscribeFunc      func(ctx context.Context, userID, planID string) (*service.SubscribeResult, error)
	cancelFunc         func(ctx context.Context, userID string) error
	processWebhookFunc func(ctx context.Context, payload []byte, dataID, requestID, sigHeader string) error
}

func (m *mockSubscriptionService) Subscribe(ctx context.Context, userID, planID string) (*service.SubscribeResult, error) {
	if m.subscribeFunc != nil {
		return m.subscribeFunc(ctx, userID, planID)
	}
	return &service.SubscribeResult{SubscriptionID: "s1", InitPoint: "https://mp.test/pay"}, nil
}
func (m *mockSubscriptionService) Cancel(ctx context.Context, userID string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, userID)
	}
	return nil
}
func (m *mockSubscriptionService) ProcessWebhook(ctx context.Context, payload []byte, dataID, requestID, sigHeader string) error {
	if m.processWebhookFunc != nil {
		return m.processWebhookFunc(ctx, payload, dataID, requestID, sigHeader)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Subscribe / Cancel tests
// ---------------------------------------------------------------------------

func TestSubscriptionHandler_Subscribe_Success(t *testing.T) {
	var capturedPlan string
	svc := &mockSubscriptionService{
		subscribeFunc: func(ctx context.Context, userID, planID string) (*service.SubscribeResult, error) {
			capturedPlan = planID
			return &service.SubscribeResult{SubscriptionID: "s1", InitPoint: "https://mp.test/pay"}, nil
		},
	}
	h := NewSubscriptionHandler(svc)

	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/subscription", `{"plan":"monthly"}`, "u1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if capturedPlan != "monthly" {
		t.Errorf("plan = %q, want monthly", capturedPlan)
	}
	var res service.SubscribeResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.InitPoint != "https://mp.test/pay" {
		t.Errorf("init point = %q", res.InitPoint)
	}
}

func TestSubscriptionHandler_Subscribe_UnknownPlan(t *testing.T) {
	svc := &mockSubscriptionService{
		subscribeFunc: func(ctx context.Context, userID, planID string) (*service.SubscribeResult, error) {
			return nil, service.ErrUnknownPlan
		},
	}
	h := NewSubscriptionHandler(svc)

	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/subscription", `{"plan":"weekly"}`, "u1"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubscriptionHandler_Subscribe_AlreadySubscribed(t *testing.T) {
	svc := &mockSubscriptionService{
		subscribeFunc: func(ctx context.Context, userID, planID string) (*service.SubscribeResult, error) {
			return nil, service.ErrAlreadySubscribed
		},
	}
	h := NewSubscriptionHandler(svc)

	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/subscription", `{"plan":"monthly"}`, "u1"))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestSubscriptionHandler_Subscribe_RequiresAuth(t *testing.T) {
	h := NewSubscriptionHandler(&mockSubscriptionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/subscription", newBodyReader(`{"plan":"monthly"}`))
	rec := httptest.NewRecorder()
	h.Subscribe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestSubscriptionHandler_Cancel_NoSubscription(t *testing.T) {
	svc := &mockSubscriptionService{
		cancelFunc: func(ctx context.Context, userID string) error {
			return service.ErrNoSubscription
		},
	}
	h := NewSubscriptionHandler(svc)

	rec := httptest.NewRecorder()
	h.Cancel(rec, authedRequest(http.MethodDelete, "/api/subscription", "", "u1"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
