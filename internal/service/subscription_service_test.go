package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/financasgo/backend/internal/config"
	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
	"github.com/financasgo/backend/pkg/mercadopago"
)

// ---------------------------------------------------------------------------
// Mock SubscriptionRepository
// ---------------------------------------------------------------------------

type mockSubscriptionRepository struct {
	createFunc         func(ctx context.Context, s *model.Subscription) error
	getByGatewayIDFunc func(ctx context.Context, gatewayID string) (*model.Subscription, error)
	getByUserFunc      func(ctx context.Context, userID string) (*model.Subscription, error)
	updateStatusFunc   func(ctx context.Context, gatewayID, status string) error
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, s *model.Subscription) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	return nil
}
func (m *mockSubscriptionRepository) GetByGatewayID(ctx context.Context, gatewayID string) (*model.Subscription, error) {
	if m.getByGatewayIDFunc != nil {
		return m.getByGatewayIDFunc(ctx, gatewayID)
	}
	return nil, repository.ErrNotFound
}
func (m *mockSubscriptionRepository) GetByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.getByUserFunc != nil {
		return m.getByUserFunc(ctx, userID)
	}
	return nil, repository.ErrNotFound
}
func (m *mockSubscriptionRepository) UpdateStatus(ctx context.Context, gatewayID, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, gatewayID, status)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock Mercado Pago client
// ---------------------------------------------------------------------------

type mockMPClient struct {
	createPreapprovalFunc func(ctx context.Context, params mercadopago.PreapprovalParams) (*mercadopago.Preapproval, error)
	getPreapprovalFunc    func(ctx context.Context, id string) (*mercadopago.Preapproval, error)
	cancelPreapprovalFunc func(ctx context.Context, id string) error
	verifySignatureFunc   func(dataID, requestID, sigHeader string) error
	parseEventFunc        func(payload []byte) (mercadopago.WebhookEvent, error)
}

func (m *mockMPClient) CreatePreapproval(ctx context.Context, params mercadopago.PreapprovalParams) (*mercadopago.Preapproval, error) {
	if m.createPreapprovalFunc != nil {
		return m.createPreapprovalFunc(ctx, params)
	}
	return &mercadopago.Preapproval{ID: "pre_1", Status: "pending", InitPoint: "https://mp.test/checkout"}, nil
}
func (m *mockMPClient) GetPreapproval(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
	if m.getPreapprovalFunc != nil {
		return m.getPreapprovalFunc(ctx, id)
	}
	return &mercadopago.Preapproval{ID: id, Status: "pending"}, nil
}
func (m *mockMPClient) CancelPreapproval(ctx context.Context, id string) error {
	if m.cancelPreapprovalFunc != nil {
		return m.cancelPreapprovalFunc(ctx, id)
	}
	return nil
}
func (m *mockMPClient) VerifyWebhookSignature(dataID, requestID, sigHeader string) error {
	if m.verifySignatureFunc != nil {
		return m.verifySignatureFunc(dataID, requestID, sigHeader)
	}
	return nil
}
func (m *mockMPClient) ParseWebhookEvent(payload []byte) (mercadopago.WebhookEvent, error) {
	if m.parseEventFunc != nil {
		return m.parseEventFunc(payload)
	}
	return mercadopago.WebhookEvent{}, nil
}

// ---------------------------------------------------------------------------
// Subscribe tests
// ---------------------------------------------------------------------------

func newSubscriptionService(client mercadopago.Client, subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, cache repository.Cache) *subscriptionService {
	svc := NewSubscriptionService(client, subRepo, userRepo, cache, config.DefaultPlans(), "http://localhost:3000")
	return svc.(*subscriptionService)
}

func TestSubscriptionService_Subscribe_UnknownPlan(t *testing.T) {
	svc := newSubscriptionService(&mockMPClient{}, &mockSubscriptionRepository{}, &mockUserRepository{}, nil)

	_, err := svc.Subscribe(context.Background(), "u1", "weekly")
	if !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestSubscriptionService_Subscribe_AlreadyAuthorized(t *testing.T) {
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "u@example.com"}, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		getByUserFunc: func(ctx context.Context, userID string) (*model.Subscription, error) {
			return &model.Subscription{UserID: userID, Status: model.SubAuthorized}, nil
		},
	}
	svc := newSubscriptionService(&mockMPClient{}, subRepo, userRepo, nil)

	_, err := svc.Subscribe(context.Background(), "u1", "monthly")
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestSubscriptionService_Subscribe_Success(t *testing.T) {
	var capturedParams mercadopago.PreapprovalParams
	var createdSub *model.Subscription

	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "u@example.com"}, nil
		},
	}
	client := &mockMPClient{
		createPreapprovalFunc: func(ctx context.Context, params mercadopago.PreapprovalParams) (*mercadopago.Preapproval, error) {
			capturedParams = params
			return &mercadopago.Preapproval{ID: "pre_9", Status: "pending", InitPoint: "https://mp.test/pay"}, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		createFunc: func(ctx context.Context, s *model.Subscription) error {
			s.ID = "sub_row_1"
			createdSub = s
			return nil
		},
	}
	svc := newSubscriptionService(client, subRepo, userRepo, nil)

	res, err := svc.Subscribe(context.Background(), "u1", "monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.InitPoint != "https://mp.test/pay" {
		t.Errorf("InitPoint = %q", res.InitPoint)
	}

	if capturedParams.TransactionAmount != 4.90 || capturedParams.CurrencyID != "BRL" {
		t.Errorf("unexpected amount: %+v", capturedParams)
	}
	if capturedParams.Frequency != 1 || capturedParams.FrequencyType != "months" {
		t.Errorf("unexpected recurrence: %+v", capturedParams)
	}
	if capturedParams.ExternalReference != "u1" || capturedParams.PayerEmail != "u@example.com" {
		t.Errorf("unexpected payer fields: %+v", capturedParams)
	}

	if createdSub.MercadoPagoSubscriptionID != "pre_9" || createdSub.Status != model.SubPending {
		t.Errorf("unexpected stored subscription: %+v", createdSub)
	}
}

func TestSubscriptionService_Subscribe_YearlyUsesYearFrequency(t *testing.T) {
	var capturedParams mercadopago.PreapprovalParams
	userRepo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "u@example.com"}, nil
		},
	}
	client := &mockMPClient{
		createPreapprovalFunc: func(ctx context.Context, params mercadopago.PreapprovalParams) (*mercadopago.Preapproval, error) {
			capturedParams = params
			return &mercadopago.Preapproval{ID: "pre_y", InitPoint: "https://mp.test/pay"}, nil
		},
	}
	svc := newSubscriptionService(client, &mockSubscriptionRepository{}, userRepo, nil)

	if _, err := svc.Subscribe(context.Background(), "u1", "yearly"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedParams.FrequencyType != "years" || capturedParams.TransactionAmount != 39.90 {
		t.Errorf("unexpected yearly params: %+v", capturedParams)
	}
}

// ---------------------------------------------------------------------------
// Cancel tests
// ---------------------------------------------------------------------------

func TestSubscriptionService_Cancel_NoSubscription(t *testing.T) {
	svc := newSubscriptionService(&mockMPClient{}, &mockSubscriptionRepository{}, &mockUserRepository{}, nil)

	err := svc.Cancel(context.Background(), "u1")
	if !errors.Is(err, ErrNoSubscription) {
		t.Errorf("expected ErrNoSubscription, got %v", err)
	}
}

func TestSubscriptionService_Cancel_Success(t *testing.T) {
	var cancelledID, updatedStatus string
	var userStatus string

	subRepo := &mockSubscriptionRepository{
		getByUserFunc: func(ctx context.Context, userID string) (*model.Subscription, error) {
			return &model.Subscription{
				UserID: userID, MercadoPagoSubscriptionID: "pre_1",
				Plan: "monthly", Status: model.SubAuthorized,
			}, nil
		},
		updateStatusFunc: func(ctx context.Context, gatewayID, status string) error {
			updatedStatus = status
			return nil
		},
	}
	client := &mockMPClient{
		cancelPreapprovalFunc: func(ctx context.Context, id string) error {
			cancelledID = id
			return nil
		},
	}
	userRepo := &mockUserRepository{
		updateSubscriptionFunc: func(ctx context.Context, id string, patch model.UserPatch) error {
			if patch.SubscriptionStatus != nil {
				userStatus = *patch.SubscriptionStatus
			}
			return nil
		},
	}
	svc := newSubscriptionService(client, subRepo, userRepo, nil)

	if err := svc.Cancel(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelledID != "pre_1" {
		t.Errorf("cancelled %q, want pre_1", cancelledID)
	}
	if updatedStatus != model.SubCancelled {
		t.Errorf("subscription status %q, want cancelled", updatedStatus)
	}
	if userStatus != model.StatusCancelled {
		t.Errorf("user status %q, want cancelled", userStatus)
	}
}

func TestSubscriptionService_Cancel_GatewayErrorLeavesStateAlone(t *testing.T) {
	subRepo := &mockSubscriptionRepository{
		getByUserFunc: func(ctx context.Context, userID string) (*model.Subscription, error) {
			return &model.Subscription{UserID: userID, MercadoPagoSubscriptionID: "pre_1", Status: model.SubAuthorized}, nil
		},
		updateStatusFunc: func(ctx context.Context, gatewayID, status string) error {
			t.Error("UpdateStatus should not run when the gateway cancel fails")
			return nil
		},
	}
	client := &mockMPClient{
		cancelPreapprovalFunc: func(ctx context.Context, id string) error {
			return errors.New("gateway down")
		},
	}
	svc := newSubscriptionService(client, subRepo, &mockUserRepository{}, nil)

	if err := svc.Cancel(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when gateway cancel fails")
	}
}

// ---------------------------------------------------------------------------
// ProcessWebhook tests
// ---------------------------------------------------------------------------

func TestSubscriptionService_ProcessWebhook_BadSignature(t *testing.T) {
	client := &mockMPClient{
		verifySignatureFunc: func(dataID, requestID, sigHeader string) error {
			return errors.New("signature mismatch")
		},
	}
	svc := newSubscriptionService(client, &mockSubscriptionRepository{}, &mockUserRepository{}, nil)

	err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pre_1", "req-1", "ts=1,v1=bad")
	if err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestSubscriptionService_ProcessWebhook_IgnoresNonSubscriptionEvents(t *testing.T) {
	client := &mockMPClient{
		parseEventFunc: func(payload []byte) (mercadopago.WebhookEvent, error) {
			var e mercadopago.WebhookEvent
			e.Type = "payment"
			e.Data.ID = "pay_1"
			return e, nil
		},
		getPreapprovalFunc: func(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
			t.Error("GetPreapproval should not run for non-subscription events")
			return nil, nil
		},
	}
	svc := newSubscriptionService(client, &mockSubscriptionRepository{}, &mockUserRepository{}, nil)

	if err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pay_1", "req-1", "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubscriptionService_ProcessWebhook_DuplicateEventSkipped(t *testing.T) {
	client := &mockMPClient{
		parseEventFunc: func(payload []byte) (mercadopago.WebhookEvent, error) {
			var e mercadopago.WebhookEvent
			e.ID = "12345"
			e.Type = "subscription_preapproval"
			e.Data.ID = "pre_1"
			return e, nil
		},
		getPreapprovalFunc: func(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
			t.Error("GetPreapproval should not run for a duplicate delivery")
			return nil, nil
		},
	}
	cache := &mockCache{
		setNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			return false, nil
		},
	}
	svc := newSubscriptionService(client, &mockSubscriptionRepository{}, &mockUserRepository{}, cache)

	if err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pre_1", "req-1", "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubscriptionService_ProcessWebhook_AuthorizedActivatesUser(t *testing.T) {
	var capturedPatch model.UserPatch
	var capturedUserID string
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	client := &mockMPClient{
		parseEventFunc: func(payload []byte) (mercadopago.WebhookEvent, error) {
			var e mercadopago.WebhookEvent
			e.ID = "777"
			e.Type = "subscription_preapproval"
			e.Data.ID = "pre_1"
			return e, nil
		},
		getPreapprovalFunc: func(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
			return &mercadopago.Preapproval{ID: id, Status: "authorized"}, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		getByGatewayIDFunc: func(ctx context.Context, gatewayID string) (*model.Subscription, error) {
			return &model.Subscription{UserID: "u1", MercadoPagoSubscriptionID: gatewayID, Plan: "monthly"}, nil
		},
	}
	userRepo := &mockUserRepository{
		updateSubscriptionFunc: func(ctx context.Context, id string, patch model.UserPatch) error {
			capturedUserID = id
			capturedPatch = patch
			return nil
		},
	}
	svc := newSubscriptionService(client, subRepo, userRepo, nil)
	svc.now = func() time.Time { return now }

	if err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pre_1", "req-1", "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedUserID != "u1" {
		t.Errorf("updated user %q, want u1", capturedUserID)
	}
	if capturedPatch.SubscriptionStatus == nil || *capturedPatch.SubscriptionStatus != model.StatusActive {
		t.Fatal("expected status active")
	}
	wantEnd := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	if capturedPatch.SubscriptionEndDate == nil || !capturedPatch.SubscriptionEndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %s", capturedPatch.SubscriptionEndDate, wantEnd)
	}
	if capturedPatch.SubscriptionPlan == nil || *capturedPatch.SubscriptionPlan != "monthly" {
		t.Error("expected plan monthly on the patch")
	}
}

func TestSubscriptionService_ProcessWebhook_CancelledAndPaused(t *testing.T) {
	cases := []struct {
		gateway string
		want    string
	}{
		{gateway: "cancelled", want: model.StatusCancelled},
		{gateway: "paused", want: model.StatusExpired},
	}

	for _, tc := range cases {
		var gotStatus string
		client := &mockMPClient{
			parseEventFunc: func(payload []byte) (mercadopago.WebhookEvent, error) {
				var e mercadopago.WebhookEvent
				e.ID = "1"
				e.Type = "subscription_preapproval"
				e.Data.ID = "pre_1"
				return e, nil
			},
			getPreapprovalFunc: func(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
				return &mercadopago.Preapproval{ID: id, Status: tc.gateway}, nil
			},
		}
		subRepo := &mockSubscriptionRepository{
			getByGatewayIDFunc: func(ctx context.Context, gatewayID string) (*model.Subscription, error) {
				return &model.Subscription{UserID: "u1", MercadoPagoSubscriptionID: gatewayID, Plan: "monthly"}, nil
			},
		}
		userRepo := &mockUserRepository{
			updateSubscriptionFunc: func(ctx context.Context, id string, patch model.UserPatch) error {
				if patch.SubscriptionStatus != nil {
					gotStatus = *patch.SubscriptionStatus
				}
				return nil
			},
		}
		svc := newSubscriptionService(client, subRepo, userRepo, nil)

		if err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pre_1", "req-1", "sig"); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.gateway, err)
		}
		if gotStatus != tc.want {
			t.Errorf("%s: user status %q, want %q", tc.gateway, gotStatus, tc.want)
		}
	}
}

func TestSubscriptionService_ProcessWebhook_UnknownSubscription(t *testing.T) {
	client := &mockMPClient{
		parseEventFunc: func(payload []byte) (mercadopago.WebhookEvent, error) {
			var e mercadopago.WebhookEvent
			e.ID = "1"
			e.Type = "subscription_preapproval"
			e.Data.ID = "pre_unknown"
			return e, nil
		},
		getPreapprovalFunc: func(ctx context.Context, id string) (*mercadopago.Preapproval, error) {
			return &mercadopago.Preapproval{ID: id, Status: "authorized"}, nil
		},
	}
	userRepo := &mockUserRepository{
		updateSubscriptionFunc: func(ctx context.Context, id string, patch model.UserPatch) error {
			t.Error("no user update expected for an unknown subscription")
			return nil
		},
	}
	svc := newSubscriptionService(client, &mockSubscriptionRepository{}, userRepo, nil)

	// Unknown preapprovals are logged and acked so the gateway stops retrying.
	if err := svc.ProcessWebhook(context.Background(), []byte("{}"), "pre_unknown", "req-1", "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
