package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financasgo/backend/internal/billing"
	"github.com/financasgo/backend/internal/config"
	"github.com/financasgo/backend/internal/metrics"
	"github.com/financasgo/backend/internal/model"
	"github.com/financasgo/backend/internal/repository"
	"github.com/financasgo/backend/pkg/mercadopago"
)

// ErrUnknownPlan is returned when the requested plan id is not in the catalog.
var ErrUnknownPlan = errors.New("unknown plan")

// ErrAlreadySubscribed is returned when the user already has an authorized
// subscription.
var ErrAlreadySubscribed = errors.New("already subscribed")

// ErrNoSubscription is returned when a cancel request finds nothing to cancel.
var ErrNoSubscription = errors.New("no subscription")

// webhookClaimTTL bounds how long a processed event id blocks redelivery.
const webhookClaimTTL = 24 * time.Hour

// SubscribeResult is the outcome of starting a subscription checkout.
type SubscribeResult struct {
	SubscriptionID string `json:"subscription_id"`
	InitPoint      string `json:"init_point"`
}

// SubscriptionService manages the Mercado Pago preapproval lifecycle and
// keeps the user's access state in sync with gateway webhooks.
type SubscriptionService interface {
	// Subscribe creates a pending preapproval and returns the hosted
	// checkout URL the user must visit to authorize it.
	Subscribe(ctx context.Context, userID, planID string) (*SubscribeResult, error)
	Cancel(ctx context.Context, userID string) error
	// ProcessWebhook verifies the notification signature, claims the event
	// id for at-most-once handling, and applies the preapproval's current
	// status to the stored subscription and the owning user.
	ProcessWebhook(ctx context.Context, payload []byte, dataID, requestID, sigHeader string) error
}

type subscriptionService struct {
	client      mercadopago.Client
	subRepo     repository.SubscriptionRepository
	userRepo    repository.UserRepository
	cache       repository.Cache
	plans       config.Plans
	frontendURL string
	now         func() time.Time
}

// NewSubscriptionService creates a SubscriptionService. cache can be nil to
// skip webhook deduplication.
func NewSubscriptionService(client mercadopago.Client, subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, cache repository.Cache, plans config.Plans, frontendURL string) SubscriptionService {
	return &subscriptionService{
		client:      client,
		subRepo:     subRepo,
		userRepo:    userRepo,
		cache:       cache,
		plans:       plans,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, planID string) (*SubscribeResult, error) {
	plan, ok := s.plans.Get(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if existing, err := s.subRepo.GetByUser(ctx, userID); err == nil {
		if existing.Status == model.SubAuthorized {
			return nil, ErrAlreadySubscribed
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	frequencyType := "months"
	if plan.Interval == string(billing.IntervalYearly) {
		frequencyType = "years"
	}

	pre, err := s.client.CreatePreapproval(ctx, mercadopago.PreapprovalParams{
		Reason:            plan.Name,
		PayerEmail:        u.Email,
		BackURL:           s.frontendURL + "/assinatura/sucesso",
		ExternalReference: userID,
		Frequency:         1,
		FrequencyType:     frequencyType,
		TransactionAmount: plan.Price,
		CurrencyID:        plan.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("create preapproval: %w", err)
	}

	sub := &model.Subscription{
		UserID:                    userID,
		MercadoPagoSubscriptionID: pre.ID,
		Plan:                      plan.ID,
		Status:                    model.SubPending,
		Amount:                    plan.Price,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("store subscription: %w", err)
	}

	slog.Info("subscription checkout created", "user_id", userID, "plan", plan.ID)
	return &SubscribeResult{SubscriptionID: sub.ID, InitPoint: pre.InitPoint}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID string) error {
	sub, err := s.subRepo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoSubscription
		}
		return err
	}
	if sub.Status == model.SubCancelled {
		return ErrNoSubscription
	}

	if err := s.client.CancelPreapproval(ctx, sub.MercadoPagoSubscriptionID); err != nil {
		return fmt.Errorf("cancel preapproval: %w", err)
	}
	if err := s.subRepo.UpdateStatus(ctx, sub.MercadoPagoSubscriptionID, model.SubCancelled); err != nil {
		return err
	}
	return s.applyUserStatus(ctx, sub.UserID, sub.Plan, model.SubCancelled)
}

func (s *subscriptionService) ProcessWebhook(ctx context.Context, payload []byte, dataID, requestID, sigHeader string) error {
	if err := s.client.VerifyWebhookSignature(dataID, requestID, sigHeader); err != nil {
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		return fmt.Errorf("webhook signature: %w", err)
	}

	event, err := s.client.ParseWebhookEvent(payload)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("malformed").Inc()
		return err
	}
	if !event.IsSubscription() || event.Data.ID == "" {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	if s.cache != nil && event.ID.String() != "" {
		claimed, err := s.cache.SetNX(ctx, "mp:event:"+event.ID.String(), "1", webhookClaimTTL)
		if err != nil {
			slog.Warn("webhook dedup claim failed", "event_id", event.ID, "error", err)
		} else if !claimed {
			metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	pre, err := s.client.GetPreapproval(ctx, event.Data.ID)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return fmt.Errorf("get preapproval: %w", err)
	}

	sub, err := s.subRepo.GetByGatewayID(ctx, pre.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("webhook for unknown subscription", "preapproval_id", pre.ID)
			metrics.WebhookEvents.WithLabelValues("unknown").Inc()
			return nil
		}
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}

	if err := s.subRepo.UpdateStatus(ctx, pre.ID, pre.Status); err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}
	if err := s.applyUserStatus(ctx, sub.UserID, sub.Plan, pre.Status); err != nil {
		metrics.WebhookEvents.WithLabelValues("error").Inc()
		return err
	}

	slog.Info("webhook processed", "preapproval_id", pre.ID, "status", pre.Status)
	metrics.WebhookEvents.WithLabelValues("processed").Inc()
	return nil
}

// applyUserStatus maps a gateway preapproval status onto the user's access
// state. An authorized preapproval opens a paid period one plan interval
// long; a paused one suspends access immediately.
func (s *subscriptionService) applyUserStatus(ctx context.Context, userID, planID, gatewayStatus string) error {
	var patch model.UserPatch
	var status string

	switch gatewayStatus {
	case model.SubAuthorized:
		status = model.StatusActive
		end := billing.PeriodEnd(billing.PlanInterval(s.planInterval(planID)), s.now())
		patch.SubscriptionPlan = &planID
		patch.SubscriptionEndDate = &end
	case model.SubCancelled:
		status = model.StatusCancelled
	case model.SubPaused:
		status = model.StatusExpired
	default:
		return nil
	}

	patch.SubscriptionStatus = &status
	if err := s.userRepo.UpdateSubscription(ctx, userID, patch); err != nil {
		return fmt.Errorf("update user subscription: %w", err)
	}
	metrics.SubscriptionTransitions.WithLabelValues(status).Inc()
	return nil
}

func (s *subscriptionService) planInterval(planID string) string {
	if plan, ok := s.plans.Get(planID); ok {
		return plan.Interval
	}
	return string(billing.IntervalMonthly)
}
