// Package mercadopago provides a lightweight Mercado Pago API client for
// FinançasGO subscription billing. Uses raw HTTP calls against the
// preapproval API (no SDK) to minimize external dependencies.
package mercadopago

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"context"
)

const apiBase = "https://api.mercadopago.com"

// ErrNotConfigured is returned when no access token is set.
var ErrNotConfigured = errors.New("mercadopago: not configured")

// PreapprovalParams holds the fields needed to create a recurring
// subscription (preapproval).
type PreapprovalParams struct {
	Reason            string
	PayerEmail        string
	BackURL           string
	ExternalReference string
	Frequency         int
	FrequencyType     string // "months" or "years"
	TransactionAmount float64
	CurrencyID        string // "BRL"
}

// AutoRecurring mirrors the preapproval's recurrence block.
type AutoRecurring struct {
	Frequency         int     `json:"frequency"`
	FrequencyType     string  `json:"frequency_type"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
}

// Preapproval is the subset of the preapproval resource the backend uses.
type Preapproval struct {
	ID            string        `json:"id"`
	Status        string        `json:"status"` // pending / authorized / paused / cancelled
	PayerEmail    string        `json:"payer_email"`
	InitPoint     string        `json:"init_point"`
	AutoRecurring AutoRecurring `json:"auto_recurring"`
}

// WebhookEvent is a Mercado Pago webhook notification envelope.
type WebhookEvent struct {
	ID   json.Number `json:"id"`
	Type string      `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// IsSubscription reports whether the event concerns a preapproval.
func (e WebhookEvent) IsSubscription() bool {
	return e.Type == "subscription_preapproval" || e.Type == "subscription"
}

// Client is the Mercado Pago API client interface.
type Client interface {
	// CreatePreapproval creates a recurring subscription and returns the
	// resource including the hosted checkout init_point URL.
	CreatePreapproval(ctx context.Context, params PreapprovalParams) (*Preapproval, error)
	// GetPreapproval fetches the current state of a preapproval.
	GetPreapproval(ctx context.Context, id string) (*Preapproval, error)
	// CancelPreapproval sets the preapproval status to cancelled.
	CancelPreapproval(ctx context.Context, id string) error
	// VerifyWebhookSignature validates the x-signature header against the
	// id/request-id/ts manifest.
	VerifyWebhookSignature(dataID, requestID, sigHeader string) error
	// ParseWebhookEvent parses a webhook notification payload.
	ParseWebhookEvent(payload []byte) (WebhookEvent, error)
}

// RealClient is the raw HTTP implementation of Client.
type RealClient struct {
	AccessToken   string
	WebhookSecret string
	httpClient    *http.Client
}

// NewClient creates a RealClient.
func NewClient(accessToken, webhookSecret string) *RealClient {
	return &RealClient{
		AccessToken:   accessToken,
		WebhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

func (c *RealClient) do(ctx context.Context, method, path string, body any, out any) error {
	if c.AccessToken == "" {
		return ErrNotConfigured
	}

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiBase+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		return fmt.Errorf("mercadopago %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *RealClient) CreatePreapproval(ctx context.Context, params PreapprovalParams) (*Preapproval, error) {
	body := map[string]any{
		"reason":             params.Reason,
		"payer_email":        params.PayerEmail,
		"back_url":           params.BackURL,
		"external_reference": params.ExternalReference,
		"auto_recurring": map[string]any{
			"frequency":          params.Frequency,
			"frequency_type":     params.FrequencyType,
			"transaction_amount": params.TransactionAmount,
			"currency_id":        params.CurrencyID,
		},
	}

	var pre Preapproval
	if err := c.do(ctx, http.MethodPost, "/preapproval", body, &pre); err != nil {
		return nil, err
	}
	if pre.ID == "" {
		return nil, errors.New("mercadopago: empty preapproval ID in response")
	}
	return &pre, nil
}

func (c *RealClient) GetPreapproval(ctx context.Context, id string) (*Preapproval, error) {
	var pre Preapproval
	if err := c.do(ctx, http.MethodGet, "/preapproval/"+id, nil, &pre); err != nil {
		return nil, err
	}
	return &pre, nil
}

func (c *RealClient) CancelPreapproval(ctx context.Context, id string) error {
	body := map[string]any{"status": "cancelled"}
	return c.do(ctx, http.MethodPut, "/preapproval/"+id, body, nil)
}

// VerifyWebhookSignature checks the x-signature header (ts=...,v1=...) by
// recomputing the HMAC-SHA256 of the documented manifest
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func (c *RealClient) VerifyWebhookSignature(dataID, requestID, sigHeader string) error {
	if c.WebhookSecret == "" {
		return ErrNotConfigured
	}

	var timestamp, signature string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}
	if timestamp == "" || signature == "" {
		return errors.New("mercadopago: invalid signature header format")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.New("mercadopago: invalid timestamp in signature header")
	}
	if time.Since(time.UnixMilli(ts)) > 5*time.Minute {
		return errors.New("mercadopago: webhook timestamp too old (replay attack protection)")
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(dataID), requestID, timestamp)
	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("mercadopago: signature verification failed")
	}
	return nil
}

func (c *RealClient) ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return WebhookEvent{}, err
	}
	return event, nil
}
