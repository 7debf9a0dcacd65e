package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CheckoutSession is the provider's handle for a pending payment.
type CheckoutSession struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	ExpiresAt   string `json:"expiresAt"`
}

// Provider creates checkout sessions with an external payment gateway.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, bookingID, userID uuid.UUID, amountCents int64) (*CheckoutSession, error)
}

// Client talks to the payment gateway's HTTP API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// ClientConfig holds the gateway endpoint, credentials and the URLs the
// gateway redirects the shopper to after checkout.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	SuccessURL string
	CancelURL  string
}

// NewClient creates a payment gateway client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type checkoutRequest struct {
	BookingID   string `json:"bookingId"`
	UserID      string `json:"userId"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	SuccessURL  string `json:"successUrl"`
	CancelURL   string `json:"cancelUrl"`
}

// CreateCheckoutSession asks the gateway to open a checkout session for the
// booking amount.
func (c *Client) CreateCheckoutSession(ctx context.Context, bookingID, userID uuid.UUID, amountCents int64) (*CheckoutSession, error) {
	body, err := json.Marshal(checkoutRequest{
		BookingID:   bookingID.String(),
		UserID:      userID.String(),
		AmountCents: amountCents,
		Currency:    "USD",
		SuccessURL:  c.cfg.SuccessURL,
		CancelURL:   c.cfg.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}
