package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"storefront-checkout/internal/domain"
)

const (
	createIntentPath = "/api/v1/payment_gateway/create-payment-intent"
	confirmPath      = "/api/v1/payment_gateway/confirm-payment-intent"
)

// Client talks to the payment gateway over HTTP. It implements Gateway.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// Config configures the gateway client.
type Config struct {
	// BaseURL is the gateway's base URL, without a trailing slash.
	BaseURL string
	// APIKey is sent as a bearer token when set.
	APIKey string
	// HTTPClient overrides the default client (optional).
	HTTPClient *http.Client
	// Timeout applies when no HTTPClient is given; defaults to 30s.
	Timeout time.Duration
	Logger  *log.Logger
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (c *Client) CreateIntent(ctx context.Context, in IntentRequest) (*Intent, error) {
	var out createIntentResponse
	if err := c.post(ctx, createIntentPath, in, &out); err != nil {
		return nil, err
	}
	if out.ClientSecret == "" {
		return nil, &domain.ExternalError{Service: "payment", Err: fmt.Errorf("gateway returned no client secret")}
	}
	return &Intent{Handle: out.ClientSecret}, nil
}

type confirmPayload struct {
	ClientSecret   string         `json:"clientSecret"`
	PaymentMethod  confirmCard    `json:"paymentMethod"`
	BillingDetails BillingDetails `json:"billingDetails"`
}

type confirmCard struct {
	Card Card `json:"card"`
}

type confirmResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (c *Client) Confirm(ctx context.Context, in ConfirmRequest) (*ConfirmResult, error) {
	payload := confirmPayload{
		ClientSecret:   in.Handle,
		PaymentMethod:  confirmCard{Card: in.Card},
		BillingDetails: in.Billing,
	}
	var out confirmResponse
	if err := c.post(ctx, confirmPath, payload, &out); err != nil {
		return nil, err
	}
	return &ConfirmResult{Status: out.Status, Reason: out.Reason}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ExternalError{Service: "payment", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.ExternalError{Service: "payment", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Printf("payment gateway: %s status=%d body=%s", path, resp.StatusCode, raw)
		return &domain.ExternalError{Service: "payment", Err: fmt.Errorf("gateway status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.ExternalError{Service: "payment", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
