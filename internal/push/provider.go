package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"storefront-checkout/internal/domain"
)

// Permission is the notification permission state reported by the provider.
type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// ErrPermissionDenied is returned when token issuance is attempted without a
// granted permission.
var ErrPermissionDenied = errors.New("notification permission not granted")

// TokenProvider issues device push tokens. Delivery of notifications is the
// provider's business, not ours.
type TokenProvider interface {
	RequestPermission(ctx context.Context, deviceID string) (Permission, error)
	RegisterAndGetToken(ctx context.Context, deviceID string) (string, error)
}

// Client is an HTTP TokenProvider. Issued tokens are cached per device: once
// obtained, a token is reused without another round trip.
type Client struct {
	baseURL    string
	vapidKey   string
	httpClient *http.Client
	logger     *log.Logger

	mu     sync.Mutex
	tokens map[string]string
}

type Config struct {
	BaseURL    string
	VAPIDKey   string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *log.Logger
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		vapidKey:   cfg.VAPIDKey,
		httpClient: httpClient,
		logger:     logger,
		tokens:     make(map[string]string),
	}
}

type permissionResponse struct {
	Permission string `json:"permission"`
}

func (c *Client) RequestPermission(ctx context.Context, deviceID string) (Permission, error) {
	var out permissionResponse
	err := c.post(ctx, "/v1/permission", map[string]string{"deviceId": deviceID}, &out)
	if err != nil {
		return PermissionDefault, err
	}
	switch Permission(out.Permission) {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return Permission(out.Permission), nil
	default:
		return PermissionDefault, nil
	}
}

type registerResponse struct {
	Token string `json:"token"`
}

// RegisterAndGetToken returns the cached token when one exists. Otherwise it
// requests permission, registers the device, and caches the issued token.
func (c *Client) RegisterAndGetToken(ctx context.Context, deviceID string) (string, error) {
	c.mu.Lock()
	if token, ok := c.tokens[deviceID]; ok {
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	permission, err := c.RequestPermission(ctx, deviceID)
	if err != nil {
		return "", err
	}
	if permission != PermissionGranted {
		return "", fmt.Errorf("%w: %s", ErrPermissionDenied, permission)
	}

	var out registerResponse
	payload := map[string]string{"deviceId": deviceID, "vapidKey": c.vapidKey}
	if err := c.post(ctx, "/v1/register", payload, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &domain.ExternalError{Service: "push", Err: errors.New("no registration token available")}
	}

	c.mu.Lock()
	c.tokens[deviceID] = out.Token
	c.mu.Unlock()
	return out.Token, nil
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ExternalError{Service: "push", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.ExternalError{Service: "push", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Printf("push provider: %s status=%d body=%s", path, resp.StatusCode, raw)
		return &domain.ExternalError{Service: "push", Err: fmt.Errorf("provider status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.ExternalError{Service: "push", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
