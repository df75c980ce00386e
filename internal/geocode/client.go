package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"storefront-checkout/internal/domain"
)

// Result is a reverse-geocoding answer in Nominatim's jsonv2 shape.
type Result struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// Address holds the components the storefront renders. City falls back to
// town, then village, the way small places are reported.
type Address struct {
	City    string `json:"city,omitempty"`
	Town    string `json:"town,omitempty"`
	Village string `json:"village,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Locality resolves the city/town/village fallback chain.
func (a Address) Locality() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	case a.Village != "":
		return a.Village
	default:
		return ""
	}
}

// Client resolves coordinates against a Nominatim-compatible service.
// Requests are limited to one per second per the service's usage policy, and
// duplicate in-flight lookups for the same coordinates are collapsed.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
	limiter    *rate.Limiter
	sfg        singleflight.Group
}

type Config struct {
	BaseURL    string
	UserAgent  string
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
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Reverse looks up the address at the given coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Result, error) {
	key := strconv.FormatFloat(lat, 'f', 6, 64) + "," + strconv.FormatFloat(lon, 'f', 6, 64)
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, lat, lon)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Nominatim requires an identifying user agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ExternalError{Service: "geocode", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.ExternalError{Service: "geocode", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("geocode: reverse lat=%f lon=%f status=%d", lat, lon, resp.StatusCode)
		return nil, &domain.ExternalError{Service: "geocode", Err: fmt.Errorf("service status %d", resp.StatusCode)}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &domain.ExternalError{Service: "geocode", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &result, nil
}
