// Package openexchangerates is a client for the openexchangerates.org
// historical rates API. One GET per date, authenticated by an app_id query
// parameter. The client does not retry or cache; failure handling belongs to
// the refresh pipeline.
package openexchangerates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://openexchangerates.org/api"

	// DefaultTimeout bounds each historical-rates request.
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrAuthentication marks an invalid or missing credential (401/403). Fatal.
	ErrAuthentication = errors.New("open exchange rates: authentication failed")

	// ErrRequest marks a malformed request rejected upstream (400).
	ErrRequest = errors.New("open exchange rates: bad request")

	// ErrNotFound marks a date or path the API has no data for (404/405).
	ErrNotFound = errors.New("open exchange rates: not found")

	// ErrRequestLimit marks an upstream rate limit (429); callers may retry later.
	ErrRequestLimit = errors.New("open exchange rates: request limit reached")
)

// apiError is the error document the API returns alongside non-2xx statuses.
type apiError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

// historicalResponse is the wire shape of one historical document.
type historicalResponse struct {
	Timestamp int64              `json:"timestamp"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
}

// Client fetches historical rate snapshots.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client
}

// NewClient creates a client keyed by the given app ID. An empty baseURL
// selects the production API; a zero timeout selects DefaultTimeout.
func NewClient(appID, baseURL string, timeout time.Duration) (*Client, error) {
	if appID == "" {
		return nil, errors.New("open exchange rates app ID is not set")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		appID:      appID,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// HistoricalRatesFor fetches the full rate table for one calendar date.
func (c *Client) HistoricalRatesFor(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	path := fmt.Sprintf("historical/%s.json", date.Format("2006-01-02"))

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp historicalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("open exchange rates: decoding response: %w", err)
	}

	return &domain.RateSnapshot{
		Base:      resp.Base,
		Timestamp: resp.Timestamp,
		Rates:     resp.Rates,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s?app_id=%s", c.baseURL, path, url.QueryEscape(c.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("open exchange rates: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open exchange rates: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("open exchange rates: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrAuthentication, describeError(body))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrRequest, describeError(body))
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed:
		return nil, fmt.Errorf("%w: /%s", ErrNotFound, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRequestLimit, describeError(body))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("open exchange rates: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func describeError(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || (e.Message == "" && e.Description == "") {
		return string(body)
	}
	if e.Message == "" {
		return e.Description
	}
	return e.Message + ": " + e.Description
}
