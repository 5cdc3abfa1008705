// Package healthchecks pings external check-in endpoints after scheduled jobs.
package healthchecks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
)

// DefaultTimeout bounds each check-in request.
const DefaultTimeout = 10 * time.Second

// Client pings configured health-check URLs. Missing URLs surface as
// ErrNoURLConfigured so callers can downgrade to a warning.
type Client struct {
	heartbeatURL        string
	refreshCompletedURL string
	httpClient          *http.Client
}

// NewClient creates a health-check client. Either URL may be empty.
func NewClient(heartbeatURL, refreshCompletedURL string) *Client {
	return &Client{
		heartbeatURL:        heartbeatURL,
		refreshCompletedURL: refreshCompletedURL,
		httpClient:          &http.Client{Timeout: DefaultTimeout},
	}
}

// Ping checks in against the URL configured for the given kind.
func (c *Client) Ping(ctx context.Context, kind portssvc.HealthcheckKind) error {
	var pingURL string
	switch kind {
	case portssvc.HealthcheckHeartbeat:
		pingURL = c.heartbeatURL
	case portssvc.HealthcheckRefreshCompleted:
		pingURL = c.refreshCompletedURL
	default:
		return fmt.Errorf("unknown healthcheck kind %q", kind)
	}

	if pingURL == "" {
		return fmt.Errorf("%w: %s", portssvc.ErrNoURLConfigured, kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pingURL, nil)
	if err != nil {
		return fmt.Errorf("building healthcheck request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("healthcheck ping failed with status %d", resp.StatusCode)
	}

	slog.InfoContext(ctx, "Healthcheck ping succeeded", slog.String("kind", string(kind)))
	return nil
}
