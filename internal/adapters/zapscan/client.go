package zapscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/linkguardian/linkguardian/internal/core"
	"go.uber.org/zap"
)

// Client drives an OWASP ZAP instance over its JSON API. A scan is a fixed
// three-step sequence: access the target, start a spider crawl, then after a
// settle delay collect the alerts accumulated for the base URL. Each call is
// a single attempt with a bounded timeout; there are no retries.
type Client struct {
	apiURL      string
	httpClient  *http.Client
	settleDelay time.Duration
	logger      *zap.Logger
}

// NewClient creates a new ZAP API client
func NewClient(apiURL string, timeout time.Duration, settleDelay time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiURL:      apiURL,
		httpClient:  &http.Client{Timeout: timeout},
		settleDelay: settleDelay,
		logger:      logger,
	}
}

// Scan runs the access/spider/alerts sequence for a target URL. Any transport
// failure or timeout aborts the sequence.
func (c *Client) Scan(ctx context.Context, target string) (*core.ScanFindings, error) {
	if _, err := c.get(ctx, "/JSON/core/action/accessUrl/", url.Values{"url": {target}}); err != nil {
		return nil, fmt.Errorf("failed to access target: %w", err)
	}

	if _, err := c.get(ctx, "/JSON/spider/action/scan/", url.Values{"url": {target}}); err != nil {
		return nil, fmt.Errorf("failed to start spider: %w", err)
	}

	// Give the asynchronous crawl time to populate alerts. This is a plain
	// wait, not a completion poll; a caller cannot abort an in-flight scan.
	c.logger.Debug("Waiting for spider to settle",
		zap.String("target", target),
		zap.Duration("delay", c.settleDelay))
	time.Sleep(c.settleDelay)

	body, err := c.get(ctx, "/JSON/core/view/alerts/", url.Values{"baseurl": {target}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}

	var findings core.ScanFindings
	if err := json.Unmarshal(body, &findings); err != nil {
		return nil, fmt.Errorf("failed to parse alerts payload: %w", err)
	}

	c.logger.Info("Collected scan findings",
		zap.String("target", target),
		zap.Int("alert_count", len(findings.Alerts)))

	return &findings, nil
}

// get performs one API call and returns the response body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.apiURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	return body, nil
}
