package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html"

	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/observability"
)

const (
	userAgent    = "river-conditions/1.0"
	maxErrorBody = 512
)

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client fetches JSON and HTML documents. It never retries: any failure is
// returned wrapped in domain.ErrSourceUnavailable.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a fetch client with a per-request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// GetJSON fetches url and decodes the JSON body into dest.
// source names the fetch in logs and metrics.
func (c *Client) GetJSON(ctx context.Context, source, url string, dest any) error {
	body, err := c.get(ctx, source, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return fmt.Errorf("%w: %s: decode json: %w", domain.ErrSourceUnavailable, source, err)
	}
	return nil
}

// GetHTML fetches url and parses the body into a node tree.
func (c *Client) GetHTML(ctx context.Context, source, url string) (*html.Node, error) {
	body, err := c.get(ctx, source, url, "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("%w: %s: parse html: %w", domain.ErrSourceUnavailable, source, err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, source, url, accept string) ([]byte, error) {
	start := time.Now()
	body, err := c.doRequest(ctx, url, accept)
	elapsed := time.Since(start)
	c.metrics.FetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())

	if err != nil {
		c.metrics.FetchErrors.WithLabelValues(source).Inc()
		c.logger.Debug("fetch failed", "source", source, "url", url, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, source, err)
	}
	c.logger.Debug("fetched", "source", source, "url", url, "bytes", len(body), "duration", elapsed)
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
