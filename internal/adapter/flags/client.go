package flags

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/river-conditions/internal/domain"
)

// JSONFetcher is the part of fetch.Client the flag client needs.
type JSONFetcher interface {
	GetJSON(ctx context.Context, source, url string, dest any) error
}

// Status is a reach's raw flag state.
type Status struct {
	Reach domain.Reach
	// Raw is the lower-cased status text, e.g. "red".
	Raw   string
	SetAt time.Time
}

// Client reads the OURC flag API.
type Client struct {
	fetcher JSONFetcher
	urls    map[domain.Reach]string
	logger  *slog.Logger
}

// NewClient creates a flag client with one endpoint per reach.
func NewClient(fetcher JSONFetcher, isisURL, godstowURL string, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		urls: map[domain.Reach]string{
			domain.ReachIsis:    isisURL,
			domain.ReachGodstow: godstowURL,
		},
		logger: logger,
	}
}

// Status fetches the current flag for a reach.
func (c *Client) Status(ctx context.Context, reach domain.Reach) (Status, error) {
	url, ok := c.urls[reach]
	if !ok {
		return Status{}, fmt.Errorf("no flag endpoint for %s", reach)
	}

	source := "flag_" + reach.String()
	var doc flagResponse
	if err := c.fetcher.GetJSON(ctx, source, url, &doc); err != nil {
		return Status{}, err
	}
	if doc.StatusText == nil {
		return Status{}, fmt.Errorf("%w: %s: status_text not present", domain.ErrMissingReading, source)
	}
	if doc.SetDate == nil {
		return Status{}, fmt.Errorf("%w: %s: set_date not present", domain.ErrMissingReading, source)
	}

	setAt, err := domain.ParseFlagTime(*doc.SetDate)
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", source, err)
	}

	raw := strings.ToLower(strings.TrimSpace(*doc.StatusText))
	c.logger.Debug("flag status", "reach", reach.String(), "status", raw, "set_at", setAt)
	return Status{Reach: reach, Raw: raw, SetAt: setAt}, nil
}

type flagResponse struct {
	StatusText *string `json:"status_text"`
	SetDate    *string `json:"set_date"`
}
