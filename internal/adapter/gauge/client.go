package gauge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/river-conditions/internal/domain"
)

// JSONFetcher is the part of fetch.Client the gauge client needs.
type JSONFetcher interface {
	GetJSON(ctx context.Context, source, url string, dest any) error
}

// Client reads Environment Agency flood-monitoring gauges.
type Client struct {
	fetcher JSONFetcher
	logger  *slog.Logger
}

// NewClient creates a gauge client.
func NewClient(fetcher JSONFetcher, logger *slog.Logger) *Client {
	return &Client{fetcher: fetcher, logger: logger}
}

// LatestAt reads items[index] from a station readings document
// (…/id/stations/{id}/readings?latest). The station lists one item per
// measure, so index selects the measure.
func (c *Client) LatestAt(ctx context.Context, url string, index int, location string) (domain.Reading, error) {
	var doc readingsResponse
	if err := c.fetcher.GetJSON(ctx, location, url, &doc); err != nil {
		return domain.Reading{}, err
	}
	if index < 0 || index >= len(doc.Items) {
		return domain.Reading{}, fmt.Errorf("%w: %s: items[%d] not present (%d items)", domain.ErrMissingReading, location, index, len(doc.Items))
	}
	return toReading(location, doc.Items[index])
}

// LatestMeasure reads items.latestReading from a per-measure document
// (…/id/measures/{id}).
func (c *Client) LatestMeasure(ctx context.Context, url string, location string) (domain.Reading, error) {
	var doc measureResponse
	if err := c.fetcher.GetJSON(ctx, location, url, &doc); err != nil {
		return domain.Reading{}, err
	}
	if doc.Items == nil || doc.Items.LatestReading == nil {
		return domain.Reading{}, fmt.Errorf("%w: %s: items.latestReading not present", domain.ErrMissingReading, location)
	}
	return toReading(location, *doc.Items.LatestReading)
}

func toReading(location string, item reading) (domain.Reading, error) {
	if item.Value == nil {
		return domain.Reading{}, fmt.Errorf("%w: %s: value not present", domain.ErrMissingReading, location)
	}
	if item.DateTime == nil {
		return domain.Reading{}, fmt.Errorf("%w: %s: dateTime not present", domain.ErrMissingReading, location)
	}
	ts, err := domain.ParseGaugeTime(*item.DateTime)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("%s: %w", location, err)
	}
	return domain.Reading{Location: location, Value: *item.Value, Timestamp: ts}, nil
}

// Flood-monitoring API response types.

type readingsResponse struct {
	Items []reading `json:"items"`
}

type measureResponse struct {
	Items *measure `json:"items"`
}

type measure struct {
	LatestReading *reading `json:"latestReading"`
}

type reading struct {
	DateTime *string  `json:"dateTime"`
	Value    *float64 `json:"value"`
}
