// Command riverconditions prints the current flow, flag and lock-board
// conditions for the Oxford Thames as colour-coded tables.
//
// Usage:
//
//	go run ./cmd/riverconditions
//
// Sources, calibration and optional exports are configured through
// environment variables; see internal/config.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/river-conditions/internal/adapter/boards"
	"github.com/couchcryptid/river-conditions/internal/adapter/fetch"
	"github.com/couchcryptid/river-conditions/internal/adapter/flags"
	"github.com/couchcryptid/river-conditions/internal/adapter/gauge"
	"github.com/couchcryptid/river-conditions/internal/adapter/kafka"
	"github.com/couchcryptid/river-conditions/internal/config"
	"github.com/couchcryptid/river-conditions/internal/observability"
	"github.com/couchcryptid/river-conditions/internal/render"
	"github.com/couchcryptid/river-conditions/internal/report"
)

func main() {
	os.Exit(run(os.Stdout))
}

func run(stdout *os.File) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.NewClient(cfg.HTTPTimeout, metrics, logger)
	svc := report.NewService(
		report.Sources{
			FarmoorURL:        cfg.FarmoorURL,
			FarmoorItemIndex:  cfg.FarmoorItemIndex,
			IsisDownstreamURL: cfg.IsisDownstreamURL,
			IsisUpstreamURL:   cfg.IsisUpstreamURL,
			CalibrationOffset: cfg.CalibrationOffset,
		},
		gauge.NewClient(fetcher, logger),
		flags.NewClient(fetcher, cfg.FlagsIsisURL, cfg.FlagsGodstowURL, logger),
		boards.NewClient(fetcher, cfg.BoardsURL, logger),
		clockwork.NewRealClock(),
		logger,
		metrics,
	)

	rep, err := svc.Build(ctx)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		writeMetrics(cfg, metrics, logger)
		return 1
	}

	renderer := render.New(stdout, render.ColourEnabled(stdout, cfg.NoColor))
	if err := renderer.Render(rep); err != nil {
		logger.Error("failed to render report", "error", err)
		return 1
	}

	if cfg.KafkaEnabled() {
		if err := publish(ctx, cfg, rep, logger); err != nil {
			logger.Error("failed to publish report", "error", err)
			return 1
		}
	}

	if !writeMetrics(cfg, metrics, logger) {
		return 1
	}
	return 0
}

func publish(ctx context.Context, cfg *config.Config, rep report.Report, logger *slog.Logger) error {
	w := kafka.NewWriter(cfg, logger)
	defer closeQuietly(w, logger)
	return w.Publish(ctx, rep)
}

// writeMetrics exports the run's metrics when a textfile is configured.
// Failed runs export too, so fetch errors are visible to the collector.
func writeMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) bool {
	if cfg.MetricsTextfile == "" {
		return true
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("failed to write metrics", "error", err)
		return false
	}
	return true
}

func closeQuietly(c io.Closer, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("close error", "error", err)
	}
}
