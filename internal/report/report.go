package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/river-conditions/internal/adapter/boards"
	"github.com/couchcryptid/river-conditions/internal/adapter/flags"
	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/observability"
)

// Table names, used as metric and export labels.
const (
	TableFlow   = "flow"
	TableFlags  = "flags"
	TableBoards = "boards"
)

// Row labels for the flow table.
const (
	LabelFarmoor = "Farmoor"
	LabelIsis    = "Isis"
)

// GaugeSource reads flow and level gauges.
type GaugeSource interface {
	LatestAt(ctx context.Context, url string, index int, location string) (domain.Reading, error)
	LatestMeasure(ctx context.Context, url string, location string) (domain.Reading, error)
}

// FlagSource reads rowing flags per reach.
type FlagSource interface {
	Status(ctx context.Context, reach domain.Reach) (flags.Status, error)
}

// BoardSource reads lock stream-advice boards.
type BoardSource interface {
	Advice(ctx context.Context) (boards.Report, error)
}

// Sources holds the gauge endpoints and the calibration the flow table needs.
type Sources struct {
	FarmoorURL        string
	FarmoorItemIndex  int
	IsisDownstreamURL string
	IsisUpstreamURL   string
	CalibrationOffset float64
}

// Report is everything one run renders.
type Report struct {
	Flows       []domain.ClassifiedResult `json:"flows"`
	Flags       []domain.ClassifiedResult `json:"flags"`
	Boards      []domain.ClassifiedResult `json:"boards"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// Tables returns the report's results keyed by table name, in display order.
func (r Report) Tables() []Table {
	return []Table{
		{Name: TableFlow, Results: r.Flows},
		{Name: TableFlags, Results: r.Flags},
		{Name: TableBoards, Results: r.Boards},
	}
}

// Table is a named group of results.
type Table struct {
	Name    string
	Results []domain.ClassifiedResult
}

// Service fetches every source in turn and classifies the results.
type Service struct {
	sources Sources
	gauges  GaugeSource
	flags   FlagSource
	boards  BoardSource
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a report Service.
func NewService(sources Sources, g GaugeSource, f FlagSource, b BoardSource, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		sources: sources,
		gauges:  g,
		flags:   f,
		boards:  b,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Build fetches flow, then flags, then boards, sequentially. The first
// failure aborts the run; there is no partial report.
func (s *Service) Build(ctx context.Context) (Report, error) {
	flows, err := s.buildFlows(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("flow rates: %w", err)
	}

	flagResults, err := s.buildFlags(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("flags: %w", err)
	}

	boardResults, err := s.buildBoards(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("lock boards: %w", err)
	}

	r := Report{
		Flows:       flows,
		Flags:       flagResults,
		Boards:      boardResults,
		GeneratedAt: s.clock.Now(),
	}
	s.record(r)
	return r, nil
}

func (s *Service) buildFlows(ctx context.Context) ([]domain.ClassifiedResult, error) {
	farmoor, err := s.gauges.LatestAt(ctx, s.sources.FarmoorURL, s.sources.FarmoorItemIndex, "farmoor")
	if err != nil {
		return nil, err
	}
	s.logAge(farmoor)

	downstream, err := s.gauges.LatestMeasure(ctx, s.sources.IsisDownstreamURL, "isis_downstream")
	if err != nil {
		return nil, err
	}
	upstream, err := s.gauges.LatestMeasure(ctx, s.sources.IsisUpstreamURL, "isis_upstream")
	if err != nil {
		return nil, err
	}
	s.logAge(downstream)
	s.logAge(upstream)

	single := domain.ClassifySingleStation(farmoor, LabelFarmoor)
	differential := domain.ClassifyDifferential(downstream, upstream, s.sources.CalibrationOffset, LabelIsis)

	s.metrics.FlowRate.WithLabelValues(LabelFarmoor).Set(farmoor.Value)
	s.metrics.FlowRate.WithLabelValues(LabelIsis).Set(domain.DifferentialFlow(downstream, upstream, s.sources.CalibrationOffset).Value)

	return []domain.ClassifiedResult{single, differential}, nil
}

func (s *Service) buildFlags(ctx context.Context) ([]domain.ClassifiedResult, error) {
	results := make([]domain.ClassifiedResult, 0, len(domain.Reaches))
	for _, reach := range domain.Reaches {
		status, err := s.flags.Status(ctx, reach)
		if err != nil {
			return nil, err
		}
		result, err := domain.FlagResult(reach, status.Raw, status.SetAt)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) buildBoards(ctx context.Context) ([]domain.ClassifiedResult, error) {
	report, err := s.boards.Advice(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ClassifiedResult, 0, len(domain.Locks))
	for _, lock := range domain.Locks {
		phrase, ok := report.Advice[lock]
		if !ok {
			return nil, fmt.Errorf("%w: no advice for %s", domain.ErrMissingReading, lock)
		}
		result, err := domain.BoardResult(lock, phrase, report.UpdatedAt)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *Service) record(r Report) {
	for _, t := range r.Tables() {
		for _, res := range t.Results {
			s.metrics.Classification.WithLabelValues(t.Name, res.Label, string(res.Tier)).Set(1)
		}
	}
	s.metrics.LastRun.Set(float64(r.GeneratedAt.Unix()))
}

func (s *Service) logAge(r domain.Reading) {
	s.logger.Debug("gauge reading",
		"location", r.Location,
		"value", r.Value,
		"observed_at", r.Timestamp,
		"age", s.clock.Since(r.Timestamp).Round(time.Second),
	)
}
