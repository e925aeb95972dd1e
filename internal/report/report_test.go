package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/river-conditions/internal/adapter/boards"
	"github.com/couchcryptid/river-conditions/internal/adapter/flags"
	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/observability"
)

const (
	testFarmoorURL    = "http://gauge/farmoor"
	testDownstreamURL = "http://gauge/down"
	testUpstreamURL   = "http://gauge/up"
)

var (
	t1 = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 = time.Date(2023, 6, 1, 12, 15, 0, 0, time.UTC)
)

type fakeGauges struct {
	readings map[string]domain.Reading
	err      error
	calls    []string
}

func (f *fakeGauges) LatestAt(_ context.Context, url string, index int, location string) (domain.Reading, error) {
	f.calls = append(f.calls, location)
	if f.err != nil {
		return domain.Reading{}, f.err
	}
	if index != 1 {
		return domain.Reading{}, domain.ErrMissingReading
	}
	r := f.readings[url]
	r.Location = location
	return r, nil
}

func (f *fakeGauges) LatestMeasure(_ context.Context, url string, location string) (domain.Reading, error) {
	f.calls = append(f.calls, location)
	if f.err != nil {
		return domain.Reading{}, f.err
	}
	r := f.readings[url]
	r.Location = location
	return r, nil
}

type fakeFlags struct {
	statuses map[domain.Reach]string
	err      error
}

func (f *fakeFlags) Status(_ context.Context, reach domain.Reach) (flags.Status, error) {
	if f.err != nil {
		return flags.Status{}, f.err
	}
	return flags.Status{Reach: reach, Raw: f.statuses[reach], SetAt: t1}, nil
}

type fakeBoards struct {
	report boards.Report
	err    error
}

func (f *fakeBoards) Advice(context.Context) (boards.Report, error) {
	return f.report, f.err
}

func testSources() Sources {
	return Sources{
		FarmoorURL:        testFarmoorURL,
		FarmoorItemIndex:  1,
		IsisDownstreamURL: testDownstreamURL,
		IsisUpstreamURL:   testUpstreamURL,
		CalibrationOffset: 2.07,
	}
}

func happyGauges() *fakeGauges {
	return &fakeGauges{readings: map[string]domain.Reading{
		testFarmoorURL:    {Value: 60.0, Timestamp: t1},
		testDownstreamURL: {Value: 2.50, Timestamp: t2},
		testUpstreamURL:   {Value: 0.00, Timestamp: t1},
	}}
}

func happyFlags() *fakeFlags {
	return &fakeFlags{statuses: map[domain.Reach]string{
		domain.ReachIsis:    "black",
		domain.ReachGodstow: "grey",
	}}
}

func happyBoards() *fakeBoards {
	return &fakeBoards{report: boards.Report{
		Advice: map[domain.Lock]string{
			domain.LockGodstow:  "no stream warnings",
			domain.LockOsney:    "caution stream increasing",
			domain.LockIffley:   "caution stream decreasing",
			domain.LockSandford: "caution strong stream",
		},
		UpdatedAt: t2,
	}}
}

func newTestService(g GaugeSource, f FlagSource, b BoardSource) (*Service, *observability.Metrics, clockwork.Clock) {
	clock := clockwork.NewFakeClockAt(time.Date(2023, 6, 1, 13, 0, 0, 0, time.UTC))
	m := observability.NewMetrics()
	return NewService(testSources(), g, f, b, clock, observability.DiscardLogger(), m), m, clock
}

func TestService_Build(t *testing.T) {
	g := happyGauges()
	svc, m, clock := newTestService(g, happyFlags(), happyBoards())

	r, err := svc.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, clock.Now(), r.GeneratedAt)
	assert.Equal(t, []string{"farmoor", "isis_downstream", "isis_upstream"}, g.calls)

	require.Len(t, r.Flows, 2)
	assert.Equal(t, LabelFarmoor, r.Flows[0].Label)
	assert.Equal(t, domain.TierRed, r.Flows[0].Tier)
	assert.Equal(t, "2023-06-01 12:00:00", r.Flows[0].Timestamp())

	assert.Equal(t, LabelIsis, r.Flows[1].Label)
	assert.Equal(t, domain.TierBlue, r.Flows[1].Tier)
	assert.Equal(t, "43.000 m³/s", r.Flows[1].Value)
	assert.Equal(t, t1, r.Flows[1].ObservedAt)

	require.Len(t, r.Flags, 2)
	assert.Equal(t, "Isis", r.Flags[0].Label)
	assert.Equal(t, domain.PresentAttention, r.Flags[0].Presentation)
	assert.Equal(t, "Godstow", r.Flags[1].Label)
	assert.Equal(t, domain.PresentDim, r.Flags[1].Presentation)

	require.Len(t, r.Boards, 4)
	labels := make([]string, 0, len(r.Boards))
	for _, b := range r.Boards {
		labels = append(labels, b.Label)
		assert.Equal(t, t2, b.ObservedAt)
	}
	assert.Equal(t, []string{"Godstow", "Osney", "Iffley", "Sandford"}, labels)
	assert.Equal(t, domain.TierRed, r.Boards[3].Tier)

	assert.InDelta(t, 60.0, testutil.ToFloat64(m.FlowRate.WithLabelValues(LabelFarmoor)), 1e-9)
	assert.InDelta(t, 43.0, testutil.ToFloat64(m.FlowRate.WithLabelValues(LabelIsis)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Classification.WithLabelValues(TableBoards, "Sandford", "red")), 0)
	assert.InDelta(t, float64(clock.Now().Unix()), testutil.ToFloat64(m.LastRun), 0)
}

func TestService_Build_GaugeFailure(t *testing.T) {
	g := &fakeGauges{err: domain.ErrSourceUnavailable}
	svc, _, _ := newTestService(g, happyFlags(), happyBoards())

	_, err := svc.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "flow rates")
	assert.Equal(t, []string{"farmoor"}, g.calls)
}

func TestService_Build_UnknownFlag(t *testing.T) {
	f := happyFlags()
	f.statuses[domain.ReachGodstow] = "purple"
	svc, m, _ := newTestService(happyGauges(), f, happyBoards())

	_, err := svc.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedCategory)
	assert.Contains(t, err.Error(), "flags")
	assert.Equal(t, 0, testutil.CollectAndCount(m.Classification))
}

func TestService_Build_UnknownAdvice(t *testing.T) {
	b := happyBoards()
	b.report.Advice[domain.LockOsney] = "river closed"
	svc, _, _ := newTestService(happyGauges(), happyFlags(), b)

	_, err := svc.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownAdvice)
	assert.Contains(t, err.Error(), "lock boards")
}

func TestService_Build_MissingBoard(t *testing.T) {
	b := happyBoards()
	delete(b.report.Advice, domain.LockIffley)
	svc, _, _ := newTestService(happyGauges(), happyFlags(), b)

	_, err := svc.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingReading)
}

func TestService_Build_BoardsUnavailable(t *testing.T) {
	svc, _, _ := newTestService(happyGauges(), happyFlags(), &fakeBoards{err: errors.Join(domain.ErrSourceUnavailable, errors.New("dial tcp"))})

	_, err := svc.Build(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestReport_Tables(t *testing.T) {
	r := Report{Flows: make([]domain.ClassifiedResult, 2), Flags: make([]domain.ClassifiedResult, 2), Boards: make([]domain.ClassifiedResult, 4)}

	tables := r.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, TableFlow, tables[0].Name)
	assert.Equal(t, TableFlags, tables[1].Name)
	assert.Equal(t, TableBoards, tables[2].Name)
	assert.Len(t, tables[2].Results, 4)
}
