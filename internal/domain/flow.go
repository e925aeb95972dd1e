package domain

import (
	"errors"
	"fmt"
)

// Threshold is an inclusive lower bound and the tier it selects.
type Threshold struct {
	Min  float64
	Tier Tier
}

// ThresholdTable is a step function: steps are scanned from the highest bound
// down and the first bound the value meets wins; values below every bound get
// the floor tier.
type ThresholdTable struct {
	steps []Threshold
	floor Tier
}

// NewThresholdTable builds a table from steps given highest bound first.
// Bounds must be strictly descending.
func NewThresholdTable(floor Tier, steps ...Threshold) (ThresholdTable, error) {
	if floor == "" {
		return ThresholdTable{}, errors.New("threshold table: floor tier is required")
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].Min >= steps[i-1].Min {
			return ThresholdTable{}, fmt.Errorf("threshold table: bound %g does not descend from %g", steps[i].Min, steps[i-1].Min)
		}
	}
	return ThresholdTable{steps: append([]Threshold(nil), steps...), floor: floor}, nil
}

// MustThresholdTable is NewThresholdTable for package-level tables.
func MustThresholdTable(floor Tier, steps ...Threshold) ThresholdTable {
	t, err := NewThresholdTable(floor, steps...)
	if err != nil {
		panic(err)
	}
	return t
}

// Tiers returns every tier the table can produce, highest first.
func (t ThresholdTable) Tiers() []Tier {
	tiers := make([]Tier, 0, len(t.steps)+1)
	for _, s := range t.steps {
		tiers = append(tiers, s.Tier)
	}
	return append(tiers, t.floor)
}

var (
	// SingleStationThresholds classifies the Farmoor gauge flow (m³/s).
	SingleStationThresholds = MustThresholdTable(TierGreen,
		Threshold{Min: 55, Tier: TierRed},
		Threshold{Min: 45, Tier: TierAmber},
	)

	// DifferentialThresholds classifies the two-station Isis flow estimate.
	DifferentialThresholds = MustThresholdTable(TierGreen,
		Threshold{Min: 73, Tier: TierRed},
		Threshold{Min: 53, Tier: TierAmber},
		Threshold{Min: 33, Tier: TierBlue},
	)
)

// ClassifyFlow maps a flow rate onto a tier.
func ClassifyFlow(value float64, table ThresholdTable) Tier {
	for _, s := range table.steps {
		if value >= s.Min {
			return s.Tier
		}
	}
	return table.floor
}

// DifferentialFlow estimates flow from a downstream and an upstream level:
// 100 × (downstream − upstream − offset). The result is timestamped with the
// earlier of the two readings.
func DifferentialFlow(downstream, upstream Reading, offset float64) Reading {
	observed := downstream.Timestamp
	if upstream.Timestamp.Before(observed) {
		observed = upstream.Timestamp
	}
	return Reading{
		Location:  downstream.Location + "/" + upstream.Location,
		Value:     100 * (downstream.Value - upstream.Value - offset),
		Timestamp: observed,
	}
}

// ClassifySingleStation classifies a gauge's own flow reading.
func ClassifySingleStation(r Reading, label string) ClassifiedResult {
	return flowResult(label, r, ClassifyFlow(r.Value, SingleStationThresholds))
}

// ClassifyDifferential derives and classifies the two-station flow.
func ClassifyDifferential(downstream, upstream Reading, offset float64, label string) ClassifiedResult {
	r := DifferentialFlow(downstream, upstream, offset)
	return flowResult(label, r, ClassifyFlow(r.Value, DifferentialThresholds))
}

func flowResult(label string, r Reading, tier Tier) ClassifiedResult {
	return ClassifiedResult{
		Label:        label,
		Value:        FormatFlow(r.Value),
		Tier:         tier,
		Presentation: PresentationFor(tier),
		ObservedAt:   r.Timestamp,
	}
}

// FormatFlow renders a flow rate in m³/s.
func FormatFlow(v float64) string {
	return fmt.Sprintf("%.3f m³/s", v)
}
