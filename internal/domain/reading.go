package domain

import (
	"fmt"
	"time"
)

// DisplayTimeLayout is how every result timestamp is shown.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// Reading is a single timestamped value from one gauge.
type Reading struct {
	Location  string    `json:"location"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Tier is a severity category. Each source defines its own closed set.
type Tier string

const (
	TierGreen  Tier = "green"
	TierBlue   Tier = "blue"
	TierAmber  Tier = "amber"
	TierYellow Tier = "yellow"
	TierOrange Tier = "orange"
	TierRed    Tier = "red"
	TierBlack  Tier = "black"
	TierGrey   Tier = "grey"
)

// Presentation is a display rule attached to a tier.
type Presentation int

const (
	PresentPlain Presentation = iota
	// PresentDim de-emphasises a result (grey).
	PresentDim
	// PresentAttention makes a result stand out where its colour would not (black).
	PresentAttention
)

func (p Presentation) String() string {
	switch p {
	case PresentDim:
		return "dim"
	case PresentAttention:
		return "attention"
	default:
		return "plain"
	}
}

// PresentationFor returns the display rule for a tier: grey is dimmed and
// black gets the attention style, everything else is plain.
func PresentationFor(t Tier) Presentation {
	switch t {
	case TierGrey:
		return PresentDim
	case TierBlack:
		return PresentAttention
	default:
		return PresentPlain
	}
}

// ClassifiedResult is one rendered row: what was measured, how it displays,
// and which tier it falls in.
type ClassifiedResult struct {
	Label        string       `json:"label"`
	Value        string       `json:"value"`
	Advice       string       `json:"advice,omitempty"` // lock boards only
	Tier         Tier         `json:"tier"`
	Presentation Presentation `json:"-"`
	ObservedAt   time.Time    `json:"observed_at"`
}

// Timestamp formats ObservedAt for display.
func (r ClassifiedResult) Timestamp() string {
	return r.ObservedAt.Format(DisplayTimeLayout)
}

// Reach is a stretch of river with its own rowing flag.
type Reach int

const (
	ReachIsis Reach = iota
	ReachGodstow
)

// Reaches lists every flagged reach in display order.
var Reaches = []Reach{ReachIsis, ReachGodstow}

func (r Reach) String() string {
	switch r {
	case ReachIsis:
		return "isis"
	case ReachGodstow:
		return "godstow"
	default:
		return fmt.Sprintf("reach(%d)", int(r))
	}
}

// Lock is a lock whose stream-advice board is reported.
type Lock int

const (
	LockGodstow Lock = iota
	LockOsney
	LockIffley
	LockSandford
)

// Locks lists every reported lock, upstream first.
var Locks = []Lock{LockGodstow, LockOsney, LockIffley, LockSandford}

func (l Lock) String() string {
	switch l {
	case LockGodstow:
		return "godstow"
	case LockOsney:
		return "osney"
	case LockIffley:
		return "iffley"
	case LockSandford:
		return "sandford"
	default:
		return fmt.Sprintf("lock(%d)", int(l))
	}
}
