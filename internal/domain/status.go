package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// flagColours is the closed vocabulary of OURC flag states.
var flagColours = map[string]Tier{
	"green":  TierGreen,
	"blue":   TierBlue,
	"orange": TierOrange,
	"red":    TierRed,
	"black":  TierBlack,
	"grey":   TierGrey,
}

// adviceTiers maps every known lock-board phrase to its tier. Matching is
// exact; there is no partial match and no default.
var adviceTiers = map[string]Tier{
	"caution strong stream":     TierRed,
	"caution stream increasing": TierYellow,
	"caution stream decreasing": TierYellow,
	"no stream warnings":        TierGrey,
}

// ClassifyFlag validates a lower-cased flag status. The flag colour is its
// own tier.
func ClassifyFlag(raw string) (Tier, Presentation, error) {
	tier, ok := flagColours[raw]
	if !ok {
		return "", PresentPlain, fmt.Errorf("%w: flag %q", ErrUnrecognizedCategory, raw)
	}
	return tier, PresentationFor(tier), nil
}

// ClassifyAdvice maps a lower-cased lock-board phrase to its tier.
func ClassifyAdvice(raw string) (Tier, error) {
	tier, ok := adviceTiers[raw]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAdvice, raw)
	}
	return tier, nil
}

// FlagResult classifies a reach's flag into a result row.
func FlagResult(reach Reach, raw string, setAt time.Time) (ClassifiedResult, error) {
	tier, pres, err := ClassifyFlag(raw)
	if err != nil {
		return ClassifiedResult{}, fmt.Errorf("%s flag: %w", reach, err)
	}
	return ClassifiedResult{
		Label:        DisplayName(reach.String()),
		Value:        raw,
		Tier:         tier,
		Presentation: pres,
		ObservedAt:   setAt,
	}, nil
}

// BoardResult classifies a lock's advice phrase into a result row.
func BoardResult(lock Lock, phrase string, updatedAt time.Time) (ClassifiedResult, error) {
	tier, err := ClassifyAdvice(phrase)
	if err != nil {
		return ClassifiedResult{}, fmt.Errorf("%s board: %w", lock, err)
	}
	return ClassifiedResult{
		Label:        DisplayName(lock.String()),
		Value:        string(tier),
		Advice:       phrase,
		Tier:         tier,
		Presentation: PresentationFor(tier),
		ObservedAt:   updatedAt,
	}, nil
}

// DisplayName title-cases an identifier for display ("godstow" -> "Godstow").
func DisplayName(s string) string {
	return cases.Title(language.BritishEnglish).String(s)
}
