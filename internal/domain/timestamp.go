package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	gaugeTimeLayout = "2006-01-02T15:04:05Z"
	flagTimeLayout  = "2006-01-02T15:04:05.000000Z"
	// Day without zero padding also accepts "01".
	boardTimeLayout = "2 January 2006 15:04"
)

// ParseGaugeTime parses an EA flood-monitoring dateTime, e.g. "2023-06-01T12:00:00Z".
func ParseGaugeTime(s string) (time.Time, error) {
	t, err := time.Parse(gaugeTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: gauge time %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// ParseFlagTime parses an OURC set_date with microseconds,
// e.g. "2023-06-01T07:31:02.123456Z". The fractional part is discarded.
func ParseFlagTime(s string) (time.Time, error) {
	t, err := time.Parse(flagTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: flag time %q", ErrMalformedTimestamp, s)
	}
	return t.Truncate(time.Second), nil
}

// ParseBoardTime parses the conditions page "last updated" stamp,
// e.g. "01 June 2023 09:15". The page gives local wall time without a zone;
// it is kept as-is and carried as UTC.
func ParseBoardTime(s string) (time.Time, error) {
	t, err := time.Parse(boardTimeLayout, strings.Join(strings.Fields(s), " "))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: board time %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}
