package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means a source could not produce a document at all.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMissingReading means a document arrived but an expected field is absent.
	ErrMissingReading = errors.New("missing reading")

	// ErrUnrecognizedCategory means a value falls outside a closed vocabulary.
	ErrUnrecognizedCategory = errors.New("unrecognized category")

	// ErrUnknownAdvice is the lock-board flavour of ErrUnrecognizedCategory.
	ErrUnknownAdvice = fmt.Errorf("%w: unknown advice", ErrUnrecognizedCategory)

	// ErrMalformedTimestamp means a timestamp did not match its source format.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)
