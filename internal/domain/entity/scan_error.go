package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the address or start block failed local validation;
	// no request is sent in that case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount means a raw amount could not be parsed as a
	// non-negative integer.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDecimals means a decimals count is outside the supported range.
	ErrInvalidDecimals = errors.New("invalid decimals")

	// ErrInvalidPageSize means a page size outside the allowed set was requested.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrBalanceUnavailable means the historical balance capability is absent
	// or was denied by the provider. It is a first-class state: callers render
	// an explicit "unavailable" indicator, never a stale or fabricated number.
	ErrBalanceUnavailable = errors.New("historical balance unavailable")
)

// MalformedRecordError reports a single raw record that failed normalization.
// The orchestrator skips such records rather than aborting the batch.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: field %q: %s", e.Field, e.Reason)
}

// FetchError reports a failed query for one of the two entry sets. A failure
// is scoped to its set and never invalidates the other set's data.
type FetchError struct {
	View View
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s transfer fetch failed: %v", e.View, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
