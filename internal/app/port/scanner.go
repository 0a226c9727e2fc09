package port

import (
	"context"
	"math/big"
	"time"

	"account_scanner/internal/domain/entity"
)

// ScanOutcome summarizes one scan invocation for the presentation layer.
type ScanOutcome struct {
	ScanID       string
	Address      string
	NativeCount  int
	TokenCount   int
	NativeErr    error
	TokenErr     error
	SkippedCount int
}

// Total is an aggregated amount exposed as plain data: the exact raw integer,
// the decimal basis it is expressed in, and the display rendering.
type Total struct {
	Raw      *big.Int
	Decimals int
	Display  string
}

// BalanceByDate is the resolved point-in-time balance state. Exactly one of
// the three shapes occurs: no reference (NoReference true, zero balance),
// a resolved balance (Raw/Display set), or an unavailable capability
// (Unavailable true).
type BalanceByDate struct {
	ReferenceBlock uint64
	NoReference    bool
	Unavailable    bool
	Raw            *big.Int
	Display        string
}

// ScannerService drives the two transfer queries for an address and exposes
// snapshots of the resulting entry sets.
type ScannerService interface {
	// Scan validates the input, fetches both transfer sets concurrently and
	// replaces the held sets with the results (last-write-wins per set). A
	// per-set failure is reported in the outcome and leaves the other set intact.
	Scan(ctx context.Context, address string, startBlock uint64) (ScanOutcome, error)

	// Address returns the most recently scanned address, empty before any scan.
	Address() string

	// Entries returns the current snapshot of one entry set.
	Entries(view entity.View) []entity.LedgerEntry

	// Window returns one display page of the selected set. A negative page
	// keeps the set's current page, which resets to zero whenever the set is
	// replaced by a new scan.
	Window(view entity.View, page, pageSize int) ([]entity.LedgerEntry, error)

	// Total returns the exact aggregated amount of the selected set at its
	// reference precision.
	Total(view entity.View) (Total, error)

	// CurrentPage returns the page the selected set is positioned on.
	CurrentPage(view entity.View) int

	// LastError returns the most recent fetch failure scoped to one set, or
	// nil if its last fetch succeeded.
	LastError(view entity.View) error
}

// BalanceService resolves an account's balance as of a calendar date.
type BalanceService interface {
	// BalanceAt maps the date to a reference block over the current native
	// entry set and queries the historical balance collaborator for it.
	BalanceAt(ctx context.Context, date time.Time) (BalanceByDate, error)
}
