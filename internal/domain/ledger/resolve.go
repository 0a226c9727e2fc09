package ledger

import (
	"sort"
	"time"

	"account_scanner/internal/domain/entity"
)

// Cutoff returns the UTC-midnight timestamp of the given calendar date,
// in seconds since epoch. Time-of-day in the input is ignored.
func Cutoff(date time.Time) uint64 {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return uint64(midnight.Unix())
}

// ResolveReference finds the block to anchor a historical balance query for
// the given calendar date: the most recent entry whose timestamp is strictly
// before UTC midnight of that date. An entry landing exactly on the cutoff is
// excluded; the strict `<` is a fixed policy, not configurable.
//
// The entries are assumed sorted descending by timestamp, as returned by the
// ledger source; the function binary-searches under that assumption and does
// not re-sort, so an unsorted input yields an unspecified result. Pending
// entries (zero timestamp) never qualify.
//
// The boolean is false when no entry precedes the cutoff (no prior activity,
// or an empty list). Callers treat that as "balance unknown, defaults to
// zero", not as an error.
func ResolveReference(entries []entity.LedgerEntry, date time.Time) (uint64, bool) {
	return resolveAt(entries, Cutoff(date))
}

func resolveAt(entries []entity.LedgerEntry, cutoff uint64) (uint64, bool) {
	// Descending order makes `timestamp < cutoff` a monotonic predicate over
	// the index, so sort.Search lands on the first (most recent) match.
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Timestamp < cutoff
	})
	if i == len(entries) || entries[i].Timestamp == 0 {
		return 0, false
	}
	return entries[i].BlockNumber, true
}
