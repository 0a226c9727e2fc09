package ledger

import (
	"math/big"

	"account_scanner/internal/domain/entity"
	"account_scanner/internal/pkg/amount"
)

// TotalOf folds the entries' raw amounts with exact integer addition starting
// from zero. Addition is associative and commutative, so the result does not
// depend on entry order. The entries are assumed to share one decimal basis;
// mixing precisions is the caller's job via TotalAtBasis or amount.Rescale.
func TotalOf(entries []entity.LedgerEntry) *big.Int {
	total := new(big.Int)
	for _, e := range entries {
		total.Add(total, e.RawAmount)
	}
	return total
}

// TotalAtBasis rescales every entry up to basisDecimals before folding, so
// that sets mixing assets of differing precision produce an exact total at a
// single reference precision. An entry finer than the basis is an error:
// scaling it down would lose precision.
func TotalAtBasis(entries []entity.LedgerEntry, basisDecimals int) (*big.Int, error) {
	total := new(big.Int)
	for _, e := range entries {
		scaled, err := amount.Rescale(e.RawAmount, e.Decimals, basisDecimals)
		if err != nil {
			return nil, err
		}
		total.Add(total, scaled)
	}
	return total, nil
}
