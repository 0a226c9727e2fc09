// Package amount converts between raw integer amounts in an asset's smallest
// unit and exact human-readable decimal strings. All arithmetic is performed
// on arbitrary-precision integers; values never pass through a binary
// floating-point representation.
package amount

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"account_scanner/internal/domain/entity"
)

// MaxDecimals bounds the supported fractional precision. 18 covers the native
// currency; a few tokens declare more, none meaningfully exceed 36.
const MaxDecimals = 36

var ten = big.NewInt(10)

// Parse converts a decimal string into a non-negative big integer.
func Parse(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.Wrap(entity.ErrInvalidAmount, "empty amount string")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(entity.ErrInvalidAmount, "not a base-10 integer: %q", s)
	}
	if v.Sign() < 0 {
		return nil, errors.Wrapf(entity.ErrInvalidAmount, "negative amount: %q", s)
	}
	return v, nil
}

// ToDisplayString renders the exact decimal representation of
// raw / 10^decimals. Trailing fractional zeros are trimmed, so the result
// round-trips: parsing it back at the same precision recovers raw exactly.
func ToDisplayString(raw *big.Int, decimals int) (string, error) {
	if err := checkDecimals(decimals); err != nil {
		return "", err
	}
	if raw == nil {
		return "", errors.Wrap(entity.ErrInvalidAmount, "nil amount")
	}
	if raw.Sign() < 0 {
		return "", errors.Wrapf(entity.ErrInvalidAmount, "negative amount: %s", raw)
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String(), nil
}

// Rescale converts a raw amount between decimal precisions by multiplying by
// 10^(toDecimals-fromDecimals). Scaling down is refused: dividing below the
// existing precision would lose information, so callers always rescale the
// coarser amount up to the finer basis.
func Rescale(raw *big.Int, fromDecimals, toDecimals int) (*big.Int, error) {
	if err := checkDecimals(fromDecimals); err != nil {
		return nil, err
	}
	if err := checkDecimals(toDecimals); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.Wrap(entity.ErrInvalidAmount, "nil amount")
	}
	if toDecimals < fromDecimals {
		return nil, errors.Wrapf(entity.ErrInvalidDecimals,
			"refusing to scale down from %d to %d decimals", fromDecimals, toDecimals)
	}
	shift := new(big.Int).Exp(ten, big.NewInt(int64(toDecimals-fromDecimals)), nil)
	return new(big.Int).Mul(raw, shift), nil
}

func checkDecimals(decimals int) error {
	if decimals < 0 || decimals > MaxDecimals {
		return errors.Wrapf(entity.ErrInvalidDecimals, "decimals %d outside [0, %d]", decimals, MaxDecimals)
	}
	return nil
}
