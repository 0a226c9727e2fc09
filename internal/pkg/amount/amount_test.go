package amount

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"account_scanner/internal/domain/entity"
)

func TestToDisplayString(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		decimals int
		want     string
	}{
		{"one ether", "1000000000000000000", 18, "1"},
		{"fractional", "1234500000000000000", 18, "1.2345"},
		{"sub one", "5", 18, "0.000000000000000005"},
		{"zero", "0", 18, "0"},
		{"no decimals", "12345", 0, "12345"},
		{"six decimals", "2000000", 6, "2"},
		{"max decimals", "1", 36, "0.000000000000000000000000000000000001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tc.raw, 10)
			require.True(t, ok)
			got, err := ToDisplayString(raw, tc.decimals)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestToDisplayStringRoundTrip(t *testing.T) {
	// Rendering then parsing back at the same precision must recover the raw
	// integer exactly, for every supported decimals count.
	raws := []string{
		"0", "1", "7", "999", "1000000", "1000000000000000000",
		"123456789012345678901234567890", "2000000000000000000000000000000000001",
	}
	for _, rawStr := range raws {
		raw, ok := new(big.Int).SetString(rawStr, 10)
		require.True(t, ok)
		for decimals := 0; decimals <= MaxDecimals; decimals++ {
			s, err := ToDisplayString(raw, decimals)
			require.NoError(t, err)

			back := decimal.RequireFromString(s).Shift(int32(decimals)).BigInt()
			require.Zero(t, raw.Cmp(back), "raw %s at %d decimals rendered as %s", rawStr, decimals, s)
		}
	}
}

func TestToDisplayStringErrors(t *testing.T) {
	_, err := ToDisplayString(big.NewInt(1), -1)
	require.ErrorIs(t, err, entity.ErrInvalidDecimals)

	_, err = ToDisplayString(big.NewInt(1), MaxDecimals+1)
	require.ErrorIs(t, err, entity.ErrInvalidDecimals)

	_, err = ToDisplayString(nil, 18)
	require.ErrorIs(t, err, entity.ErrInvalidAmount)

	_, err = ToDisplayString(big.NewInt(-5), 18)
	require.ErrorIs(t, err, entity.ErrInvalidAmount)
}

func TestParse(t *testing.T) {
	v, err := Parse("123456789012345678901234567890")
	require.NoError(t, err)
	require.Equal(t, "123456789012345678901234567890", v.String())

	for _, bad := range []string{"", "abc", "-1", "1.5", "0x10"} {
		_, err := Parse(bad)
		require.ErrorIs(t, err, entity.ErrInvalidAmount, "input %q", bad)
	}
}

func TestRescale(t *testing.T) {
	six := big.NewInt(2000000) // 2 units at 6 decimals

	scaled, err := Rescale(six, 6, 18)
	require.NoError(t, err)
	require.Equal(t, "2000000000000000000", scaled.String())

	// Equal precisions are a no-op.
	same, err := Rescale(six, 6, 6)
	require.NoError(t, err)
	require.Equal(t, "2000000", same.String())
	require.NotSame(t, six, same)
}

func TestRescaleRefusesToScaleDown(t *testing.T) {
	// Dividing below the existing precision would lose information.
	_, err := Rescale(big.NewInt(1000000000000000001), 18, 6)
	require.ErrorIs(t, err, entity.ErrInvalidDecimals)
}

func TestRescaleErrors(t *testing.T) {
	_, err := Rescale(big.NewInt(1), -1, 6)
	require.ErrorIs(t, err, entity.ErrInvalidDecimals)

	_, err = Rescale(big.NewInt(1), 6, MaxDecimals+1)
	require.ErrorIs(t, err, entity.ErrInvalidDecimals)

	_, err = Rescale(nil, 6, 18)
	require.ErrorIs(t, err, entity.ErrInvalidAmount)
}
