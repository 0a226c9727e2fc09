package entity

import "math/big"

// NativeDecimals is the fractional precision of the chain's native currency.
const NativeDecimals = 18

// View selects one of the two entry sets tracked for a scanned address.
type View int

const (
	// NativeView is the set of native-currency transfers.
	NativeView View = iota
	// TokenView is the set of token transfers.
	TokenView
)

// String returns the lowercase name used in the API and in logs.
func (v View) String() string {
	switch v {
	case NativeView:
		return "native"
	case TokenView:
		return "token"
	default:
		return "unknown"
	}
}

// LedgerEntry is one canonical transfer record. Entries are immutable once
// created: the whole set is replaced atomically when a new scan completes.
//
// RawAmount and FeeRaw are kept as arbitrary-precision integers in the
// asset's smallest unit; only final-stage formatting produces decimal strings.
type LedgerEntry struct {
	Hash        string   `json:"hash"`
	BlockNumber uint64   `json:"blockNumber"`
	Timestamp   uint64   `json:"timestamp"` // seconds since epoch; zero for pending entries
	From        string   `json:"from"`
	To          string   `json:"to,omitempty"` // empty for contract-creation entries
	RawAmount   *big.Int `json:"rawAmount"`
	Decimals    int      `json:"decimals"`
	AssetSymbol string   `json:"assetSymbol,omitempty"` // empty for native currency
	FeeRaw      *big.Int `json:"feeRaw,omitempty"`      // gasUsed * gasPrice; nil for token entries
}

// IsNative reports whether the entry denominates the chain's native currency.
func (e LedgerEntry) IsNative() bool {
	return e.AssetSymbol == ""
}
