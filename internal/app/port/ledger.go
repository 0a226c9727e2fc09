package port

import (
	"context"
	"math/big"

	"account_scanner/internal/entity"
)

// LedgerQueryClient defines the interface for the explorer account API that
// lists an address's transfer history. Implementations are Etherscan-style
// HTTP clients; both queries return records sorted most recent first.
type LedgerQueryClient interface {
	// NativeTransfers fetches the native-currency transfer history of an address.
	NativeTransfers(ctx context.Context, address string, startBlock, endBlock uint64) ([]entity.NativeTxRecord, error)

	// TokenTransfers fetches the token transfer history of an address.
	TokenTransfers(ctx context.Context, address string, startBlock, endBlock uint64) ([]entity.TokenTxRecord, error)
}

// BalanceHistoryClient defines the interface for the point-in-time balance
// capability. The capability may be gated behind a paid provider tier:
// implementations return entity.ErrBalanceUnavailable in that case, and
// callers surface it as an explicit "unavailable" state.
type BalanceHistoryClient interface {
	// BalanceAtBlock fetches the raw native balance of an address as of the
	// given block.
	BalanceAtBlock(ctx context.Context, address string, blockNumber uint64) (*big.Int, error)
}
