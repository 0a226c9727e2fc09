package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"account_scanner/internal/config"
	"account_scanner/internal/domain/entity"
	rawentity "account_scanner/internal/entity"
)

// stubHistoryClient counts calls and serves one canned balance or error.
type stubHistoryClient struct {
	balance *big.Int
	err     error
	calls   int
}

func (s *stubHistoryClient) BalanceAtBlock(_ context.Context, _ string, _ uint64) (*big.Int, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.balance, nil
}

func balanceTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scan.EndBlock = 99999999
	cfg.Balance.CacheTTLMinutes = 60
	cfg.Balance.CacheCleanupEveryMinutes = 10
	return cfg
}

// scannerWithHistory builds a scan service holding one native entry per
// given timestamp/block pair.
func scannerWithHistory(t *testing.T, pairs ...[2]uint64) *ScanService {
	t.Helper()
	records := make([]rawentity.NativeTxRecord, 0, len(pairs))
	for i, p := range pairs {
		rec := nativeRecord(string(rune('a'+i)), "1")
		rec.TimeStamp = new(big.Int).SetUint64(p[0]).String()
		rec.BlockNumber = new(big.Int).SetUint64(p[1]).String()
		records = append(records, rec)
	}
	svc := newTestScanService(&stubLedgerClient{native: records})
	_, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	return svc
}

func TestBalanceAtNoReference(t *testing.T) {
	scanner := newTestScanService(&stubLedgerClient{})
	history := &stubHistoryClient{}
	svc := NewBalanceService(scanner, history, balanceTestConfig(), zap.NewNop())

	result, err := svc.BalanceAt(context.Background(), time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, result.NoReference)
	require.False(t, result.Unavailable)
	require.Equal(t, "0", result.Display)
	require.Zero(t, history.calls, "no query may be issued without a reference block")
}

func TestBalanceAtResolved(t *testing.T) {
	date := time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)
	cutoff := uint64(date.Unix())
	scanner := scannerWithHistory(t,
		[2]uint64{cutoff + 500, 50},
		[2]uint64{cutoff - 500, 40},
		[2]uint64{cutoff - 1500, 30},
	)
	history := &stubHistoryClient{balance: big.NewInt(2500000000000000000)}
	svc := NewBalanceService(scanner, history, balanceTestConfig(), zap.NewNop())

	result, err := svc.BalanceAt(context.Background(), date)
	require.NoError(t, err)
	require.False(t, result.NoReference)
	require.False(t, result.Unavailable)
	require.Equal(t, uint64(40), result.ReferenceBlock)
	require.Equal(t, "2500000000000000000", result.Raw.String())
	require.Equal(t, "2.5", result.Display)
	require.Equal(t, 1, history.calls)

	// Same date again: chain history is immutable, the cached value is served.
	_, err = svc.BalanceAt(context.Background(), date)
	require.NoError(t, err)
	require.Equal(t, 1, history.calls)
}

func TestBalanceAtUnavailable(t *testing.T) {
	date := time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)
	cutoff := uint64(date.Unix())
	scanner := scannerWithHistory(t, [2]uint64{cutoff - 500, 40})
	history := &stubHistoryClient{err: entity.ErrBalanceUnavailable}
	svc := NewBalanceService(scanner, history, balanceTestConfig(), zap.NewNop())

	result, err := svc.BalanceAt(context.Background(), date)
	require.NoError(t, err)
	require.True(t, result.Unavailable)
	require.Nil(t, result.Raw, "an unavailable balance must not carry a fabricated number")
	require.Equal(t, uint64(40), result.ReferenceBlock)
}

func TestBalanceAtTransportFailure(t *testing.T) {
	date := time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)
	cutoff := uint64(date.Unix())
	scanner := scannerWithHistory(t, [2]uint64{cutoff - 500, 40})
	history := &stubHistoryClient{err: errors.New("connection reset")}
	svc := NewBalanceService(scanner, history, balanceTestConfig(), zap.NewNop())

	_, err := svc.BalanceAt(context.Background(), date)
	require.Error(t, err)

	// Failures are not cached; the next attempt queries again.
	_, err = svc.BalanceAt(context.Background(), date)
	require.Error(t, err)
	require.Equal(t, 2, history.calls)
}
