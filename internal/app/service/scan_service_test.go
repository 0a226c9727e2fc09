package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"account_scanner/internal/config"
	"account_scanner/internal/domain/entity"
	rawentity "account_scanner/internal/entity"
)

const testAddress = "0xe0ac16e70f92cc068fca6de81d5edaa08fd612e1"

// stubLedgerClient serves canned transfer records and per-set failures.
type stubLedgerClient struct {
	native    []rawentity.NativeTxRecord
	token     []rawentity.TokenTxRecord
	nativeErr error
	tokenErr  error
}

func (s *stubLedgerClient) NativeTransfers(_ context.Context, _ string, _, _ uint64) ([]rawentity.NativeTxRecord, error) {
	if s.nativeErr != nil {
		return nil, s.nativeErr
	}
	return s.native, nil
}

func (s *stubLedgerClient) TokenTransfers(_ context.Context, _ string, _, _ uint64) ([]rawentity.TokenTxRecord, error) {
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return s.token, nil
}

func nativeRecord(hash, value string) rawentity.NativeTxRecord {
	return rawentity.NativeTxRecord{
		BlockNumber: "100",
		TimeStamp:   "1623715300",
		Hash:        hash,
		From:        "0xfrom",
		To:          "0xto",
		Value:       value,
		GasUsed:     "21000",
		GasPrice:    "1000000000",
	}
}

func tokenRecord(hash, value, decimals string) rawentity.TokenTxRecord {
	return rawentity.TokenTxRecord{
		BlockNumber:  "101",
		TimeStamp:    "1623715400",
		Hash:         hash,
		From:         "0xfrom",
		To:           "0xto",
		Value:        value,
		TokenSymbol:  "USDC",
		TokenDecimal: decimals,
	}
}

func newTestScanService(client *stubLedgerClient) *ScanService {
	cfg := &config.Config{}
	cfg.Scan.EndBlock = 99999999
	return NewScanService(client, cfg, zap.NewNop())
}

func TestScanInvalidInput(t *testing.T) {
	svc := newTestScanService(&stubLedgerClient{})

	_, err := svc.Scan(context.Background(), "", 0)
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Scan(context.Background(), "vitalik.eth", 0)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestScanPopulatesBothSets(t *testing.T) {
	client := &stubLedgerClient{
		native: []rawentity.NativeTxRecord{nativeRecord("0xa", "1000000000000000000")},
		token:  []rawentity.TokenTxRecord{tokenRecord("0xb", "2000000", "6"), tokenRecord("0xc", "1", "6")},
	}
	svc := newTestScanService(client)

	outcome, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.NativeCount)
	require.Equal(t, 2, outcome.TokenCount)
	require.NoError(t, outcome.NativeErr)
	require.NoError(t, outcome.TokenErr)
	require.NotEmpty(t, outcome.ScanID)

	require.Len(t, svc.Entries(entity.NativeView), 1)
	require.Len(t, svc.Entries(entity.TokenView), 2)
	require.Equal(t, testAddress, svc.Address())
	require.NoError(t, svc.LastError(entity.NativeView))
	require.NoError(t, svc.LastError(entity.TokenView))
}

func TestScanPartialFailureLeavesOtherSetIntact(t *testing.T) {
	client := &stubLedgerClient{
		native: []rawentity.NativeTxRecord{nativeRecord("0xa", "5")},
		token:  []rawentity.TokenTxRecord{tokenRecord("0xb", "7", "6")},
	}
	svc := newTestScanService(client)

	_, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.Len(t, svc.Entries(entity.TokenView), 1)

	// Second scan: the token query fails. Native results are refreshed while
	// the token set keeps its previous value, with the error scoped to it.
	client.native = []rawentity.NativeTxRecord{nativeRecord("0xa", "5"), nativeRecord("0xd", "9")}
	client.tokenErr = errors.New("boom")

	outcome, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.NoError(t, outcome.NativeErr)
	require.Error(t, outcome.TokenErr)

	require.Len(t, svc.Entries(entity.NativeView), 2)
	require.Len(t, svc.Entries(entity.TokenView), 1)

	require.NoError(t, svc.LastError(entity.NativeView))
	var fetchErr *entity.FetchError
	require.ErrorAs(t, svc.LastError(entity.TokenView), &fetchErr)
	require.Equal(t, entity.TokenView, fetchErr.View)

	// A later successful fetch clears the set-scoped error.
	client.tokenErr = nil
	_, err = svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.NoError(t, svc.LastError(entity.TokenView))
}

func TestScanSkipsMalformedRecords(t *testing.T) {
	bad := nativeRecord("0xbad", "not-a-number")
	client := &stubLedgerClient{
		native: []rawentity.NativeTxRecord{nativeRecord("0xa", "1"), bad},
	}
	svc := newTestScanService(client)

	outcome, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)
	require.Equal(t, 1, outcome.NativeCount)
	require.Equal(t, 1, outcome.SkippedCount)
	require.Len(t, svc.Entries(entity.NativeView), 1)
}

func TestScanTotals(t *testing.T) {
	client := &stubLedgerClient{
		native: []rawentity.NativeTxRecord{
			nativeRecord("0xa", "1000000000000000000"),
			nativeRecord("0xb", "500000000000000000"),
		},
		token: []rawentity.TokenTxRecord{
			tokenRecord("0xc", "1000000000000000000", "18"),
			tokenRecord("0xd", "2000000", "6"),
		},
	}
	svc := newTestScanService(client)

	_, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)

	nativeTotal, err := svc.Total(entity.NativeView)
	require.NoError(t, err)
	require.Equal(t, "1500000000000000000", nativeTotal.Raw.String())
	require.Equal(t, "1.5", nativeTotal.Display)
	require.Equal(t, entity.NativeDecimals, nativeTotal.Decimals)

	// Mixed-precision token entries aggregate exactly at the 18-decimal basis.
	tokenTotal, err := svc.Total(entity.TokenView)
	require.NoError(t, err)
	require.Equal(t, "3000000000000000000", tokenTotal.Raw.String())
	require.Equal(t, "3", tokenTotal.Display)
}

func TestWindowResetsOnNewScan(t *testing.T) {
	records := make([]rawentity.NativeTxRecord, 15)
	for i := range records {
		records[i] = nativeRecord(string(rune('a'+i)), "1")
	}
	client := &stubLedgerClient{native: records}
	svc := newTestScanService(client)

	_, err := svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)

	w, err := svc.Window(entity.NativeView, 1, 10)
	require.NoError(t, err)
	require.Len(t, w, 5)

	// A new scan replaces the set; a query without an explicit page lands on
	// page zero instead of a stale out-of-range offset.
	client.native = records[:5]
	_, err = svc.Scan(context.Background(), testAddress, 0)
	require.NoError(t, err)

	w, err = svc.Window(entity.NativeView, -1, 10)
	require.NoError(t, err)
	require.Len(t, w, 5)

	_, err = svc.Window(entity.NativeView, 0, 12)
	require.ErrorIs(t, err, entity.ErrInvalidPageSize)
}
