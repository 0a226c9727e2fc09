// Package ledger holds the pure core of the scanner: normalization of raw
// transfer records into the canonical model, exact aggregation, date-to-block
// resolution and pagination. Everything here is stateless and re-entrant;
// callers operate on snapshots and nothing is mutated.
package ledger

import (
	"math/big"
	"strconv"

	"account_scanner/internal/domain/entity"
	rawentity "account_scanner/internal/entity"
	"account_scanner/internal/pkg/amount"
)

// NormalizeNative maps one raw native-transfer record onto the canonical
// model. The native currency always carries 18 decimals and no symbol; the
// fee is the exact integer product gasUsed * gasPrice.
func NormalizeNative(rec rawentity.NativeTxRecord) (entity.LedgerEntry, error) {
	base, err := normalizeCommon(rec.Hash, rec.From, rec.To, rec.BlockNumber, rec.TimeStamp, rec.Value)
	if err != nil {
		return entity.LedgerEntry{}, err
	}
	base.Decimals = entity.NativeDecimals

	gasUsed, err := amount.Parse(rec.GasUsed)
	if err != nil {
		return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "gasUsed", Reason: err.Error()}
	}
	gasPrice, err := amount.Parse(rec.GasPrice)
	if err != nil {
		return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "gasPrice", Reason: err.Error()}
	}
	base.FeeRaw = new(big.Int).Mul(gasUsed, gasPrice)
	return base, nil
}

// NormalizeToken maps one raw token-transfer record onto the canonical model.
// Decimals come from the record's declared tokenDecimal field, defaulting to
// 18 when absent or non-numeric. Fees are not attributable to a single token
// entry of a multi-entry transaction, so FeeRaw stays nil.
func NormalizeToken(rec rawentity.TokenTxRecord) (entity.LedgerEntry, error) {
	base, err := normalizeCommon(rec.Hash, rec.From, rec.To, rec.BlockNumber, rec.TimeStamp, rec.Value)
	if err != nil {
		return entity.LedgerEntry{}, err
	}
	base.AssetSymbol = rec.TokenSymbol
	base.Decimals = entity.NativeDecimals
	if d, err := strconv.Atoi(rec.TokenDecimal); err == nil && d >= 0 && d <= amount.MaxDecimals {
		base.Decimals = d
	}
	return base, nil
}

// NormalizeNativeBatch normalizes a batch, skipping malformed records. It
// returns the surviving entries in input order plus the skip count; the
// caller decides how to report skips.
func NormalizeNativeBatch(recs []rawentity.NativeTxRecord) ([]entity.LedgerEntry, int) {
	entries := make([]entity.LedgerEntry, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		e, err := NormalizeNative(rec)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

// NormalizeTokenBatch is the token-transfer counterpart of NormalizeNativeBatch.
func NormalizeTokenBatch(recs []rawentity.TokenTxRecord) ([]entity.LedgerEntry, int) {
	entries := make([]entity.LedgerEntry, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		e, err := NormalizeToken(rec)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

func normalizeCommon(hash, from, to, blockNumber, timeStamp, value string) (entity.LedgerEntry, error) {
	if hash == "" {
		return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "hash", Reason: "missing"}
	}
	if from == "" {
		return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "from", Reason: "missing"}
	}
	raw, err := amount.Parse(value)
	if err != nil {
		return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "value", Reason: err.Error()}
	}

	var block uint64
	if blockNumber != "" {
		block, err = strconv.ParseUint(blockNumber, 10, 64)
		if err != nil {
			return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "blockNumber", Reason: err.Error()}
		}
	}

	// Timestamp may legitimately be absent for pending entries.
	var ts uint64
	if timeStamp != "" {
		ts, err = strconv.ParseUint(timeStamp, 10, 64)
		if err != nil {
			return entity.LedgerEntry{}, &entity.MalformedRecordError{Field: "timeStamp", Reason: err.Error()}
		}
	}

	return entity.LedgerEntry{
		Hash:        hash,
		BlockNumber: block,
		Timestamp:   ts,
		From:        from,
		To:          to,
		RawAmount:   raw,
	}, nil
}
