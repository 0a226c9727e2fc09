package service

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"account_scanner/internal/app/port"
	"account_scanner/internal/config"
	"account_scanner/internal/domain/entity"
	"account_scanner/internal/domain/ledger"
	"account_scanner/internal/pkg/amount"
	"account_scanner/internal/pkg/metrics"
)

// entrySet is the single-owner state for one logical transfer set. The slice
// is replaced atomically when a fetch completes and never mutated in place;
// readers always work on a snapshot.
type entrySet struct {
	entries []entity.LedgerEntry
	pager   *ledger.Pager
	lastErr error
}

// ScanService implements port.ScannerService. It issues the two independent
// transfer queries per scan and keeps the most recently resolved result for
// each set (last-write-wins). Overlapping scans are not cancelled; their set
// replacements may interleave, which is a documented limitation of the tool,
// not a bug.
type ScanService struct {
	ledgerClient port.LedgerQueryClient
	cfg          *config.Config
	logger       *zap.Logger

	mu      sync.RWMutex
	address string
	sets    map[entity.View]*entrySet
}

// NewScanService creates a new ScanService.
func NewScanService(client port.LedgerQueryClient, cfg *config.Config, logger *zap.Logger) *ScanService {
	return &ScanService{
		ledgerClient: client,
		cfg:          cfg,
		logger:       logger.Named("ScanService"),
		sets: map[entity.View]*entrySet{
			entity.NativeView: {pager: ledger.NewPager()},
			entity.TokenView:  {pager: ledger.NewPager()},
		},
	}
}

// Scan validates the input and fetches both transfer sets concurrently. Each
// query has an independent outcome: a failed token fetch never clears or
// blocks already-received native transfers, and vice versa. The error return
// is non-nil only for local validation failures; per-set fetch failures are
// reported inside the outcome.
func (s *ScanService) Scan(ctx context.Context, address string, startBlock uint64) (port.ScanOutcome, error) {
	if address == "" {
		metrics.ScansTotal.WithLabelValues("invalid_input").Inc()
		return port.ScanOutcome{}, errors.Wrap(entity.ErrInvalidInput, "address is empty")
	}
	if !common.IsHexAddress(address) {
		metrics.ScansTotal.WithLabelValues("invalid_input").Inc()
		return port.ScanOutcome{}, errors.Wrapf(entity.ErrInvalidInput, "not a hex address: %q", address)
	}

	scanID := uuid.NewString()
	log := s.logger.With(zap.String("scanID", scanID), zap.String("address", address))
	log.Info("Starting scan", zap.Uint64("startBlock", startBlock))

	var (
		wg sync.WaitGroup

		nativeEntries, tokenEntries []entity.LedgerEntry
		nativeSkipped, tokenSkipped int
		nativeErr, tokenErr         error
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		nativeEntries, nativeSkipped, nativeErr = s.fetchNative(ctx, address, startBlock)
		s.applyResult(entity.NativeView, address, nativeEntries, nativeErr)
	}()

	go func() {
		defer wg.Done()
		tokenEntries, tokenSkipped, tokenErr = s.fetchToken(ctx, address, startBlock)
		s.applyResult(entity.TokenView, address, tokenEntries, tokenErr)
	}()

	wg.Wait()

	outcome := port.ScanOutcome{
		ScanID:       scanID,
		Address:      address,
		NativeCount:  len(nativeEntries),
		TokenCount:   len(tokenEntries),
		NativeErr:    nativeErr,
		TokenErr:     tokenErr,
		SkippedCount: nativeSkipped + tokenSkipped,
	}

	switch {
	case outcome.NativeErr == nil && outcome.TokenErr == nil:
		metrics.ScansTotal.WithLabelValues("ok").Inc()
		log.Info("Scan completed",
			zap.Int("nativeCount", outcome.NativeCount),
			zap.Int("tokenCount", outcome.TokenCount),
			zap.Int("skipped", outcome.SkippedCount))
	case outcome.NativeErr != nil && outcome.TokenErr != nil:
		metrics.ScansTotal.WithLabelValues("failed").Inc()
		log.Error("Scan failed for both sets",
			zap.Error(outcome.NativeErr), zap.NamedError("tokenError", outcome.TokenErr))
	default:
		metrics.ScansTotal.WithLabelValues("partial").Inc()
		log.Warn("Scan partially failed",
			zap.Error(outcome.NativeErr), zap.NamedError("tokenError", outcome.TokenErr))
	}

	return outcome, nil
}

func (s *ScanService) fetchNative(ctx context.Context, address string, startBlock uint64) ([]entity.LedgerEntry, int, error) {
	start := time.Now()
	records, err := s.ledgerClient.NativeTransfers(ctx, address, startBlock, s.cfg.Scan.EndBlock)
	metrics.FetchDurationSeconds.WithLabelValues(entity.NativeView.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues(entity.NativeView.String()).Inc()
		return nil, 0, &entity.FetchError{View: entity.NativeView, Err: err}
	}

	entries, skipped := ledger.NormalizeNativeBatch(records)
	s.reportSkips(entity.NativeView, skipped)
	return entries, skipped, nil
}

func (s *ScanService) fetchToken(ctx context.Context, address string, startBlock uint64) ([]entity.LedgerEntry, int, error) {
	start := time.Now()
	records, err := s.ledgerClient.TokenTransfers(ctx, address, startBlock, s.cfg.Scan.EndBlock)
	metrics.FetchDurationSeconds.WithLabelValues(entity.TokenView.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchFailuresTotal.WithLabelValues(entity.TokenView.String()).Inc()
		return nil, 0, &entity.FetchError{View: entity.TokenView, Err: err}
	}

	entries, skipped := ledger.NormalizeTokenBatch(records)
	s.reportSkips(entity.TokenView, skipped)
	return entries, skipped, nil
}

func (s *ScanService) reportSkips(view entity.View, skipped int) {
	if skipped == 0 {
		return
	}
	metrics.SkippedRecordsTotal.WithLabelValues(view.String()).Add(float64(skipped))
	s.logger.Warn("Skipped malformed records",
		zap.String("view", view.String()), zap.Int("count", skipped))
}

// applyResult replaces one set on success or records the failure on the set
// while leaving its previous entries intact.
func (s *ScanService) applyResult(view entity.View, address string, entries []entity.LedgerEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.sets[view]
	if err != nil {
		set.lastErr = err
		return
	}
	s.address = address
	set.entries = entries
	set.pager.Replace(entries)
	set.lastErr = nil
}

// Address returns the most recently scanned address, empty before any scan.
func (s *ScanService) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// Entries returns the current snapshot of one entry set.
func (s *ScanService) Entries(view entity.View) []entity.LedgerEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[view].entries
}

// Window returns one display page of the selected set. A negative page keeps
// the set's current page, which is zero right after a set replacement.
func (s *ScanService) Window(view entity.View, page, pageSize int) ([]entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pager := s.sets[view].pager
	if err := pager.SetPageSize(pageSize); err != nil {
		return nil, err
	}
	if page >= 0 {
		pager.SetPage(page)
	}
	return pager.Page(), nil
}

// CurrentPage returns the page the selected set is positioned on.
func (s *ScanService) CurrentPage(view entity.View) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[view].pager.CurrentPage()
}

// Total returns the exact aggregated amount of the selected set. The native
// set is already uniform at 18 decimals; the token set mixes precisions and
// is rescaled up to the 18-decimal display basis before folding.
func (s *ScanService) Total(view entity.View) (port.Total, error) {
	entries := s.Entries(view)

	total, err := ledger.TotalAtBasis(entries, entity.NativeDecimals)
	if err != nil {
		return port.Total{}, err
	}
	display, err := amount.ToDisplayString(total, entity.NativeDecimals)
	if err != nil {
		return port.Total{}, err
	}
	return port.Total{Raw: total, Decimals: entity.NativeDecimals, Display: display}, nil
}

// LastError returns the most recent fetch failure scoped to one set.
func (s *ScanService) LastError(view entity.View) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[view].lastErr
}
