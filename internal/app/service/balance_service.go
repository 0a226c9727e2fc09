package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"account_scanner/internal/app/port"
	"account_scanner/internal/config"
	"account_scanner/internal/domain/entity"
	"account_scanner/internal/domain/ledger"
	"account_scanner/internal/pkg/amount"
	"account_scanner/internal/pkg/metrics"
)

// BalanceService implements port.BalanceService: it maps a calendar date to
// the most recent preceding entry of the current native set and asks the
// historical balance collaborator for the balance at that block. Resolved
// balances are immutable (the chain does not rewrite history), so successful
// lookups are cached; concurrent identical lookups are collapsed.
type BalanceService struct {
	scanner       port.ScannerService
	historyClient port.BalanceHistoryClient
	logger        *zap.Logger
	balanceCache  *cache.Cache
	group         singleflight.Group
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(scanner port.ScannerService, historyClient port.BalanceHistoryClient, cfg *config.Config, logger *zap.Logger) *BalanceService {
	return &BalanceService{
		scanner:       scanner,
		historyClient: historyClient,
		logger:        logger.Named("BalanceService"),
		balanceCache: cache.New(
			time.Duration(cfg.Balance.CacheTTLMinutes)*time.Minute,
			time.Duration(cfg.Balance.CacheCleanupEveryMinutes)*time.Minute,
		),
	}
}

// BalanceAt resolves the account's balance as of UTC midnight of the given
// date. "No prior activity" and "capability unavailable" are first-class
// states in the result, not errors; the error return covers only transport
// failures talking to the collaborator.
func (s *BalanceService) BalanceAt(ctx context.Context, date time.Time) (port.BalanceByDate, error) {
	address := s.scanner.Address()
	entries := s.scanner.Entries(entity.NativeView)

	block, ok := ledger.ResolveReference(entries, date)
	if !ok {
		metrics.BalanceLookupsTotal.WithLabelValues("no_reference").Inc()
		s.logger.Debug("No entry precedes the cutoff, balance defaults to zero",
			zap.String("address", address), zap.Time("date", date))
		return port.BalanceByDate{NoReference: true, Raw: new(big.Int), Display: "0"}, nil
	}

	key := fmt.Sprintf("%s_%d", address, block)
	if cached, found := s.balanceCache.Get(key); found {
		metrics.BalanceLookupsTotal.WithLabelValues("cached").Inc()
		return s.resolved(block, cached.(*big.Int))
	}

	raw, err, _ := s.group.Do(key, func() (interface{}, error) {
		balance, err := s.historyClient.BalanceAtBlock(ctx, address, block)
		if err != nil {
			return nil, err
		}
		s.balanceCache.SetDefault(key, balance)
		return balance, nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrBalanceUnavailable) {
			metrics.BalanceLookupsTotal.WithLabelValues("unavailable").Inc()
			return port.BalanceByDate{ReferenceBlock: block, Unavailable: true}, nil
		}
		metrics.BalanceLookupsTotal.WithLabelValues("failed").Inc()
		return port.BalanceByDate{}, errors.Wrapf(err, "balance lookup at block %d", block)
	}

	metrics.BalanceLookupsTotal.WithLabelValues("ok").Inc()
	return s.resolved(block, raw.(*big.Int))
}

func (s *BalanceService) resolved(block uint64, raw *big.Int) (port.BalanceByDate, error) {
	display, err := amount.ToDisplayString(raw, entity.NativeDecimals)
	if err != nil {
		return port.BalanceByDate{}, err
	}
	return port.BalanceByDate{ReferenceBlock: block, Raw: raw, Display: display}, nil
}
