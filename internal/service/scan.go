// Package service orchestrates the scan pipeline: funding rates in, fused
// side data, per-symbol processing, ranking, and the optional result cache
// and alerting around it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/fundingscan/internal/arbitrage"
	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// FundingSource is the primary funding-rate provider as the scan needs it.
type FundingSource interface {
	HasKey() bool
	FundingRates(ctx context.Context) ([]domain.SymbolFunding, error)
}

// SideDataCollector gathers the auxiliary datasets under one time budget.
type SideDataCollector interface {
	Collect(ctx context.Context, activeSymbols []string) domain.Datasets
}

// progressEvery controls how often the sequential per-symbol loop logs.
const progressEvery = 100

// ScanService drives one full scan per request. It holds no per-request
// state; everything mutable lives in the providers' rate limiters.
type ScanService struct {
	funding   FundingSource
	collector SideDataCollector
	processor *arbitrage.Processor
	cache     domain.ScanCache // nil when Redis is not configured
	alerts    *AlertService    // nil when alerting is not configured

	activeSymbolLimit int
	logger            *slog.Logger
}

// ScanConfig configures the service.
type ScanConfig struct {
	Funding           FundingSource
	Collector         SideDataCollector
	Processor         *arbitrage.Processor
	Cache             domain.ScanCache
	Alerts            *AlertService
	ActiveSymbolLimit int
	Logger            *slog.Logger
}

// NewScanService creates a ScanService.
func NewScanService(cfg ScanConfig) *ScanService {
	limit := cfg.ActiveSymbolLimit
	if limit <= 0 {
		limit = 10
	}
	return &ScanService{
		funding:           cfg.Funding,
		collector:         cfg.Collector,
		processor:         cfg.Processor,
		cache:             cfg.Cache,
		alerts:            cfg.Alerts,
		activeSymbolLimit: limit,
		logger:            cfg.Logger.With(slog.String("component", "scan_service")),
	}
}

// Scan produces the ranked opportunity set for the selected exchanges.
// Without a configured funding-provider credential it short-circuits to the
// demonstration payload. It returns an error only when the primary provider
// yields zero usable records; every other upstream failure degrades.
func (s *ScanService) Scan(ctx context.Context, selectedExchanges []string) (*domain.ScanResult, error) {
	if !s.funding.HasKey() {
		s.logger.Info("no funding provider credential configured, serving demo payload")
		return demoResult(selectedExchanges), nil
	}

	key := cacheKey(selectedExchanges)
	if s.cache != nil {
		if res, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Info("serving cached scan result", slog.String("key", key))
			return res, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("scan cache read failed", slog.String("error", err.Error()))
		}
	}

	started := time.Now()
	records, err := s.funding.FundingRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: fetch funding rates: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("scan: %w", domain.ErrNoFundingData)
	}

	active := activeSymbols(records, s.activeSymbolLimit)
	ds := s.collector.Collect(ctx, active)

	selected := domain.ExchangeSet(selectedExchanges)
	opps := make([]domain.ArbitrageOpportunity, 0, len(records))
	processed := 0
	for i, rec := range records {
		if opp := s.processor.Process(rec, selected, ds); opp != nil {
			opps = append(opps, *opp)
		}
		processed++
		if (i+1)%progressEvery == 0 {
			s.logger.Info("processing symbols",
				slog.Int("done", i+1),
				slog.Int("total", len(records)),
			)
		}
	}

	ranked, stats := arbitrage.Rank(opps, len(records), processed, len(selectedExchanges))
	stats.ScanID = uuid.NewString()
	stats.DataSources.FundingRates = "CoinGlass"

	res := &domain.ScanResult{Opportunities: ranked, Stats: stats}
	s.logger.Info("scan complete",
		slog.String("scan_id", stats.ScanID),
		slog.Int("symbols", stats.TotalSymbols),
		slog.Int("opportunities", stats.OpportunitiesFound),
		slog.Duration("elapsed", time.Since(started)),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res); err != nil {
			s.logger.Warn("scan cache write failed", slog.String("error", err.Error()))
		}
	}
	if s.alerts != nil {
		s.alerts.Evaluate(ctx, res)
	}
	return res, nil
}

// activeSymbols picks the bounded subset that gets per-symbol open-interest
// calls: the first symbols in provider order, capped to respect the time
// budget.
func activeSymbols(records []domain.SymbolFunding, limit int) []string {
	if len(records) < limit {
		limit = len(records)
	}
	symbols := make([]string, 0, limit)
	for _, rec := range records[:limit] {
		symbols = append(symbols, rec.Symbol)
	}
	return symbols
}

// cacheKey derives a stable cache key from the exchange selection.
func cacheKey(selected []string) string {
	names := append([]string(nil), selected...)
	sort.Strings(names)
	return strings.ToLower(strings.Join(names, ","))
}
