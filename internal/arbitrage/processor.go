// Package arbitrage turns raw per-symbol funding records plus fused side
// data into ranked cross-exchange funding-rate arbitrage opportunities.
package arbitrage

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// Stepped fallback volume tiers keyed on the number of quoting exchanges:
// more listings are taken as a proxy for higher liquidity.
const (
	volumeTierHigh = 50_000_000 // more than 5 quoting exchanges
	volumeTierMid  = 25_000_000 // more than 3
	volumeTierLow  = 10_000_000
)

// Config holds the processor tunables.
type Config struct {
	MinSpread         float64 // noise threshold; spreads below it are not opportunities
	SettlementsPerDay int     // funding settlements per day used for annualization
	VolumeFromCapPct  float64 // heuristic volume as a fraction of market cap
	OIFromVolumePct   float64 // heuristic open interest as a fraction of volume
	Shares            ShareTable
}

// Processor computes at most one ArbitrageOpportunity per symbol per scan.
type Processor struct {
	cfg         Config
	volumeChain []resolver
	oiChain     []resolver
	logger      *slog.Logger
}

// New creates a Processor. Zero-valued tunables fall back to the documented
// defaults (1 bp threshold, 3 settlements/day, 10% of cap, 40% of volume).
func New(cfg Config, logger *slog.Logger) *Processor {
	if cfg.MinSpread <= 0 {
		cfg.MinSpread = 0.0001
	}
	if cfg.SettlementsPerDay <= 0 {
		cfg.SettlementsPerDay = 3
	}
	if cfg.VolumeFromCapPct <= 0 {
		cfg.VolumeFromCapPct = 0.10
	}
	if cfg.OIFromVolumePct <= 0 {
		cfg.OIFromVolumePct = 0.40
	}
	return &Processor{
		cfg:         cfg,
		volumeChain: volumeChain(),
		oiChain:     openInterestChain(),
		logger:      logger.With(slog.String("component", "processor")),
	}
}

// Process fuses one raw funding record with the side-data maps. It returns
// nil when the symbol yields no opportunity: fewer than two selected
// exchanges quoting, or a spread below the noise threshold. Any panic while
// processing a symbol is recovered and the symbol skipped; one bad record
// never aborts the batch.
func (p *Processor) Process(rec domain.SymbolFunding, selected map[string]bool, ds domain.Datasets) (opp *domain.ArbitrageOpportunity) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("symbol processing panicked, skipping",
				slog.String("symbol", rec.Symbol),
				slog.Any("panic", r),
			)
			opp = nil
		}
	}()

	quotes := make([]domain.FundingQuote, 0, len(rec.Quotes))
	for _, q := range rec.Quotes {
		if selected[q.Exchange] {
			quotes = append(quotes, q)
		}
	}
	if len(quotes) < 2 {
		return nil
	}

	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Rate < quotes[j].Rate })
	low := quotes[0]
	high := quotes[len(quotes)-1]

	spread := math.Abs(high.Rate - low.Rate)
	if spread < p.cfg.MinSpread {
		return nil
	}

	volume := p.resolveVolume(rec.Symbol, len(quotes), ds)
	volumeHigh, volumeLow := p.splitByShare(volume, high.Exchange, low.Exchange)

	oi := p.resolveOpenInterest(rec.Symbol, volume, ds)
	oiHigh, oiLow := p.splitOpenInterest(rec.Symbol, oi, high.Exchange, low.Exchange, ds)

	annualized := spread * float64(p.cfg.SettlementsPerDay) * 365

	o := &domain.ArbitrageOpportunity{
		Symbol:           rec.Symbol,
		ExchangeHigh:     high,
		ExchangeLow:      low,
		Spread:           spread,
		AnnualizedReturn: annualized,
		// Collect the differential: short where funding is richest, long
		// where it is cheapest, price-neutral overall.
		Direction:        fmt.Sprintf("Long %s, Short %s", low.Exchange, high.Exchange),
		Quotes:           quotes,
		Volume24h:        volume,
		VolumeHigh:       volumeHigh,
		VolumeLow:        volumeLow,
		OpenInterest:     oi,
		OpenInterestHigh: oiHigh,
		OpenInterestLow:  oiLow,
	}

	o.MarketCap = lookupMetric(rec.Symbol, ds, func(r domain.SideDataRecord) *float64 { return r.MarketCap })
	o.PriceChange24h = lookupMetric(rec.Symbol, ds, func(r domain.SideDataRecord) *float64 { return r.PriceChangePct24h })
	o.CurrentPrice = lookupMetric(rec.Symbol, ds, func(r domain.SideDataRecord) *float64 { return r.CurrentPrice })

	return o
}

// resolveVolume walks the provider chain, then falls back to the heuristic
// estimate: a fixed fraction of market cap when one is known, else a stepped
// tier keyed on how many exchanges quote the symbol.
func (p *Processor) resolveVolume(symbol string, quoteCount int, ds domain.Datasets) domain.Metric {
	if v, label, ok := resolve(symbol, ds, p.volumeChain); ok {
		return domain.Metric{Value: v, Source: label}
	}

	if cap, _, ok := resolve(symbol, ds, sideField(func(r domain.SideDataRecord) *float64 { return r.MarketCap })); ok {
		return domain.Metric{Value: cap * p.cfg.VolumeFromCapPct, Source: domain.SourceEstimated}
	}

	tier := volumeTierLow
	switch {
	case quoteCount > 5:
		tier = volumeTierHigh
	case quoteCount > 3:
		tier = volumeTierMid
	}
	return domain.Metric{Value: float64(tier), Source: domain.SourceEstimated}
}

// resolveOpenInterest walks the provider chain with a final fallback of a
// fixed fraction of the resolved volume.
func (p *Processor) resolveOpenInterest(symbol string, volume domain.Metric, ds domain.Datasets) domain.Metric {
	if v, label, ok := resolve(symbol, ds, p.oiChain); ok {
		return domain.Metric{Value: v, Source: label}
	}
	return domain.Metric{Value: volume.Value * p.cfg.OIFromVolumePct, Source: domain.SourceEstimated}
}

// splitByShare apportions an aggregate figure to the two legs using the
// approximate market-share table. The split is always labeled Estimated:
// shares are a documented approximation, not exchange-reported truth.
func (p *Processor) splitByShare(total domain.Metric, highEx, lowEx string) (domain.Metric, domain.Metric) {
	return domain.Metric{Value: total.Value * p.cfg.Shares.Share(highEx), Source: domain.SourceEstimated},
		domain.Metric{Value: total.Value * p.cfg.Shares.Share(lowEx), Source: domain.SourceEstimated}
}

// splitOpenInterest prefers the provider-reported high/low open-interest
// split when the exchange-list provider supplied one, falling back to the
// market-share approximation.
func (p *Processor) splitOpenInterest(symbol string, total domain.Metric, highEx, lowEx string, ds domain.Datasets) (domain.Metric, domain.Metric) {
	if rec, ok := ds.OpenInterest.Lookup(symbol); ok && rec.OpenInterestHigh != nil && rec.OpenInterestLow != nil {
		return domain.Metric{Value: *rec.OpenInterestHigh, Source: "CoinGlass"},
			domain.Metric{Value: *rec.OpenInterestLow, Source: "CoinGlass"}
	}
	return p.splitByShare(total, highEx, lowEx)
}

// lookupMetric resolves an optional side field with its provenance, or nil
// when no provider reported it.
func lookupMetric(symbol string, ds domain.Datasets, get func(domain.SideDataRecord) *float64) *domain.Metric {
	if v, label, ok := resolve(symbol, ds, sideField(get)); ok {
		return &domain.Metric{Value: v, Source: label}
	}
	return nil
}
