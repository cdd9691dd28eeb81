package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// demoResult builds the fixed demonstration payload served when no funding
// provider credential is configured. The shape is identical to a live scan
// so dashboard collaborators can develop against it; the funding-rate source
// label makes the substitution explicit.
func demoResult(selectedExchanges []string) *domain.ScanResult {
	mk := func(symbol string, highEx string, highRate float64, lowEx string, lowRate float64, volume, oi float64) domain.ArbitrageOpportunity {
		high := domain.FundingQuote{Exchange: highEx, Rate: highRate, IntervalHours: 8}
		low := domain.FundingQuote{Exchange: lowEx, Rate: lowRate, IntervalHours: 8}
		spread := highRate - lowRate
		return domain.ArbitrageOpportunity{
			Symbol:           symbol,
			ExchangeHigh:     high,
			ExchangeLow:      low,
			Spread:           spread,
			AnnualizedReturn: spread * 3 * 365,
			Direction:        fmt.Sprintf("Long %s, Short %s", lowEx, highEx),
			Quotes:           []domain.FundingQuote{low, high},
			Volume24h:        domain.Metric{Value: volume, Source: domain.SourceEstimated},
			VolumeHigh:       domain.Metric{Value: volume * 0.25, Source: domain.SourceEstimated},
			VolumeLow:        domain.Metric{Value: volume * 0.20, Source: domain.SourceEstimated},
			OpenInterest:     domain.Metric{Value: oi, Source: domain.SourceEstimated},
			OpenInterestHigh: domain.Metric{Value: oi * 0.25, Source: domain.SourceEstimated},
			OpenInterestLow:  domain.Metric{Value: oi * 0.20, Source: domain.SourceEstimated},
		}
	}

	opps := []domain.ArbitrageOpportunity{
		mk("BTC", "Bybit", 0.00031, "OKX", -0.00012, 18_500_000_000, 7_400_000_000),
		mk("ETH", "Binance", 0.00025, "Kraken", -0.00008, 9_200_000_000, 3_700_000_000),
		mk("SOL", "Bitget", 0.00052, "Binance", 0.00010, 2_100_000_000, 840_000_000),
	}

	return &domain.ScanResult{
		Opportunities: opps,
		Stats: domain.RunStatistics{
			ScanID:             uuid.NewString(),
			TotalSymbols:       len(opps),
			ProcessedSymbols:   len(opps),
			OpportunitiesFound: len(opps),
			SelectedExchanges:  len(selectedExchanges),
			DataSources: domain.DataSources{
				FundingRates: "Mock Data (set COINGLASS_API_KEY for live data)",
				Volume:       domain.SourceEstimated,
				OpenInterest: domain.SourceEstimated,
			},
			GeneratedAt: time.Now().UTC(),
		},
	}
}
