package arbitrage

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

func testProcessor() *Processor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Shares: NewShareTable(nil, 0.05)}, logger)
}

func fq(exchange string, rate float64) domain.FundingQuote {
	return domain.FundingQuote{Exchange: exchange, Rate: rate, IntervalHours: 8}
}

func f64(v float64) *float64 { return &v }

func allSelected() map[string]bool {
	return domain.ExchangeSet(domain.KnownExchanges)
}

func TestSpreadSelection(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "BTC",
		Quotes: []domain.FundingQuote{
			fq("Binance", 0.001),
			fq("Bybit", 0.015),
			fq("OKX", -0.002),
		},
	}

	opp := p.Process(rec, allSelected(), domain.NewDatasets())
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.ExchangeHigh.Exchange != "Bybit" || opp.ExchangeHigh.Rate != 0.015 {
		t.Errorf("wrong high leg: %+v", opp.ExchangeHigh)
	}
	if opp.ExchangeLow.Exchange != "OKX" || opp.ExchangeLow.Rate != -0.002 {
		t.Errorf("wrong low leg: %+v", opp.ExchangeLow)
	}
	if math.Abs(opp.Spread-0.017) > 1e-12 {
		t.Errorf("expected spread 0.017, got %v", opp.Spread)
	}
	if math.Abs(opp.AnnualizedReturn-18.615) > 1e-9 {
		t.Errorf("expected annualized 18.615, got %v", opp.AnnualizedReturn)
	}
	if opp.Direction != "Long OKX, Short Bybit" {
		t.Errorf("unexpected direction %q", opp.Direction)
	}
	if opp.ExchangeHigh.Rate < opp.ExchangeLow.Rate {
		t.Error("high rate must be >= low rate")
	}
}

func TestSpreadBelowNoiseThresholdSkipped(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "ETH",
		Quotes: []domain.FundingQuote{
			fq("Binance", 0.000100),
			fq("OKX", 0.000150),
		},
	}

	if opp := p.Process(rec, allSelected(), domain.NewDatasets()); opp != nil {
		t.Fatalf("expected nil for sub-threshold spread, got %+v", opp)
	}
}

func TestSingleExchangeSkipped(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "DOGE",
		Quotes: []domain.FundingQuote{fq("Binance", 0.01)},
	}

	if opp := p.Process(rec, allSelected(), domain.NewDatasets()); opp != nil {
		t.Fatalf("expected nil for single quoting exchange, got %+v", opp)
	}
}

func TestExchangeFilterExcludesWiderSpreads(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "SOL",
		Quotes: []domain.FundingQuote{
			fq("Binance", -0.05), // widest spread would involve Binance
			fq("OKX", 0.001),
			fq("Kraken", 0.003),
		},
	}

	selected := domain.ExchangeSet([]string{"OKX", "Kraken"})
	opp := p.Process(rec, selected, domain.NewDatasets())
	if opp == nil {
		t.Fatal("expected an opportunity from the two selected exchanges")
	}
	if opp.ExchangeLow.Exchange != "OKX" || opp.ExchangeHigh.Exchange != "Kraken" {
		t.Errorf("filter leaked an unselected exchange: %+v", opp)
	}
	if math.Abs(opp.Spread-0.002) > 1e-12 {
		t.Errorf("expected spread 0.002, got %v", opp.Spread)
	}
}

func TestVolumeFallbackTierForManyExchanges(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "PEPE",
		Quotes: []domain.FundingQuote{
			fq("Binance", 0.001), fq("OKX", 0.002), fq("Bybit", 0.003),
			fq("Bitget", 0.004), fq("Kraken", 0.005), fq("Gate.io", 0.006),
		},
	}

	// No provider data at all and no market cap: 6 quoting exchanges land
	// in the top tier.
	opp := p.Process(rec, allSelected(), domain.NewDatasets())
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Volume24h.Value != 50_000_000 {
		t.Errorf("expected top-tier estimate 50000000, got %v", opp.Volume24h.Value)
	}
	if opp.Volume24h.Source != domain.SourceEstimated {
		t.Errorf("expected Estimated provenance, got %q", opp.Volume24h.Source)
	}
}

func TestVolumeFromMarketCapFallback(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "LINK",
		Quotes: []domain.FundingQuote{fq("Binance", 0.001), fq("OKX", 0.005)},
	}

	ds := domain.NewDatasets()
	ds.Markets["LINK"] = domain.SideDataRecord{MarketCap: f64(8_000_000_000)}

	opp := p.Process(rec, allSelected(), ds)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Volume24h.Value != 800_000_000 {
		t.Errorf("expected 10%% of cap, got %v", opp.Volume24h.Value)
	}
	if opp.Volume24h.Source != domain.SourceEstimated {
		t.Errorf("expected Estimated provenance, got %q", opp.Volume24h.Source)
	}
}

func TestProviderVolumePriorityOrder(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "BTC",
		Quotes: []domain.FundingQuote{fq("Binance", 0.001), fq("OKX", 0.005)},
	}

	ds := domain.NewDatasets()
	ds.Tickers["BTC"] = domain.SideDataRecord{Volume24h: f64(111)}
	ds.Markets["BTC"] = domain.SideDataRecord{Volume24h: f64(222)}

	opp := p.Process(rec, allSelected(), ds)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.Volume24h.Value != 111 || opp.Volume24h.Source != "CoinPaprika" {
		t.Errorf("expected the backup ticker feed to win: %+v", opp.Volume24h)
	}
}

func TestOpenInterestPrefersProviderSplit(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "BTC",
		Quotes: []domain.FundingQuote{fq("Binance", 0.001), fq("OKX", 0.005)},
	}

	ds := domain.NewDatasets()
	ds.OpenInterest["BTC"] = domain.SideDataRecord{
		OpenInterestUSD:  f64(10_000_000_000),
		OpenInterestHigh: f64(4_000_000_000),
		OpenInterestLow:  f64(500_000_000),
	}

	opp := p.Process(rec, allSelected(), ds)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.OpenInterest.Source != "CoinGlass" {
		t.Errorf("expected CoinGlass OI provenance, got %q", opp.OpenInterest.Source)
	}
	if opp.OpenInterestHigh.Value != 4_000_000_000 || opp.OpenInterestLow.Value != 500_000_000 {
		t.Errorf("expected provider-reported split, got high=%v low=%v",
			opp.OpenInterestHigh.Value, opp.OpenInterestLow.Value)
	}
}

func TestAllSideDataMissingStillProducesOpportunity(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "ATOM",
		Quotes: []domain.FundingQuote{fq("Binance", -0.001), fq("Bybit", 0.004)},
	}

	opp := p.Process(rec, allSelected(), domain.NewDatasets())
	if opp == nil {
		t.Fatal("expected an opportunity from funding data alone")
	}
	for name, m := range map[string]domain.Metric{
		"volume":        opp.Volume24h,
		"volume_high":   opp.VolumeHigh,
		"volume_low":    opp.VolumeLow,
		"open_interest": opp.OpenInterest,
		"oi_high":       opp.OpenInterestHigh,
		"oi_low":        opp.OpenInterestLow,
	} {
		if m.Source != domain.SourceEstimated {
			t.Errorf("%s: expected Estimated provenance, got %q", name, m.Source)
		}
	}
	// 40% of the tier-estimated volume.
	wantOI := opp.Volume24h.Value * 0.40
	if math.Abs(opp.OpenInterest.Value-wantOI) > 1e-6 {
		t.Errorf("expected OI %v, got %v", wantOI, opp.OpenInterest.Value)
	}
	if opp.MarketCap != nil || opp.CurrentPrice != nil {
		t.Error("optional metrics must stay nil when no provider reported them")
	}
}

func TestShareSplitUsesTable(t *testing.T) {
	p := testProcessor()
	rec := domain.SymbolFunding{
		Symbol: "BTC",
		Quotes: []domain.FundingQuote{fq("OKX", 0.001), fq("Binance", 0.005)},
	}

	ds := domain.NewDatasets()
	ds.Tickers["BTC"] = domain.SideDataRecord{Volume24h: f64(1_000_000)}

	opp := p.Process(rec, allSelected(), ds)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.VolumeHigh.Value != 250_000 { // Binance at 25%
		t.Errorf("expected high split 250000, got %v", opp.VolumeHigh.Value)
	}
	if opp.VolumeLow.Value != 200_000 { // OKX at 20%
		t.Errorf("expected low split 200000, got %v", opp.VolumeLow.Value)
	}
}
