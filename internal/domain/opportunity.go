package domain

import "time"

// Metric is a derived numeric estimate tagged with the provenance label of
// the source (or heuristic) that produced it. Every metric carries exactly
// one label.
type Metric struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// SourceEstimated labels values produced by a fallback heuristic rather than
// a provider.
const SourceEstimated = "Estimated"

// ArbitrageOpportunity is the fused output unit for one symbol: the widest
// funding-rate spread across the selected exchanges plus liquidity estimates.
// ExchangeHigh.Rate >= ExchangeLow.Rate always holds.
type ArbitrageOpportunity struct {
	Symbol           string         `json:"symbol"`
	ExchangeHigh     FundingQuote   `json:"exchange_high"`
	ExchangeLow      FundingQuote   `json:"exchange_low"`
	Spread           float64        `json:"spread"`
	AnnualizedReturn float64        `json:"annualized_return"`
	Direction        string         `json:"direction"`
	Quotes           []FundingQuote `json:"quotes"`

	Volume24h        Metric `json:"volume_24h"`
	VolumeHigh       Metric `json:"volume_high"`
	VolumeLow        Metric `json:"volume_low"`
	OpenInterest     Metric `json:"open_interest"`
	OpenInterestHigh Metric `json:"open_interest_high"`
	OpenInterestLow  Metric `json:"open_interest_low"`

	MarketCap      *Metric `json:"market_cap,omitempty"`
	PriceChange24h *Metric `json:"price_change_24h,omitempty"`
	CurrentPrice   *Metric `json:"current_price,omitempty"`
}

// DataSources names the source that dominated each data category in a scan.
type DataSources struct {
	FundingRates string `json:"fundingRates"`
	Volume       string `json:"volume"`
	OpenInterest string `json:"openInterest"`
}

// RunStatistics summarizes a single scan. It is computed once per request
// and never persisted.
type RunStatistics struct {
	ScanID             string      `json:"scan_id"`
	TotalSymbols       int         `json:"total_symbols"`
	ProcessedSymbols   int         `json:"processed_symbols"`
	OpportunitiesFound int         `json:"opportunities_found"`
	SelectedExchanges  int         `json:"selected_exchanges"`
	DataSources        DataSources `json:"dataSources"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// ScanResult is the full response payload for one scan.
type ScanResult struct {
	Opportunities []ArbitrageOpportunity `json:"opportunities"`
	Stats         RunStatistics          `json:"stats"`
}
