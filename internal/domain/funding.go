// Package domain defines the core types shared across the funding arbitrage
// scanner: funding quotes, per-provider side data, fused opportunities, and
// the interfaces implemented by infrastructure packages.
package domain

import (
	"strings"
	"time"
)

// FundingQuote is one exchange's funding rate for a symbol, as reported by
// the primary funding-rate provider. Quotes are immutable once fetched.
type FundingQuote struct {
	Exchange      string     `json:"exchange"`
	Rate          float64    `json:"rate"`
	IntervalHours int        `json:"interval_hours"`
	NextFundingAt *time.Time `json:"next_funding_at,omitempty"`
}

// SymbolFunding is the raw per-symbol record from the funding-rate provider:
// one quote per exchange that lists the contract.
type SymbolFunding struct {
	Symbol string         `json:"symbol"`
	Quotes []FundingQuote `json:"quotes"`
}

// SideDataRecord carries the optional per-symbol attributes an auxiliary
// provider may report. Different providers populate different subsets; a nil
// field means unknown, never zero.
type SideDataRecord struct {
	Volume24h         *float64
	OpenInterestUSD   *float64
	OpenInterestHigh  *float64
	OpenInterestLow   *float64
	MarketCap         *float64
	PriceChangePct24h *float64
	CurrentPrice      *float64
}

// SourceDataset maps an upper-case ticker to the record one provider reported
// for it. Datasets are built once per scan and read-only afterward.
type SourceDataset map[string]SideDataRecord

// Lookup returns the record for a symbol, normalizing the key.
func (d SourceDataset) Lookup(symbol string) (SideDataRecord, bool) {
	rec, ok := d[strings.ToUpper(symbol)]
	return rec, ok
}

// Datasets groups the per-provider side data collected for one scan.
type Datasets struct {
	OpenInterest SourceDataset // per-exchange open interest (exchange-list provider)
	History      SourceDataset // trailing 7-day OI/volume history
	Markets      SourceDataset // general spot market data
	Derivatives  SourceDataset // derivatives-specific volume and OI
	Tickers      SourceDataset // backup provider tickers
}

// NewDatasets returns a Datasets with every map empty-initialized, so a scan
// that times out or loses a provider still operates on valid (empty) maps.
func NewDatasets() Datasets {
	return Datasets{
		OpenInterest: SourceDataset{},
		History:      SourceDataset{},
		Markets:      SourceDataset{},
		Derivatives:  SourceDataset{},
		Tickers:      SourceDataset{},
	}
}
