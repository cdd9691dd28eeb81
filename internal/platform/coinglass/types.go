package coinglass

import (
	"encoding/json"
	"time"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// apiEnvelope is the outer response shape shared by every CoinGlass endpoint.
// Code "0" means success; anything else carries a human-readable Msg.
type apiEnvelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// apiFundingSymbol is one symbol's entry in the funding-rate exchange list.
type apiFundingSymbol struct {
	Symbol               string            `json:"symbol"`
	StablecoinMarginList []apiFundingEntry `json:"stablecoin_margin_list"`
}

// apiFundingEntry is one exchange's funding quote. FundingRate is a pointer
// because some venues list the contract without quoting a rate.
type apiFundingEntry struct {
	Exchange            string   `json:"exchange"`
	FundingRate         *float64 `json:"funding_rate"`
	FundingRateInterval int      `json:"funding_rate_interval"`
	NextFundingTime     int64    `json:"next_funding_time"` // Unix ms, 0 when unknown
}

// toDomain converts the raw symbol entry into the canonical record, dropping
// exchanges that quote no rate.
func (s apiFundingSymbol) toDomain() domain.SymbolFunding {
	quotes := make([]domain.FundingQuote, 0, len(s.StablecoinMarginList))
	for _, e := range s.StablecoinMarginList {
		if e.FundingRate == nil {
			continue
		}
		q := domain.FundingQuote{
			Exchange:      e.Exchange,
			Rate:          *e.FundingRate,
			IntervalHours: e.FundingRateInterval,
		}
		if e.NextFundingTime > 0 {
			t := time.UnixMilli(e.NextFundingTime).UTC()
			q.NextFundingAt = &t
		}
		quotes = append(quotes, q)
	}
	return domain.SymbolFunding{Symbol: s.Symbol, Quotes: quotes}
}

// apiOIExchange is one row of the per-symbol open-interest exchange list.
// The provider includes an aggregate row whose Exchange is "All".
type apiOIExchange struct {
	Exchange        string  `json:"exchange"`
	OpenInterestUSD float64 `json:"open_interest_usd"`
}

// apiHistorySeries is one symbol's series in a history response: a shared
// time axis plus one value series per exchange, in raw provider units.
type apiHistorySeries struct {
	TimeList []int64              `json:"time_list"`
	DataMap  map[string][]float64 `json:"data_map"`
}

// latestTotal sums the most recent data point of every exchange series.
func (s apiHistorySeries) latestTotal() (float64, bool) {
	total := 0.0
	found := false
	for _, series := range s.DataMap {
		if len(series) == 0 {
			continue
		}
		total += series[len(series)-1]
		found = true
	}
	return total, found
}
