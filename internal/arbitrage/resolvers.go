package arbitrage

import "github.com/alanyoungcy/fundingscan/internal/domain"

// resolver is one named step in a fallback chain. Chains are evaluated in
// priority order; the first resolver that yields a value wins and its name
// becomes the provenance label. Keeping the policy as an explicit ordered
// list makes it inspectable and testable, instead of implicit in a chain of
// short-circuit expressions.
type resolver struct {
	name string
	fn   func(symbol string, ds domain.Datasets) *float64
}

// resolve walks the chain and returns the first value found plus its label.
func resolve(symbol string, ds domain.Datasets, chain []resolver) (float64, string, bool) {
	for _, r := range chain {
		if v := r.fn(symbol, ds); v != nil {
			return *v, r.name, true
		}
	}
	return 0, "", false
}

// volumeChain is the descending priority order for 24h volume: the backup
// ticker feed first (its figures cover the widest symbol set), then general
// market volume, derivatives-specific volume, and finally the derivatives
// venue history.
func volumeChain() []resolver {
	return []resolver{
		{"CoinPaprika", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Tickers.Lookup(sym); ok {
				return rec.Volume24h
			}
			return nil
		}},
		{"CoinGecko", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Markets.Lookup(sym); ok {
				return rec.Volume24h
			}
			return nil
		}},
		{"CoinGecko Derivatives", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Derivatives.Lookup(sym); ok {
				return rec.Volume24h
			}
			return nil
		}},
		{"CoinGlass History", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.History.Lookup(sym); ok {
				return rec.Volume24h
			}
			return nil
		}},
	}
}

// openInterestChain is the descending priority order for open interest: the
// per-exchange aggregate first, then the venue history, then derivatives
// listings.
func openInterestChain() []resolver {
	return []resolver{
		{"CoinGlass", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.OpenInterest.Lookup(sym); ok {
				return rec.OpenInterestUSD
			}
			return nil
		}},
		{"CoinGlass History", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.History.Lookup(sym); ok {
				return rec.OpenInterestUSD
			}
			return nil
		}},
		{"CoinGecko Derivatives", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Derivatives.Lookup(sym); ok {
				return rec.OpenInterestUSD
			}
			return nil
		}},
	}
}

// marketCap, priceChange, and currentPrice share one two-step chain: general
// market data first, backup tickers second.
func sideField(get func(domain.SideDataRecord) *float64) []resolver {
	return []resolver{
		{"CoinGecko", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Markets.Lookup(sym); ok {
				return get(rec)
			}
			return nil
		}},
		{"CoinPaprika", func(sym string, ds domain.Datasets) *float64 {
			if rec, ok := ds.Tickers.Lookup(sym); ok {
				return get(rec)
			}
			return nil
		}},
	}
}
