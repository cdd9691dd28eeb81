package arbitrage

// ShareTable maps exchange names to approximate global derivatives market
// share, used to split an aggregate volume or open-interest figure across
// exchanges when no provider reports a per-exchange breakdown. The values
// are deliberate approximations, never exchange-reported truth; downstream
// consumers see them only under an "Estimated" provenance label.
type ShareTable struct {
	shares map[string]float64
	def    float64
}

// defaultShares is the built-in approximation, revisable via configuration.
func defaultShares() map[string]float64 {
	return map[string]float64{
		"Binance":  0.25,
		"OKX":      0.20,
		"Bybit":    0.18,
		"Bitget":   0.10,
		"Gate.io":  0.08,
		"HTX":      0.06,
		"dYdX":     0.04,
		"Kraken":   0.03,
		"Deribit":  0.03,
		"Bitfinex": 0.02,
	}
}

// NewShareTable builds a table from the defaults plus any overrides.
// Exchanges absent from the table get def (falls back to 5%).
func NewShareTable(overrides map[string]float64, def float64) ShareTable {
	shares := defaultShares()
	for name, share := range overrides {
		shares[name] = share
	}
	if def <= 0 {
		def = 0.05
	}
	return ShareTable{shares: shares, def: def}
}

// Share returns the approximate market share for an exchange.
func (t ShareTable) Share(exchange string) float64 {
	if s, ok := t.shares[exchange]; ok {
		return s
	}
	return t.def
}
