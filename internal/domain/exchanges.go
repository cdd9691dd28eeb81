package domain

import "strings"

// KnownExchanges is the whitelist of derivatives venues the scanner
// understands. Requested exchange names are matched case-insensitively
// against this list; anything else is silently dropped.
var KnownExchanges = []string{
	"Binance",
	"OKX",
	"Bybit",
	"Bitget",
	"Gate.io",
	"HTX",
	"dYdX",
	"Kraken",
	"Deribit",
	"Bitfinex",
	"CoinEx",
	"Hyperliquid",
}

// SelectExchanges filters the requested names against KnownExchanges and
// returns the canonical spellings. An empty or fully-filtered request selects
// all known exchanges.
func SelectExchanges(requested []string) []string {
	var selected []string
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for _, known := range KnownExchanges {
			if strings.EqualFold(name, known) {
				selected = append(selected, known)
				break
			}
		}
	}
	if len(selected) == 0 {
		return append([]string(nil), KnownExchanges...)
	}
	return selected
}

// ExchangeSet builds a membership set from a selection for quote filtering.
func ExchangeSet(selected []string) map[string]bool {
	set := make(map[string]bool, len(selected))
	for _, name := range selected {
		set[name] = true
	}
	return set
}
