// Package coinpaprika is the client for the tertiary backup provider. It
// fills volume, market cap, and price gaps that the primary and secondary
// providers leave uncovered.
package coinpaprika

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/fetch"
)

// ProviderName identifies this provider in limiter registries and logs.
const ProviderName = "coinpaprika"

// Client calls the CoinPaprika REST API through a resilient fetcher.
// Failures degrade to an empty dataset.
type Client struct {
	baseURL string
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// Config holds the client parameters. CoinPaprika needs no credential.
type Config struct {
	BaseURL string
}

// New creates a CoinPaprika client.
func New(cfg Config, fetcher *fetch.Fetcher, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		fetcher: fetcher,
		logger:  logger.With(slog.String("provider", ProviderName)),
	}
}

// apiTicker is one row of /v1/tickers.
type apiTicker struct {
	Symbol string              `json:"symbol"`
	Quotes map[string]apiQuote `json:"quotes"`
}

// apiQuote holds the USD quote block of a ticker.
type apiQuote struct {
	Price              *float64 `json:"price"`
	Volume24h          *float64 `json:"volume_24h"`
	MarketCap          *float64 `json:"market_cap"`
	PercentChange24h   *float64 `json:"percent_change_24h"`
}

// Tickers fetches the full ticker list keyed by upper-case symbol. When the
// same symbol appears more than once (CoinPaprika lists duplicated tickers
// for some assets), the first occurrence wins: tickers are ordered by rank.
func (c *Client) Tickers(ctx context.Context) domain.SourceDataset {
	ds := domain.SourceDataset{}

	body, err := c.fetcher.Get(ctx, c.baseURL+"/tickers?quotes=USD", nil)
	if err != nil {
		c.logger.Warn("tickers fetch failed", slog.String("error", err.Error()))
		return ds
	}

	var rows []apiTicker
	if err := json.Unmarshal(body, &rows); err != nil {
		c.logger.Warn("tickers decode failed", slog.String("error", err.Error()))
		return ds
	}

	for _, row := range rows {
		key := strings.ToUpper(row.Symbol)
		if key == "" {
			continue
		}
		if _, exists := ds[key]; exists {
			continue
		}
		usd, ok := row.Quotes["USD"]
		if !ok {
			continue
		}
		ds[key] = domain.SideDataRecord{
			Volume24h:         usd.Volume24h,
			MarketCap:         usd.MarketCap,
			PriceChangePct24h: usd.PercentChange24h,
			CurrentPrice:      usd.Price,
		}
	}
	return ds
}
