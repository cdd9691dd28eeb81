// Package coingecko is the client for the secondary market-data provider. It
// contributes market caps, spot volume, prices, and derivatives-specific
// volume/open-interest to the fused per-symbol view.
package coingecko

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/fetch"
)

// ProviderName identifies this provider in limiter registries and logs.
const ProviderName = "coingecko"

// Client calls the CoinGecko REST API through a resilient fetcher. All of its
// operations degrade to an empty dataset on failure; side data is never
// allowed to abort a scan.
type Client struct {
	baseURL string
	apiKey  string
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// Config holds the client parameters. APIKey is optional (free tier).
type Config struct {
	BaseURL string
	APIKey  string
}

// New creates a CoinGecko client.
func New(cfg Config, fetcher *fetch.Fetcher, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		fetcher: fetcher,
		logger:  logger.With(slog.String("provider", ProviderName)),
	}
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"x-cg-demo-api-key": c.apiKey}
}

// apiMarket is one row of /coins/markets. Pointer fields distinguish "not
// reported" from zero.
type apiMarket struct {
	Symbol             string   `json:"symbol"`
	CurrentPrice       *float64 `json:"current_price"`
	MarketCap          *float64 `json:"market_cap"`
	TotalVolume        *float64 `json:"total_volume"`
	PriceChangePct24h  *float64 `json:"price_change_percentage_24h"`
}

// Markets fetches general market data (cap, volume, price, 24h change) for
// the top coins by market cap, keyed by upper-case ticker.
func (c *Client) Markets(ctx context.Context) domain.SourceDataset {
	ds := domain.SourceDataset{}

	u := c.baseURL + "/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=250&page=1"
	body, err := c.fetcher.Get(ctx, u, c.headers())
	if err != nil {
		c.logger.Warn("markets fetch failed", slog.String("error", err.Error()))
		return ds
	}

	var rows []apiMarket
	if err := json.Unmarshal(body, &rows); err != nil {
		c.logger.Warn("markets decode failed", slog.String("error", err.Error()))
		return ds
	}

	for _, row := range rows {
		key := strings.ToUpper(row.Symbol)
		if key == "" {
			continue
		}
		ds[key] = domain.SideDataRecord{
			Volume24h:         row.TotalVolume,
			MarketCap:         row.MarketCap,
			PriceChangePct24h: row.PriceChangePct24h,
			CurrentPrice:      row.CurrentPrice,
		}
	}
	return ds
}

// apiDerivative is one row of /derivatives: a single perpetual listing on a
// single venue.
type apiDerivative struct {
	IndexID      string   `json:"index_id"`
	Volume24h    *float64 `json:"volume_24h"`
	OpenInterest *float64 `json:"open_interest"`
}

// Derivatives fetches derivatives-specific volume and open interest, summing
// per-venue listings into one record per underlying ticker.
func (c *Client) Derivatives(ctx context.Context) domain.SourceDataset {
	ds := domain.SourceDataset{}

	body, err := c.fetcher.Get(ctx, c.baseURL+"/derivatives", c.headers())
	if err != nil {
		c.logger.Warn("derivatives fetch failed", slog.String("error", err.Error()))
		return ds
	}

	var rows []apiDerivative
	if err := json.Unmarshal(body, &rows); err != nil {
		c.logger.Warn("derivatives decode failed", slog.String("error", err.Error()))
		return ds
	}

	for _, row := range rows {
		key := strings.ToUpper(row.IndexID)
		if key == "" {
			continue
		}
		rec := ds[key]
		if row.Volume24h != nil {
			v := *row.Volume24h
			if rec.Volume24h != nil {
				v += *rec.Volume24h
			}
			rec.Volume24h = &v
		}
		if row.OpenInterest != nil {
			v := *row.OpenInterest
			if rec.OpenInterestUSD != nil {
				v += *rec.OpenInterestUSD
			}
			rec.OpenInterestUSD = &v
		}
		ds[key] = rec
	}
	return ds
}
