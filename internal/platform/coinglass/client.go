// Package coinglass is the client for the CoinGlass derivatives API: the
// primary source of funding rates and open interest. Raw API shapes are
// decoded at this boundary and converted immediately into domain records.
package coinglass

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/fetch"
)

// ProviderName identifies this provider in limiter registries and logs.
const ProviderName = "coinglass"

// Client calls the CoinGlass REST API through a resilient fetcher.
type Client struct {
	baseURL      string
	apiKey       string
	historyScale float64
	fetcher      *fetch.Fetcher
	logger       *slog.Logger
}

// Config holds the client parameters.
type Config struct {
	BaseURL      string
	APIKey       string
	HistoryScale float64 // raw history units -> USD notional
}

// New creates a CoinGlass client.
func New(cfg Config, fetcher *fetch.Fetcher, logger *slog.Logger) *Client {
	scale := cfg.HistoryScale
	if scale <= 0 {
		scale = 1.0
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		historyScale: scale,
		fetcher:      fetcher,
		logger:       logger.With(slog.String("provider", ProviderName)),
	}
}

// HasKey reports whether an API key is configured. Without one the scanner
// serves the demonstration payload instead of live data.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

func (c *Client) headers() map[string]string {
	return map[string]string{"CG-API-KEY": c.apiKey}
}

// FundingRates fetches the full per-symbol, per-exchange funding-rate list in
// one bulk call. This is the primary pipeline input: unlike the side-data
// operations, a failure here is surfaced to the caller.
func (c *Client) FundingRates(ctx context.Context) ([]domain.SymbolFunding, error) {
	body, err := c.fetcher.Get(ctx, c.baseURL+"/api/futures/funding-rates/exchange-list", c.headers())
	if err != nil {
		return nil, fmt.Errorf("coinglass: funding rates: %w", err)
	}

	data, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("coinglass: funding rates: %w", err)
	}

	var raw []apiFundingSymbol
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("coinglass: decode funding rates: %w", err)
	}

	records := make([]domain.SymbolFunding, 0, len(raw))
	for _, sym := range raw {
		records = append(records, sym.toDomain())
	}
	return records, nil
}

// OpenInterestByExchange issues one exchange-list call per symbol and
// separates the provider's aggregate "All" row from per-exchange rows to
// compute a high/low open-interest split. Any failure degrades to whatever
// was collected so far; this operation never errors.
func (c *Client) OpenInterestByExchange(ctx context.Context, symbols []string) domain.SourceDataset {
	ds := domain.SourceDataset{}
	for _, symbol := range symbols {
		rec, err := c.openInterestForSymbol(ctx, symbol)
		if err != nil {
			c.logger.Warn("open interest fetch failed, skipping symbol",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
			continue
		}
		ds[strings.ToUpper(symbol)] = rec
	}
	return ds
}

func (c *Client) openInterestForSymbol(ctx context.Context, symbol string) (domain.SideDataRecord, error) {
	u := fmt.Sprintf("%s/api/futures/open-interest/exchange-list?symbol=%s",
		c.baseURL, url.QueryEscape(symbol))

	body, err := c.fetcher.Get(ctx, u, c.headers())
	if err != nil {
		return domain.SideDataRecord{}, err
	}

	data, err := decodeEnvelope(body)
	if err != nil {
		return domain.SideDataRecord{}, err
	}

	var rows []apiOIExchange
	if err := json.Unmarshal(data, &rows); err != nil {
		return domain.SideDataRecord{}, fmt.Errorf("decode open interest: %w", err)
	}

	var rec domain.SideDataRecord
	for _, row := range rows {
		if strings.EqualFold(row.Exchange, "All") {
			v := row.OpenInterestUSD
			rec.OpenInterestUSD = &v
			continue
		}
		v := row.OpenInterestUSD
		if rec.OpenInterestHigh == nil || v > *rec.OpenInterestHigh {
			rec.OpenInterestHigh = &v
		}
		if rec.OpenInterestLow == nil || v < *rec.OpenInterestLow {
			rec.OpenInterestLow = &v
		}
	}
	if rec.OpenInterestUSD == nil && rec.OpenInterestHigh == nil {
		return domain.SideDataRecord{}, fmt.Errorf("no open interest rows for %s", symbol)
	}
	return rec, nil
}

// History fetches the trailing 7-day open-interest and volume history in two
// bulk calls, keeps only the most recent data point per exchange series, and
// scales the raw units into USD. Failures degrade to an empty dataset.
func (c *Client) History(ctx context.Context) domain.SourceDataset {
	ds := domain.SourceDataset{}
	c.mergeHistory(ctx, "/api/futures/open-interest/history?range=7d", ds, func(rec *domain.SideDataRecord, v float64) {
		rec.OpenInterestUSD = &v
	})
	c.mergeHistory(ctx, "/api/futures/volume/history?range=7d", ds, func(rec *domain.SideDataRecord, v float64) {
		rec.Volume24h = &v
	})
	return ds
}

// mergeHistory fetches one history endpoint and folds its latest values into
// ds via assign.
func (c *Client) mergeHistory(ctx context.Context, path string, ds domain.SourceDataset, assign func(*domain.SideDataRecord, float64)) {
	body, err := c.fetcher.Get(ctx, c.baseURL+path, c.headers())
	if err != nil {
		c.logger.Warn("history fetch failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	data, err := decodeEnvelope(body)
	if err != nil {
		c.logger.Warn("history response rejected",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	var series map[string]apiHistorySeries
	if err := json.Unmarshal(data, &series); err != nil {
		c.logger.Warn("history decode failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	for symbol, s := range series {
		total, ok := s.latestTotal()
		if !ok {
			continue
		}
		key := strings.ToUpper(symbol)
		rec := ds[key]
		assign(&rec, total*c.historyScale)
		ds[key] = rec
	}
}

// decodeEnvelope unwraps the shared response envelope, rejecting provider-
// level errors.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Code != "0" {
		return nil, fmt.Errorf("api error code %s: %s", env.Code, env.Msg)
	}
	return env.Data, nil
}
