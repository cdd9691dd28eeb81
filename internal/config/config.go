// Package config defines the top-level configuration for the funding
// arbitrage scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by FSCAN_* environment variables.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Coinglass   CoinglassConfig   `toml:"coinglass"`
	Coingecko   CoingeckoConfig   `toml:"coingecko"`
	Coinpaprika CoinpaprikaConfig `toml:"coinpaprika"`
	Aggregate   AggregateConfig   `toml:"aggregate"`
	Arbitrage   ArbitrageConfig   `toml:"arbitrage"`
	Redis       RedisConfig       `toml:"redis"`
	Notify      NotifyConfig      `toml:"notify"`
	LogLevel    string            `toml:"log_level"`
}

// ServerConfig holds the HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// FetchConfig holds the rate-limit and retry parameters for one provider.
// TargetPerMinute is kept deliberately below WindowQuota so steady-state
// throughput absorbs jitter without tripping the provider's ceiling.
type FetchConfig struct {
	WindowQuota     int `toml:"window_quota"`      // published per-minute ceiling
	TargetPerMinute int `toml:"target_per_minute"` // conservative pacing target
	MaxRetries      int `toml:"max_retries"`
}

// BaseDelay derives the inter-call delay from the pacing target.
func (f FetchConfig) BaseDelay() time.Duration {
	if f.TargetPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(f.TargetPerMinute)
}

// CoinglassConfig holds parameters for the primary funding-rate and
// open-interest provider. An empty APIKey puts the scanner in demo mode.
type CoinglassConfig struct {
	BaseURL      string      `toml:"base_url"`
	APIKey       string      `toml:"api_key"`
	HistoryScale float64     `toml:"history_scale"` // raw history units -> USD notional
	Fetch        FetchConfig `toml:"fetch"`
}

// CoingeckoConfig holds parameters for the secondary market-data provider.
type CoingeckoConfig struct {
	BaseURL string      `toml:"base_url"`
	APIKey  string      `toml:"api_key"`
	Fetch   FetchConfig `toml:"fetch"`
}

// CoinpaprikaConfig holds parameters for the tertiary backup provider.
type CoinpaprikaConfig struct {
	BaseURL string      `toml:"base_url"`
	Fetch   FetchConfig `toml:"fetch"`
}

// AggregateConfig bounds the concurrent side-data collection.
type AggregateConfig struct {
	Timeout           duration `toml:"timeout"`            // hard ceiling for all side-data fetching
	ActiveSymbolLimit int      `toml:"active_symbol_limit"` // per-symbol OI calls are capped at this many symbols
}

// ArbitrageConfig holds the opportunity-computation tunables.
type ArbitrageConfig struct {
	MinSpread          float64            `toml:"min_spread"`           // noise threshold, absolute rate units
	SettlementsPerDay  int                `toml:"settlements_per_day"`  // funding settlements used for annualization
	VolumeFromCapPct   float64            `toml:"volume_from_cap_pct"`  // heuristic: volume as fraction of market cap
	OIFromVolumePct    float64            `toml:"oi_from_volume_pct"`   // heuristic: open interest as fraction of volume
	MarketShare        map[string]float64 `toml:"market_share"`         // overrides for the approximate share table
	DefaultMarketShare float64            `toml:"default_market_share"` // share for exchanges not in the table
	AlertMinAnnualized float64            `toml:"alert_min_annualized"` // notify when the top opportunity exceeds this; 0 disables
}

// RedisConfig holds connection parameters for the optional scan cache.
// An empty Addr disables Redis entirely.
type RedisConfig struct {
	Addr       string   `toml:"addr"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	PoolSize   int      `toml:"pool_size"`
	MaxRetries int      `toml:"max_retries"`
	TLSEnabled bool     `toml:"tls_enabled"`
	ScanTTL    duration `toml:"scan_ttl"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken  string   `toml:"telegram_token"`
	TelegramChatID string   `toml:"telegram_chat_id"`
	Events         []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding ("30s", "1m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid values and returns a single
// error aggregating every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %d out of range", c.Server.Port))
	}

	for _, p := range []struct {
		name  string
		fetch FetchConfig
	}{
		{"coinglass", c.Coinglass.Fetch},
		{"coingecko", c.Coingecko.Fetch},
		{"coinpaprika", c.Coinpaprika.Fetch},
	} {
		if p.fetch.WindowQuota <= 0 {
			errs = append(errs, p.name+": fetch.window_quota must be positive")
		}
		if p.fetch.TargetPerMinute <= 0 {
			errs = append(errs, p.name+": fetch.target_per_minute must be positive")
		}
		if p.fetch.TargetPerMinute > p.fetch.WindowQuota {
			errs = append(errs, fmt.Sprintf("%s: fetch.target_per_minute %d exceeds window_quota %d",
				p.name, p.fetch.TargetPerMinute, p.fetch.WindowQuota))
		}
		if p.fetch.MaxRetries <= 0 {
			errs = append(errs, p.name+": fetch.max_retries must be positive")
		}
	}

	if c.Coinglass.BaseURL == "" {
		errs = append(errs, "coinglass: base_url must not be empty")
	}
	if c.Coinglass.HistoryScale <= 0 {
		errs = append(errs, "coinglass: history_scale must be positive")
	}
	if c.Aggregate.Timeout.Duration <= 0 {
		errs = append(errs, "aggregate: timeout must be positive")
	}
	if c.Aggregate.ActiveSymbolLimit <= 0 {
		errs = append(errs, "aggregate: active_symbol_limit must be positive")
	}
	if c.Arbitrage.MinSpread <= 0 {
		errs = append(errs, "arbitrage: min_spread must be positive")
	}
	if c.Arbitrage.SettlementsPerDay <= 0 {
		errs = append(errs, "arbitrage: settlements_per_day must be positive")
	}
	for name, share := range c.Arbitrage.MarketShare {
		if share <= 0 || share > 1 {
			errs = append(errs, fmt.Sprintf("arbitrage: market_share[%s]=%v must be in (0, 1]", name, share))
		}
	}
	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
