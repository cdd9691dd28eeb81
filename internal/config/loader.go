package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path (skipped silently when the
// file does not exist, so the scanner runs on defaults alone), merges it on
// top of the built-in defaults, applies FSCAN_* environment variable
// overrides, and returns the final Config. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known FSCAN_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject API keys at deploy time without touching the TOML
// file. COINGLASS_API_KEY is honored as a bare alias since it is the single
// credential that flips the scanner out of demo mode.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "FSCAN_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "FSCAN_SERVER_CORS_ORIGINS")

	// ── Providers ──
	setStr(&cfg.Coinglass.BaseURL, "FSCAN_COINGLASS_BASE_URL")
	setStr(&cfg.Coinglass.APIKey, "FSCAN_COINGLASS_API_KEY")
	setStr(&cfg.Coinglass.APIKey, "COINGLASS_API_KEY") // compatibility alias
	setFloat64(&cfg.Coinglass.HistoryScale, "FSCAN_COINGLASS_HISTORY_SCALE")
	setStr(&cfg.Coingecko.BaseURL, "FSCAN_COINGECKO_BASE_URL")
	setStr(&cfg.Coingecko.APIKey, "FSCAN_COINGECKO_API_KEY")
	setStr(&cfg.Coinpaprika.BaseURL, "FSCAN_COINPAPRIKA_BASE_URL")

	// ── Aggregation ──
	setDuration(&cfg.Aggregate.Timeout, "FSCAN_AGGREGATE_TIMEOUT")
	setInt(&cfg.Aggregate.ActiveSymbolLimit, "FSCAN_AGGREGATE_ACTIVE_SYMBOL_LIMIT")

	// ── Arbitrage ──
	setFloat64(&cfg.Arbitrage.MinSpread, "FSCAN_ARBITRAGE_MIN_SPREAD")
	setInt(&cfg.Arbitrage.SettlementsPerDay, "FSCAN_ARBITRAGE_SETTLEMENTS_PER_DAY")
	setFloat64(&cfg.Arbitrage.AlertMinAnnualized, "FSCAN_ARBITRAGE_ALERT_MIN_ANNUALIZED")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "FSCAN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "FSCAN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "FSCAN_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "FSCAN_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.ScanTTL, "FSCAN_REDIS_SCAN_TTL")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "FSCAN_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "FSCAN_NOTIFY_TELEGRAM_CHAT_ID")
	setStringSlice(&cfg.Notify.Events, "FSCAN_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "FSCAN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
