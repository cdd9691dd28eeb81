package config

import "time"

// Defaults returns the built-in configuration. The scanner runs in demo mode
// with zero external configuration, so every default must be self-contained.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Coinglass: CoinglassConfig{
			BaseURL: "https://open-api-v4.coinglass.com",
			// Raw history units are normalized into USD notional. The exact
			// contract-size semantics of the history endpoint are unverified,
			// so the factor stays configurable.
			HistoryScale: 1.0,
			Fetch: FetchConfig{
				WindowQuota:     30,
				TargetPerMinute: 25,
				MaxRetries:      3,
			},
		},
		Coingecko: CoingeckoConfig{
			BaseURL: "https://api.coingecko.com/api/v3",
			Fetch: FetchConfig{
				WindowQuota:     30,
				TargetPerMinute: 25,
				MaxRetries:      3,
			},
		},
		Coinpaprika: CoinpaprikaConfig{
			BaseURL: "https://api.coinpaprika.com/v1",
			Fetch: FetchConfig{
				WindowQuota:     30,
				TargetPerMinute: 25,
				MaxRetries:      3,
			},
		},
		Aggregate: AggregateConfig{
			Timeout:           duration{30 * time.Second},
			ActiveSymbolLimit: 10,
		},
		Arbitrage: ArbitrageConfig{
			MinSpread:          0.0001, // 1 basis point
			SettlementsPerDay:  3,
			VolumeFromCapPct:   0.10,
			OIFromVolumePct:    0.40,
			DefaultMarketShare: 0.05,
			AlertMinAnnualized: 0, // disabled unless configured
		},
		Redis: RedisConfig{
			PoolSize:   10,
			MaxRetries: 3,
			ScanTTL:    duration{60 * time.Second},
		},
		LogLevel: "info",
	}
}
