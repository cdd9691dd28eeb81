package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fundingscan/internal/aggregate"
	"github.com/alanyoungcy/fundingscan/internal/arbitrage"
	redisc "github.com/alanyoungcy/fundingscan/internal/cache/redis"
	"github.com/alanyoungcy/fundingscan/internal/config"
	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/fetch"
	"github.com/alanyoungcy/fundingscan/internal/notify"
	"github.com/alanyoungcy/fundingscan/internal/platform/coingecko"
	"github.com/alanyoungcy/fundingscan/internal/platform/coinglass"
	"github.com/alanyoungcy/fundingscan/internal/platform/coinpaprika"
	"github.com/alanyoungcy/fundingscan/internal/ratelimit"
	"github.com/alanyoungcy/fundingscan/internal/service"
)

// Dependencies bundles everything the server needs to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Scans *service.ScanService
}

// Wire constructs the full dependency graph: limiter registry, resilient
// fetchers, provider clients, the aggregator, processor, and the optional
// Redis cache and notifier. The limiter registry lives for the whole process
// so call history spans requests.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Rate limiters (one per provider, process lifetime) ---
	limiters := ratelimit.NewRegistry(time.Minute)
	limiters.Configure(coinglass.ProviderName, cfg.Coinglass.Fetch.WindowQuota)
	limiters.Configure(coingecko.ProviderName, cfg.Coingecko.Fetch.WindowQuota)
	limiters.Configure(coinpaprika.ProviderName, cfg.Coinpaprika.Fetch.WindowQuota)

	newFetcher := func(provider string, fc config.FetchConfig) *fetch.Fetcher {
		return fetch.New(provider, limiters.For(provider), fetch.Config{
			MaxRetries: fc.MaxRetries,
			BaseDelay:  fc.BaseDelay(),
		}, logger)
	}

	// --- Provider clients ---
	glass := coinglass.New(coinglass.Config{
		BaseURL:      cfg.Coinglass.BaseURL,
		APIKey:       cfg.Coinglass.APIKey,
		HistoryScale: cfg.Coinglass.HistoryScale,
	}, newFetcher(coinglass.ProviderName, cfg.Coinglass.Fetch), logger)

	gecko := coingecko.New(coingecko.Config{
		BaseURL: cfg.Coingecko.BaseURL,
		APIKey:  cfg.Coingecko.APIKey,
	}, newFetcher(coingecko.ProviderName, cfg.Coingecko.Fetch), logger)

	paprika := coinpaprika.New(coinpaprika.Config{
		BaseURL: cfg.Coinpaprika.BaseURL,
	}, newFetcher(coinpaprika.ProviderName, cfg.Coinpaprika.Fetch), logger)

	// --- Aggregator ---
	aggregator := aggregate.New(aggregate.Sources{
		OpenInterest: glass.OpenInterestByExchange,
		History:      glass.History,
		Markets:      gecko.Markets,
		Derivatives:  gecko.Derivatives,
		Tickers:      paprika.Tickers,
	}, cfg.Aggregate.Timeout.Duration, logger)

	// --- Processor ---
	processor := arbitrage.New(arbitrage.Config{
		MinSpread:         cfg.Arbitrage.MinSpread,
		SettlementsPerDay: cfg.Arbitrage.SettlementsPerDay,
		VolumeFromCapPct:  cfg.Arbitrage.VolumeFromCapPct,
		OIFromVolumePct:   cfg.Arbitrage.OIFromVolumePct,
		Shares:            arbitrage.NewShareTable(cfg.Arbitrage.MarketShare, cfg.Arbitrage.DefaultMarketShare),
	}, logger)

	// --- Optional Redis scan cache ---
	var cache domain.ScanCache
	if cfg.Redis.Addr != "" {
		client, err := redisc.New(ctx, redisc.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		cache = redisc.NewScanCache(client, cfg.Redis.ScanTTL.Duration)
	}

	// --- Optional alerting ---
	var alerts *service.AlertService
	if cfg.Notify.TelegramToken != "" && cfg.Arbitrage.AlertMinAnnualized > 0 {
		notifier := notify.NewNotifier(
			[]notify.Sender{notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)},
			cfg.Notify.Events,
			logger,
		)
		alerts = service.NewAlertService(notifier, cfg.Arbitrage.AlertMinAnnualized, logger)
	}

	scans := service.NewScanService(service.ScanConfig{
		Funding:           glass,
		Collector:         aggregator,
		Processor:         processor,
		Cache:             cache,
		Alerts:            alerts,
		ActiveSymbolLimit: cfg.Aggregate.ActiveSymbolLimit,
		Logger:            logger,
	})

	return &Dependencies{Scans: scans}, cleanup, nil
}
