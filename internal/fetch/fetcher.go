// Package fetch wraps outbound HTTP calls with rate-limit gating, bounded
// retries, backoff, and steady-state pacing so each upstream provider stays
// under its published quota regardless of caller concurrency.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/ratelimit"
)

// Config holds the retry and pacing parameters for one Fetcher.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration // inter-call delay derived from the pacing target
	Timeout    time.Duration // per-request HTTP timeout; defaults to 15s
}

// Fetcher issues GET requests against a single provider. A request failure is
// returned as an error carrying the last attempt's cause; Fetcher never
// panics and never aborts the caller's pipeline.
type Fetcher struct {
	provider   string
	client     *http.Client
	window     *ratelimit.Limiter
	pacer      *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// New creates a Fetcher for the named provider. The window limiter enforces
// the provider's published quota; the pacer smooths attempts to the
// conservative target encoded in cfg.BaseDelay.
func New(provider string, window *ratelimit.Limiter, cfg Config, logger *slog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	pacer := rate.NewLimiter(rate.Inf, 1)
	if cfg.BaseDelay > 0 {
		pacer = rate.NewLimiter(rate.Every(cfg.BaseDelay), 1)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Fetcher{
		provider:   provider,
		client:     &http.Client{Timeout: timeout},
		window:     window,
		pacer:      pacer,
		maxRetries: maxRetries,
		baseDelay:  cfg.BaseDelay,
		logger:     logger.With(slog.String("provider", provider)),
	}
}

// Get fetches url with the given headers and returns the response body.
// Attempts are bounded by MaxRetries. HTTP 429 gets a doubled backoff; any
// other non-2xx status or transport error gets a linearly escalating delay.
func (f *Fetcher) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if f.window != nil && !f.window.CanProceed() {
		wait := f.window.TimeUntilNextSlot()
		f.logger.Debug("quota window saturated, waiting",
			slog.Duration("wait", wait),
		)
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, fmt.Errorf("%s: waiting for quota slot: %w", f.provider, err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if err := f.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: pacing wait: %w", f.provider, err)
		}
		if f.window != nil {
			f.window.Record()
		}

		body, status, err := f.do(ctx, url, headers)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%s: status 429: %w", f.provider, domain.ErrRateLimited)
			f.logger.Warn("provider rate limited",
				slog.Int("attempt", attempt),
			)
			if attempt < f.maxRetries {
				if serr := sleepCtx(ctx, 2*f.baseDelay); serr != nil {
					return nil, fmt.Errorf("%s: backoff interrupted: %w", f.provider, serr)
				}
			}
			continue
		case status < 200 || status > 299:
			lastErr = fmt.Errorf("%s: unexpected status %d", f.provider, status)
		default:
			return body, nil
		}

		f.logger.Warn("fetch attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
		if attempt < f.maxRetries {
			if serr := sleepCtx(ctx, f.baseDelay*time.Duration(attempt)); serr != nil {
				return nil, fmt.Errorf("%s: backoff interrupted: %w", f.provider, serr)
			}
		}
	}

	return nil, fmt.Errorf("%s: %d attempts exhausted: %w", f.provider, f.maxRetries, lastErr)
}

// do issues one GET and returns the body and status. Transport-level failures
// are returned as errors; HTTP-level failures via the status code.
func (f *Fetcher) do(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: build request: %w", f.provider, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: request: %w", f.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%s: read body: %w", f.provider, err)
	}
	return body, resp.StatusCode, nil
}

// sleepCtx sleeps for d, returning early with the context error when ctx is
// cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
