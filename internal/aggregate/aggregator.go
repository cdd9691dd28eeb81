// Package aggregate fans out the side-data source adapters concurrently
// under one hard wall-clock budget. It is the single point where slow-
// provider risk is bounded: a scan proceeds with whatever datasets completed
// in time rather than blocking on a straggler.
package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// Sources holds the five side-data adapter operations. Each must degrade to
// an empty dataset on its own failures; the aggregator never sees an error.
type Sources struct {
	OpenInterest func(ctx context.Context, symbols []string) domain.SourceDataset
	History      func(ctx context.Context) domain.SourceDataset
	Markets      func(ctx context.Context) domain.SourceDataset
	Derivatives  func(ctx context.Context) domain.SourceDataset
	Tickers      func(ctx context.Context) domain.SourceDataset
}

// Aggregator runs the source adapters concurrently with a shared timeout.
type Aggregator struct {
	sources Sources
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an Aggregator with the given adapters and budget.
func New(sources Sources, timeout time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "aggregator")),
	}
}

// result carries one adapter's dataset back to the collector goroutine.
type result struct {
	name   string
	assign func(*domain.Datasets, domain.SourceDataset)
	ds     domain.SourceDataset
}

// Collect launches all adapters and waits for the first of all-done or the
// timeout. The per-symbol open-interest adapter is fed the bounded active
// symbol subset. Datasets that did not complete in time stay empty; a
// timeout is logged as a warning, never returned as an error.
func (a *Aggregator) Collect(ctx context.Context, activeSymbols []string) domain.Datasets {
	ds := domain.NewDatasets()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	launches := []struct {
		name   string
		fetch  func(ctx context.Context) domain.SourceDataset
		assign func(*domain.Datasets, domain.SourceDataset)
	}{
		{"open_interest", func(ctx context.Context) domain.SourceDataset {
			return a.sources.OpenInterest(ctx, activeSymbols)
		}, func(d *domain.Datasets, s domain.SourceDataset) { d.OpenInterest = s }},
		{"history", a.sources.History,
			func(d *domain.Datasets, s domain.SourceDataset) { d.History = s }},
		{"markets", a.sources.Markets,
			func(d *domain.Datasets, s domain.SourceDataset) { d.Markets = s }},
		{"derivatives", a.sources.Derivatives,
			func(d *domain.Datasets, s domain.SourceDataset) { d.Derivatives = s }},
		{"tickers", a.sources.Tickers,
			func(d *domain.Datasets, s domain.SourceDataset) { d.Tickers = s }},
	}

	// Buffered so stragglers finishing after the deadline do not leak.
	results := make(chan result, len(launches))
	started := time.Now()

	for _, l := range launches {
		l := l
		go func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("source adapter panicked",
						slog.String("source", l.name),
						slog.Any("panic", r),
					)
					results <- result{name: l.name, assign: l.assign, ds: domain.SourceDataset{}}
				}
			}()
			results <- result{name: l.name, assign: l.assign, ds: l.fetch(ctx)}
		}()
	}

	for completed := 0; completed < len(launches); completed++ {
		select {
		case r := <-results:
			r.assign(&ds, r.ds)
			a.logger.Debug("source completed",
				slog.String("source", r.name),
				slog.Int("symbols", len(r.ds)),
			)
		case <-ctx.Done():
			a.logger.Warn("side-data aggregation timed out, proceeding with partial data",
				slog.Int("completed", completed),
				slog.Int("total", len(launches)),
				slog.Duration("elapsed", time.Since(started)),
			)
			return ds
		}
	}

	a.logger.Info("side-data aggregation complete",
		slog.Duration("elapsed", time.Since(started)),
	)
	return ds
}
