package domain

import "context"

// ScanCache stores the most recent scan result keyed by the exchange
// selection, so repeated dashboard loads do not re-hit rate-limited
// providers. Implementations return ErrNotFound on a miss.
type ScanCache interface {
	Get(ctx context.Context, key string) (*ScanResult, error)
	Set(ctx context.Context, key string, res *ScanResult) error
}
