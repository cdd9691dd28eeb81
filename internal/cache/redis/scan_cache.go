package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// ScanCache implements domain.ScanCache with JSON-serialized scan results
// under a short TTL. The TTL keeps repeated dashboard loads from re-hitting
// rate-limited providers without turning the cache into snapshot history.
type ScanCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScanCache creates a ScanCache backed by the given Client.
func NewScanCache(c *Client, ttl time.Duration) *ScanCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ScanCache{rdb: c.Underlying(), ttl: ttl}
}

func scanKey(key string) string { return "scan:" + key }

// Get retrieves the cached result for an exchange selection. It returns
// domain.ErrNotFound when the key does not exist or has expired.
func (sc *ScanCache) Get(ctx context.Context, key string) (*domain.ScanResult, error) {
	data, err := sc.rdb.Get(ctx, scanKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get scan %s: %w", key, err)
	}

	var res domain.ScanResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("redis: unmarshal scan %s: %w", key, err)
	}
	return &res, nil
}

// Set stores a scan result under the configured TTL.
func (sc *ScanCache) Set(ctx context.Context, key string, res *domain.ScanResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("redis: marshal scan %s: %w", key, err)
	}
	if err := sc.rdb.Set(ctx, scanKey(key), data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set scan %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ScanCache = (*ScanCache)(nil)
