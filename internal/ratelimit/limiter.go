// Package ratelimit implements an in-process sliding-window call budget per
// upstream provider. Each provider gets its own Limiter so one slow provider
// cannot starve another; limiter state lives for the whole process so bursts
// of requests still respect the published per-minute quota.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks the timestamps of recent outbound calls and answers whether
// a new call currently fits under the quota. It never blocks; callers decide
// whether to wait or skip.
type Limiter struct {
	mu     sync.Mutex
	quota  int
	window time.Duration
	calls  []time.Time

	now func() time.Time // overridable in tests
}

// New creates a Limiter permitting quota calls per window.
func New(quota int, window time.Duration) *Limiter {
	return &Limiter{
		quota:  quota,
		window: window,
		now:    time.Now,
	}
}

// CanProceed reports whether a new call is currently permitted.
func (l *Limiter) CanProceed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.calls) < l.quota
}

// Record registers an outbound call at the current time.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	l.calls = append(l.calls, now)
}

// TimeUntilNextSlot returns how long until a call will be permitted. It
// returns zero when a call is permitted right now.
func (l *Limiter) TimeUntilNextSlot() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if len(l.calls) < l.quota {
		return 0
	}
	// The oldest recorded call frees a slot once it ages out of the window.
	return l.calls[0].Add(l.window).Sub(now)
}

// prune drops timestamps older than the window. Callers must hold mu.
// calls is append-only in time order, so the retained tail stays sorted.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

// Registry owns one Limiter per provider for the lifetime of the process.
type Registry struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[string]*Limiter
	quotas   map[string]int
}

// NewRegistry creates a Registry whose limiters all share the given window.
func NewRegistry(window time.Duration) *Registry {
	return &Registry{
		window:   window,
		limiters: make(map[string]*Limiter),
		quotas:   make(map[string]int),
	}
}

// Configure sets the quota used when the limiter for provider is first built.
func (r *Registry) Configure(provider string, quota int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotas[provider] = quota
}

// For returns the limiter for provider, creating it on first use.
func (r *Registry) For(provider string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[provider]; ok {
		return l
	}
	quota := r.quotas[provider]
	if quota <= 0 {
		quota = 30
	}
	l := New(quota, r.window)
	r.limiters[provider] = l
	return l
}
