// Package ratelimit enforces the per-route hourly quotas the API
// Adapter advertises. Each route gets its own token bucket, global
// across all callers — there is no per-client dimension.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Table is a named set of per-route limiters. A route absent from the
// table is unlimited.
type Table struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewTable builds a Table from a route -> per-hour-quota map. Each
// limiter is seeded with rate.Every(time.Hour/n) and burst n, so the
// documented "n/hour" quota is enforced as a token bucket rather than a
// wall-clock window: the full hourly allowance is available as burst
// capacity from a cold start, then refills continuously.
func NewTable(quotas map[string]int) *Table {
	limiters := make(map[string]*rate.Limiter, len(quotas))
	for route, n := range quotas {
		if n <= 0 {
			continue
		}
		limiters[route] = rate.NewLimiter(rate.Every(time.Hour/time.Duration(n)), n)
	}
	return &Table{limiters: limiters}
}

// Allow reports whether the named route's bucket has a token to spend.
// Routes with no configured quota always allow.
func (t *Table) Allow(route string) bool {
	t.mu.Lock()
	l, ok := t.limiters[route]
	t.mu.Unlock()
	if !ok {
		return true
	}
	return l.Allow()
}

// DefaultQuotas mirrors the source's per-endpoint hourly limits.
func DefaultQuotas() map[string]int {
	return map[string]int{
		"tree.mutate":        1000,
		"trees.list":         10000,
		"tree.segments.list": 50000,
		"segment.create":     20000,
		"segment.remove":     20000,
		"segment.root":       10000,
		"level.get":          100000,
		"breadcrumbs.get":    100000,
		"segment.get":        50000,
		"tree.get":           40000,
		"tree.dump":          200000,
		"directory.add":      100000,
		"directory.remove":   20000,
		"node.add":           200000,
		"node.remove":        100000,
		"clear":              20,
		"persist":            5000,
	}
}
