package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; past it the map starts over.
const maxTrackedClients = 10000

// Throttle is a per-client token bucket for login attempts.
type Throttle struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewThrottle allows rps attempts per second per client with bursts of burst.
// A non-positive rps disables throttling.
func NewThrottle(rps float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow spends one attempt of client and reports whether it was available.
func (t *Throttle) Allow(client string) bool {
	if t == nil || t.limit <= 0 {
		return true
	}

	t.mu.Lock()
	l, ok := t.limiters[client]
	if !ok {
		if len(t.limiters) >= maxTrackedClients {
			t.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(t.limit, t.burst)
		t.limiters[client] = l
	}
	t.mu.Unlock()

	return l.Allow()
}
