package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// SymbolLimiter applies a token-bucket limit per symbol. Limiters are
// created on first use with the shared rate and burst.
type SymbolLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewSymbolLimiter(perSecond float64, burst int) *SymbolLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SymbolLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *SymbolLimiter) Allow(symbol string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[symbol]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[symbol] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
