package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Limiter interface {
	// Allow reports whether the client may proceed and, if not, how long it
	// should wait before retrying.
	Allow(client string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

// TokenBucketLimiter keeps one token bucket per client. A bucket holds
// requests tokens and refills fully over window.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func NewTokenBucketLimiter(requests int, window time.Duration) *TokenBucketLimiter {
	if requests < 1 {
		requests = 1
	}
	return &TokenBucketLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
	}
}

func (l *TokenBucketLimiter) Allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[client] = lim
	}
	l.mu.Unlock()

	r := lim.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay
	}
	return true, 0
}
