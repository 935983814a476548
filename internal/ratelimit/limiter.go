package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIAlphaVantage represents the AlphaVantage API (quotes and history)
	APIAlphaVantage API = "alphavantage"
	// APINews represents the news search API
	APINews API = "news"
)

// Limits holds requests-per-second budgets keyed by API.
// A zero or negative rate disables limiting for that API.
type Limits map[API]float64

// DefaultLimits returns conservative production limits
func DefaultLimits() Limits {
	return Limits{
		// AlphaVantage: 5 requests per minute on free tier = 1 request every 12 seconds
		APIAlphaVantage: 1.0 / 12.0,
		// NewsAPI developer tier allows 100 requests per day; stay well under bursts
		APINews: 1,
	}
}

// Limiter manages rate limits for different APIs
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter with the given per-API limits
func New(limits Limits) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter, len(limits)),
	}
	for api, rps := range limits {
		l.Set(api, rps)
	}
	return l
}

// Set replaces the limit for api
func (l *Limiter) Set(api API, rps float64) {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[api] = rate.NewLimiter(limit, 1)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if l == nil {
		return nil
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request without limiting
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	if l == nil {
		return true
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		// If no limiter exists for this API, allow the request
		return true
	}

	return limiter.Allow()
}
