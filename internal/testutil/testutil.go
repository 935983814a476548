package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"quotedetail/internal/fetcher"
	"quotedetail/internal/market"
)

// MockQuoteSource is a mock implementation of fetcher.QuoteSource for testing
type MockQuoteSource struct {
	FetchFunc func(ctx context.Context, ticker string) fetcher.Outcome[market.Quote]

	calls atomic.Int64
}

// FetchQuote implements the fetcher.QuoteSource interface
func (m *MockQuoteSource) FetchQuote(ctx context.Context, ticker string) fetcher.Outcome[market.Quote] {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker)
	}
	return fetcher.Success(market.Quote{Symbol: ticker})
}

// Calls returns the number of FetchQuote invocations
func (m *MockQuoteSource) Calls() int64 {
	return m.calls.Load()
}

// MockHistorySource is a mock implementation of fetcher.HistorySource for testing
type MockHistorySource struct {
	FetchFunc func(ctx context.Context, symbol string) fetcher.Outcome[[]market.DataPoint]

	calls atomic.Int64
}

// FetchHistoryShort implements the fetcher.HistorySource interface
func (m *MockHistorySource) FetchHistoryShort(ctx context.Context, symbol string) fetcher.Outcome[[]market.DataPoint] {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return fetcher.Success([]market.DataPoint{})
}

// Calls returns the number of FetchHistoryShort invocations
func (m *MockHistorySource) Calls() int64 {
	return m.calls.Load()
}

// MockNewsSource is a mock implementation of fetcher.NewsSource for testing
type MockNewsSource struct {
	FetchFunc func(ctx context.Context, query string) fetcher.Outcome[[]market.NewsArticle]

	mu      sync.Mutex
	queries []string
}

// FetchNews implements the fetcher.NewsSource interface
func (m *MockNewsSource) FetchNews(ctx context.Context, query string) fetcher.Outcome[[]market.NewsArticle] {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, query)
	}
	return fetcher.Success([]market.NewsArticle{})
}

// Calls returns the number of FetchNews invocations
func (m *MockNewsSource) Calls() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.queries))
}

// Queries returns the queries received so far, in call order
func (m *MockNewsSource) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// NewQuoteSource creates a simple mock quote source that always returns outcome
func NewQuoteSource(outcome fetcher.Outcome[market.Quote]) *MockQuoteSource {
	return &MockQuoteSource{
		FetchFunc: func(ctx context.Context, ticker string) fetcher.Outcome[market.Quote] {
			return outcome
		},
	}
}

// NewHistorySource creates a simple mock history source that always returns outcome
func NewHistorySource(outcome fetcher.Outcome[[]market.DataPoint]) *MockHistorySource {
	return &MockHistorySource{
		FetchFunc: func(ctx context.Context, symbol string) fetcher.Outcome[[]market.DataPoint] {
			return outcome
		},
	}
}

// NewNewsSource creates a simple mock news source that always returns outcome
func NewNewsSource(outcome fetcher.Outcome[[]market.NewsArticle]) *MockNewsSource {
	return &MockNewsSource{
		FetchFunc: func(ctx context.Context, query string) fetcher.Outcome[[]market.NewsArticle] {
			return outcome
		},
	}
}
