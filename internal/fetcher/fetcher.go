package fetcher

import (
	"context"

	"quotedetail/internal/market"
)

// QuoteSource retrieves the current quote for a ticker.
// Authorization problems are reported as a Failure, never as Unauthorized.
type QuoteSource interface {
	FetchQuote(ctx context.Context, ticker string) Outcome[market.Quote]
}

// HistorySource retrieves a short window of price history for a symbol,
// ordered oldest first. Like QuoteSource it only reports Success or Failure.
type HistorySource interface {
	FetchHistoryShort(ctx context.Context, symbol string) Outcome[[]market.DataPoint]
}

// NewsSource retrieves articles for a free-text query.
// Rejected credentials are reported as Unauthorized rather than Failure.
type NewsSource interface {
	FetchNews(ctx context.Context, query string) Outcome[[]market.NewsArticle]
}

// PortfolioStore is the synchronous membership store backing the portfolio view.
//
//go:generate mockgen -package=quotedetail_test -destination=../quotedetail/mock_portfolio_store_test.go -source=fetcher.go PortfolioStore
type PortfolioStore interface {
	// HasTicker reports whether ticker is part of the portfolio
	HasTicker(ticker string) bool

	// RemoveStock deletes ticker from the portfolio. Failures are not reported.
	RemoveStock(ticker string)
}
