package market

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time snapshot of a ticker
type Quote struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Open             decimal.Decimal `json:"open"`
	High             decimal.Decimal `json:"high"`
	Low              decimal.Decimal `json:"low"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	Change           decimal.Decimal `json:"change"`
	ChangePercent    decimal.Decimal `json:"change_percent"`
	Volume           int64           `json:"volume"`
	LatestTradingDay time.Time       `json:"latest_trading_day"`
}

// NewsQuery returns the search query used to look up news for the quote.
// Examples:
//   - {Symbol: "AAPL", Name: "Apple Inc."} -> "Apple Inc. AAPL stock"
//   - {Symbol: "AAPL"}                     -> "AAPL stock"
func (q Quote) NewsQuery() string {
	parts := strings.Fields(q.Name + " " + q.Symbol + " stock")
	return strings.Join(parts, " ")
}

// DataPoint is a single bar of a price history series
type DataPoint struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// NewsArticle is a single news item returned for a query
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
