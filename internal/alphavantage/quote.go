package alphavantage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotedetail/internal/fetcher"
	"quotedetail/internal/market"
)

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	apiNotice
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// FetchQuote retrieves the current quote for ticker
func (c *Client) FetchQuote(ctx context.Context, ticker string) fetcher.Outcome[market.Quote] {
	var result GlobalQuoteResponse

	resp, ferr := c.get(ctx, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   ticker,
	}, &result)
	if ferr != nil {
		return fetcher.Failure[market.Quote](ferr)
	}

	if ferr := result.err(resp.StatusCode()); ferr != nil {
		return fetcher.Failure[market.Quote](ferr)
	}

	if result.GlobalQuote.Price == "" {
		return fetcher.Failure[market.Quote](fetcher.NewValidationError(fmt.Sprintf("price not found in response for %s", ticker)))
	}

	quote, err := toQuote(ticker, &result)
	if err != nil {
		return fetcher.Failure[market.Quote](fetcher.NewValidationError(err.Error()))
	}

	return fetcher.Success(quote)
}

func toQuote(ticker string, r *GlobalQuoteResponse) (market.Quote, error) {
	g := r.GlobalQuote
	q := market.Quote{Symbol: strings.ToUpper(ticker)}
	if g.Symbol != "" {
		q.Symbol = g.Symbol
	}

	var err error
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"price", g.Price, &q.Price},
		{"open", g.Open, &q.Open},
		{"high", g.High, &q.High},
		{"low", g.Low, &q.Low},
		{"previous close", g.PreviousClose, &q.PreviousClose},
		{"change", g.Change, &q.Change},
		{"change percent", g.ChangePercent, &q.ChangePercent},
	}
	for _, f := range fields {
		if *f.dst, err = parseDecimal(f.name, f.raw); err != nil {
			return market.Quote{}, err
		}
	}

	if q.Volume, err = parseVolume(g.Volume); err != nil {
		return market.Quote{}, err
	}

	if g.LatestTradingDay != "" {
		day, err := time.Parse(time.DateOnly, g.LatestTradingDay)
		if err != nil {
			return market.Quote{}, fmt.Errorf("failed to parse latest trading day %q: %w", g.LatestTradingDay, err)
		}
		q.LatestTradingDay = day
	}

	return q, nil
}
