package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quotedetail/internal/fetcher"
	"quotedetail/internal/market"
)

// DailySeriesResponse represents the AlphaVantage TIME_SERIES_DAILY response
type DailySeriesResponse struct {
	apiNotice
	MetaData struct {
		Symbol        string `json:"2. Symbol"`
		LastRefreshed string `json:"3. Last Refreshed"`
	} `json:"Meta Data"`
	Series map[string]DailyBar `json:"Time Series (Daily)"`
}

// DailyBar is one entry of the daily series, keyed by date in the response
type DailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// FetchHistoryShort retrieves the most recent daily bars for symbol, oldest first
func (c *Client) FetchHistoryShort(ctx context.Context, symbol string) fetcher.Outcome[[]market.DataPoint] {
	var result DailySeriesResponse

	resp, ferr := c.get(ctx, map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     symbol,
		"outputsize": "compact",
	}, &result)
	if ferr != nil {
		return fetcher.Failure[[]market.DataPoint](ferr)
	}

	if ferr := result.err(resp.StatusCode()); ferr != nil {
		return fetcher.Failure[[]market.DataPoint](ferr)
	}

	if len(result.Series) == 0 {
		return fetcher.Failure[[]market.DataPoint](fetcher.NewValidationError(fmt.Sprintf("time series not found in response for %s", symbol)))
	}

	points, err := toDataPoints(result.Series, c.historyPoints)
	if err != nil {
		return fetcher.Failure[[]market.DataPoint](fetcher.NewValidationError(err.Error()))
	}

	return fetcher.Success(points)
}

// toDataPoints keeps the newest limit bars and returns them in chronological order
func toDataPoints(series map[string]DailyBar, limit int) ([]market.DataPoint, error) {
	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	// ISO dates sort lexically
	sort.Strings(dates)
	if limit > 0 && len(dates) > limit {
		dates = dates[len(dates)-limit:]
	}

	points := make([]market.DataPoint, 0, len(dates))
	for _, d := range dates {
		day, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("failed to parse series date %q: %w", d, err)
		}

		bar := series[d]
		p := market.DataPoint{Time: day}
		if p.Open, err = parseDecimal("open", bar.Open); err != nil {
			return nil, err
		}
		if p.High, err = parseDecimal("high", bar.High); err != nil {
			return nil, err
		}
		if p.Low, err = parseDecimal("low", bar.Low); err != nil {
			return nil, err
		}
		if p.Close, err = parseDecimal("close", bar.Close); err != nil {
			return nil, err
		}
		if p.Volume, err = parseVolume(bar.Volume); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, nil
}
