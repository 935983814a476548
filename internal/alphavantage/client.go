package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"quotedetail/internal/fetcher"
	"quotedetail/internal/ratelimit"
)

// DefaultHistoryPoints is the number of daily bars in a short history window
const DefaultHistoryPoints = 30

// apiNotice holds the in-band messages AlphaVantage returns with HTTP 200
// when a call is throttled or malformed
type apiNotice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// err converts a notice into a FetchError, or nil when the response carries none
func (n apiNotice) err(statusCode int) *fetcher.FetchError {
	switch {
	case n.Note != "":
		e := fetcher.NewRateLimitError(statusCode)
		e.Message = n.Note
		return e
	case n.Information != "":
		e := fetcher.NewRateLimitError(statusCode)
		e.Message = n.Information
		return e
	case n.ErrorMessage != "":
		return fetcher.NewValidationError(n.ErrorMessage)
	default:
		return nil
	}
}

// Client talks to the AlphaVantage query endpoint.
// It serves both the quote and the short history capability.
type Client struct {
	apiKey        string
	client        *resty.Client
	limiter       *ratelimit.Limiter
	historyPoints int
	retryCount    int
}

// Option configures a Client
type Option func(*Client)

// WithLimiter makes every call wait on the AlphaVantage budget of l
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithHistoryPoints sets how many daily bars FetchHistoryShort returns
func WithHistoryPoints(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.historyPoints = n
		}
	}
}

// WithRetryCount sets the number of HTTP retries on transient failures
func WithRetryCount(n int) Option {
	return func(c *Client) {
		c.retryCount = n
	}
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		historyPoints: DefaultHistoryPoints,
		retryCount:    fetcher.DefaultRetryCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = fetcher.NewHTTPClient(baseURL, c.retryCount)

	return c
}

// get runs one query against the endpoint, decoding a 2xx body into result
func (c *Client) get(ctx context.Context, params map[string]string, result any) (*resty.Response, *fetcher.FetchError) {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, fetcher.ClassifyTransportError(err)
	}

	params["apikey"] = c.apiKey

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(result).
		Get("")

	if err != nil {
		return nil, fetcher.ClassifyTransportError(fmt.Errorf("alphavantage %s request failed: %w", params["function"], err))
	}

	if !resp.IsSuccess() {
		return nil, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	return resp, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s %q: %w", field, raw, err)
	}
	return d, nil
}

func parseVolume(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse volume %q: %w", raw, err)
	}
	return v, nil
}
