package newsapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resty.dev/v3"

	"quotedetail/internal/fetcher"
	"quotedetail/internal/market"
	"quotedetail/internal/ratelimit"
)

// DefaultPageSize is the number of articles requested per query
const DefaultPageSize = 20

// error codes NewsAPI uses for credential problems
var unauthorizedCodes = map[string]bool{
	"apiKeyDisabled":  true,
	"apiKeyExhausted": true,
	"apiKeyInvalid":   true,
	"apiKeyMissing":   true,
}

// EverythingResponse represents the /everything search response
type EverythingResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Article is a single article as returned by the API
type Article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
}

// NewsFetcher searches news articles for a query
type NewsFetcher struct {
	client   *resty.Client
	limiter  *ratelimit.Limiter
	pageSize int
	language string
}

// Option configures a NewsFetcher
type Option func(*NewsFetcher)

// WithLimiter makes every call wait on the news budget of l
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(f *NewsFetcher) {
		f.limiter = l
	}
}

// WithPageSize sets the number of articles requested
func WithPageSize(n int) Option {
	return func(f *NewsFetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithLanguage restricts results to a two-letter language code
func WithLanguage(lang string) Option {
	return func(f *NewsFetcher) {
		f.language = lang
	}
}

// NewNewsFetcher creates a new news fetcher. retryCount is passed to the HTTP client.
func NewNewsFetcher(apiKey, baseURL string, retryCount int, opts ...Option) *NewsFetcher {
	client := fetcher.NewHTTPClient(baseURL, retryCount).
		SetHeader("X-Api-Key", apiKey)

	f := &NewsFetcher{
		client:   client,
		pageSize: DefaultPageSize,
		language: "en",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchNews retrieves the newest articles matching query.
// Rejected credentials yield an Unauthorized outcome instead of a failure.
func (f *NewsFetcher) FetchNews(ctx context.Context, query string) fetcher.Outcome[[]market.NewsArticle] {
	if err := f.limiter.Wait(ctx, ratelimit.APINews); err != nil {
		return fetcher.Failure[[]market.NewsArticle](fetcher.ClassifyTransportError(err))
	}

	params := map[string]string{
		"q":        query,
		"sortBy":   "publishedAt",
		"pageSize": strconv.Itoa(f.pageSize),
	}
	if f.language != "" {
		params["language"] = f.language
	}

	var result EverythingResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/everything")

	if err != nil {
		return fetcher.Failure[[]market.NewsArticle](fetcher.ClassifyTransportError(fmt.Errorf("failed to fetch news for %q: %w", query, err)))
	}

	if !resp.IsSuccess() {
		ferr := fetcher.ClassifyHTTPError(resp.StatusCode())
		if fetcher.IsUnauthorized(ferr) {
			return fetcher.Unauthorized[[]market.NewsArticle]()
		}
		return fetcher.Failure[[]market.NewsArticle](ferr)
	}

	if result.Status == "error" {
		return classifyAPIError[[]market.NewsArticle](resp.StatusCode(), result.Code, result.Message)
	}

	articles := make([]market.NewsArticle, 0, len(result.Articles))
	for _, a := range result.Articles {
		// Takedowns come back as "[Removed]" placeholders
		if a.URL == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, market.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Author:      a.Author,
			Description: a.Description,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}

	return fetcher.Success(articles)
}

func classifyAPIError[T any](statusCode int, code, message string) fetcher.Outcome[T] {
	switch {
	case unauthorizedCodes[code]:
		return fetcher.Unauthorized[T]()
	case code == "rateLimited":
		e := fetcher.NewRateLimitError(statusCode)
		e.Message = message
		return fetcher.Failure[T](e)
	default:
		return fetcher.Failure[T](fetcher.NewClientError(statusCode, fmt.Sprintf("%s: %s", code, message)))
	}
}
