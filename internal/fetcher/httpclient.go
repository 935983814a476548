package fetcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// Default retry configuration
	DefaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// NewHTTPClient creates a new HTTP client with retry logic and exponential backoff.
// A retryCount of zero disables retries.
func NewHTTPClient(baseURL string, retryCount int) *resty.Client {
	if retryCount < 0 {
		retryCount = DefaultRetryCount
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch code := r.StatusCode(); {
	case code >= 500:
		return true
	case code == 429, code == 408:
		return true
	default:
		// 401/403 and the other client errors will not change on retry
		return false
	}
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Debug().
			Str("url", r.Request.URL).
			Int("attempt", r.Request.Attempt).
			Err(err).
			Msg("Retrying request due to error")
		return
	}

	log.Debug().
		Str("url", r.Request.URL).
		Int("attempt", r.Request.Attempt).
		Int("status_code", r.StatusCode()).
		Msg("Retrying request due to status code")
}
