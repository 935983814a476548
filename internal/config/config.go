package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"quotedetail/internal/alphavantage"
	"quotedetail/internal/fetcher"
	"quotedetail/internal/newsapi"
	"quotedetail/internal/ratelimit"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level          string `mapstructure:"level"`  // debug, info, warn, error
	Format         string `mapstructure:"format"` // json, pretty
	FilePath       string `mapstructure:"file_path"`
	RotationSizeMB int    `mapstructure:"rotation_size_mb"`
	RetentionDays  int    `mapstructure:"retention_days"`
}

// Config holds all configuration for the quote detail application.
type Config struct {
	// API Keys for the data providers
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`
	NewsAPIKey         string `mapstructure:"news_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`
	NewsBaseURL         string `mapstructure:"news_base_url"`

	// Requests per second allowed per provider, 0 disables limiting
	AlphavantageRPS float64 `mapstructure:"alphavantage_rps"`
	NewsRPS         float64 `mapstructure:"news_rps"`

	// HTTP retries on transient failures
	HTTPRetryCount int `mapstructure:"http_retry_count"`

	// Number of daily bars in the short history window
	HistoryShortPoints int `mapstructure:"history_short_points"`

	// News search tuning
	NewsPageSize int    `mapstructure:"news_page_size"`
	NewsLanguage string `mapstructure:"news_language"`

	// Tickers the portfolio store starts with
	Portfolio []string `mapstructure:"portfolio"`

	Log LogConfig `mapstructure:"log"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values. A .env file in
// the working directory is loaded first without overriding variables already set.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - NEWS_API_KEY
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - NEWS_BASE_URL (optional, defaults to production)
//   - ALPHAVANTAGE_RPS, NEWS_RPS (optional)
//   - HTTP_RETRY_COUNT (optional, defaults to 3)
//   - HISTORY_SHORT_POINTS (optional, defaults to 30)
//   - NEWS_PAGE_SIZE, NEWS_LANGUAGE (optional)
//   - PORTFOLIO (optional, comma separated tickers)
//   - LOG_LEVEL, LOG_FORMAT, LOG_FILE_PATH (optional)
func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("news_base_url", "https://newsapi.org/v2")
	limits := ratelimit.DefaultLimits()
	v.SetDefault("alphavantage_rps", limits[ratelimit.APIAlphaVantage])
	v.SetDefault("news_rps", limits[ratelimit.APINews])
	v.SetDefault("http_retry_count", fetcher.DefaultRetryCount)
	v.SetDefault("history_short_points", alphavantage.DefaultHistoryPoints)
	v.SetDefault("news_page_size", newsapi.DefaultPageSize)
	v.SetDefault("news_language", "en")
	v.SetDefault("portfolio", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "pretty")
	v.SetDefault("log.file_path", "")
	v.SetDefault("log.rotation_size_mb", 50)
	v.SetDefault("log.retention_days", 7)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.quotedetail")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Bind environment variables
	bindings := map[string]string{
		"alphavantage_api_key":  "ALPHAVANTAGE_API_KEY",
		"news_api_key":          "NEWS_API_KEY",
		"alphavantage_base_url": "ALPHAVANTAGE_BASE_URL",
		"news_base_url":         "NEWS_BASE_URL",
		"alphavantage_rps":      "ALPHAVANTAGE_RPS",
		"news_rps":              "NEWS_RPS",
		"http_retry_count":      "HTTP_RETRY_COUNT",
		"history_short_points":  "HISTORY_SHORT_POINTS",
		"news_page_size":        "NEWS_PAGE_SIZE",
		"news_language":         "NEWS_LANGUAGE",
		"portfolio":             "PORTFOLIO",
		"log.level":             "LOG_LEVEL",
		"log.format":            "LOG_FORMAT",
		"log.file_path":         "LOG_FILE_PATH",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Unmarshal config into struct (handles both simple and complex fields)
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	var missing []string
	if config.AlphavantageAPIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if config.NewsAPIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if config.HistoryShortPoints <= 0 {
		return nil, fmt.Errorf("HISTORY_SHORT_POINTS must be positive, got %d", config.HistoryShortPoints)
	}

	return config, nil
}
