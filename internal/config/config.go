package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// News API
	NewsAPIBaseURL string
	SiteBaseURL    string

	// Fetch
	FetchTimeout time.Duration

	// Pagination
	FeedPageSize   int
	SearchPageSize int

	// Display
	PlaceholderImage string
	DisplayLocation  *time.Location

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string

	// Logging
	LogLevel string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.NewsAPIBaseURL = strings.TrimRight(os.Getenv("NEWS_API_BASE_URL"), "/")
	if cfg.NewsAPIBaseURL == "" {
		missing = append(missing, "NEWS_API_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if err := validateBaseURL("NEWS_API_BASE_URL", cfg.NewsAPIBaseURL); err != nil {
		return nil, err
	}

	// Optional fields with defaults
	cfg.SiteBaseURL = strings.TrimRight(getEnvString("SITE_BASE_URL", cfg.NewsAPIBaseURL), "/")
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FeedPageSize = getEnvPositiveInt("FEED_PAGE_SIZE", 10)
	cfg.SearchPageSize = getEnvPositiveInt("SEARCH_PAGE_SIZE", 50)
	cfg.PlaceholderImage = getEnvString("PLACEHOLDER_IMAGE", "/static/img/news_placeholder.jpg")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")

	loc, err := loadLocation(os.Getenv("DISPLAY_TZ"))
	if err != nil {
		return nil, err
	}
	cfg.DisplayLocation = loc

	return cfg, nil
}

// validateBaseURL はhttpまたはhttpsの絶対URLであることを検証する。
func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL: %q", key, raw)
	}
	return nil
}

// loadLocation は表示タイムゾーンを読み込む。未設定の場合はtime.Local。
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("DISPLAY_TZ is not a valid time zone: %w", err)
	}
	return loc, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvPositiveInt(key string, defaultVal int) int {
	if i := getEnvInt(key, defaultVal); i > 0 {
		return i
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
