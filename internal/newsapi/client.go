// Package newsapi はニュースAPI（最新ニュース一覧・検索）のクライアントを提供する。
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/newsfront/internal/metrics"
	"github.com/hitoshi/newsfront/internal/model"
)

const (
	// LatestPath は最新ニュース一覧のパス。ページは0始まり。
	LatestPath = "/api/news/latest"
	// SearchPath は検索のパス。ページは1始まり。
	SearchPath = "/api/search"

	endpointLatest = "latest"
	endpointSearch = "search"

	// maxResponseSize はレスポンスボディの上限（10MB）。
	maxResponseSize = 10 << 20
)

// StatusError はAPIが2xx以外（検索の404を除く）を返したことを示す。
type StatusError struct {
	Endpoint   string
	StatusCode int
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	return fmt.Sprintf("news API %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client はニュースAPIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
	baseURL    string
	userAgent  string
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLはAPIのオリジン（例: https://news.example.com）を指定する。
// タイムアウトはhttpClient側で設定する。
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger, collector metrics.MetricsCollector) *Client {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    collector,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "Newsfront/1.0",
	}
}

// Latest は最新ニュースの指定ページを取得する。
// GET /api/news/latest?page={n}
func (c *Client) Latest(ctx context.Context, page int) ([]model.NewsRecord, error) {
	reqURL := c.baseURL + LatestPath + "?page=" + strconv.Itoa(page)
	return c.get(ctx, endpointLatest, reqURL, page, false)
}

// Search は検索結果の指定ページを取得する。
// GET /api/search?{query}&page={n}
// 404は該当なしとして空のスライスを返す。
func (c *Client) Search(ctx context.Context, query string, page int) ([]model.NewsRecord, error) {
	q := "page=" + strconv.Itoa(page)
	if query != "" {
		q = query + "&" + q
	}
	reqURL := c.baseURL + SearchPath + "?" + q
	return c.get(ctx, endpointSearch, reqURL, page, true)
}

func (c *Client) get(ctx context.Context, endpoint, reqURL string, page int, notFoundIsEmpty bool) ([]model.NewsRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordLatency(endpoint, time.Since(start))
	if err != nil {
		c.metrics.RecordRequest(endpoint, metrics.OutcomeNetwork)
		c.logger.Error("ニュースAPIの呼び出しに失敗しました",
			slog.String("endpoint", endpoint),
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("ニュースAPI(%s)の呼び出しに失敗しました: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordHTTPStatus(endpoint, resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound && notFoundIsEmpty {
		c.metrics.RecordRequest(endpoint, metrics.OutcomeNotFound)
		c.logger.Info("検索結果が見つかりませんでした",
			slog.String("endpoint", endpoint),
			slog.Int("page", page),
		)
		return []model.NewsRecord{}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordRequest(endpoint, metrics.OutcomeFailure)
		c.logger.Error("ニュースAPIがエラーステータスを返しました",
			slog.String("endpoint", endpoint),
			slog.Int("page", page),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.metrics.RecordRequest(endpoint, metrics.OutcomeNetwork)
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var records []model.NewsRecord
	if err := json.Unmarshal(body, &records); err != nil {
		c.metrics.RecordRequest(endpoint, metrics.OutcomeFailure)
		c.logger.Error("ニュースAPIのレスポンスのパースに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	// nullは空配列として扱う
	if records == nil {
		records = []model.NewsRecord{}
	}

	c.metrics.RecordRequest(endpoint, metrics.OutcomeSuccess)
	c.metrics.RecordRecordsReceived(endpoint, len(records))

	return records, nil
}
