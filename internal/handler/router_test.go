package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hitoshi/newsfront/internal/metrics"
	"github.com/hitoshi/newsfront/internal/middleware"
	"github.com/hitoshi/newsfront/internal/newsapi"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestRouter(t *testing.T, svc NewsServiceInterface, perMinute int) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(perMinute), logger)
	t.Cleanup(limiter.Stop)

	return NewRouter(&RouterDeps{
		Logger:      logger,
		RateLimiter: limiter,
		NewsService: svc,
		NewsConfig:  NewsHandlerConfig{FeedPageSize: 10, SearchPageSize: 50},
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, &mockNewsService{}, 120)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want %q", body.Status, "ok")
	}
}

func TestRouter_AppliesCommonMiddleware(t *testing.T) {
	router := newTestRouter(t, &mockNewsService{}, 120)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("X-Request-ID should be set")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy should be set")
	}
}

func TestRouter_RoutesPagesAndFragments(t *testing.T) {
	router := newTestRouter(t, &mockNewsService{}, 120)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/", http.StatusOK},
		{"/search", http.StatusOK},
		{"/about?lang=es", http.StatusOK},
		{"/fragments/latest?page=1", http.StatusOK},
		{"/fragments/search?text=cats&page=2", http.StatusOK},
		{"/?page=2", http.StatusOK},
		{"/search?text=cats&page=2", http.StatusOK},
		{"/static/css/output.css", http.StatusOK},
		{"/static/js/home.js", http.StatusNotFound},
		{"/news/1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_PagesReferenceOnlyServedAssets(t *testing.T) {
	router := newTestRouter(t, &mockNewsService{}, 120)

	for _, path := range []string{"/", "/search", "/about"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			doc := parseBody(t, rec.Body.String())

			if n := doc.Find("script").Length(); n != 0 {
				t.Errorf("script要素 = %d, want 0", n)
			}
			doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
				href, _ := s.Attr("href")
				asset := httptest.NewRecorder()
				router.ServeHTTP(asset, httptest.NewRequest(http.MethodGet, href, nil))
				if asset.Code != http.StatusOK {
					t.Errorf("GET %s status = %d, want %d", href, asset.Code, http.StatusOK)
				}
				if ct := asset.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
					t.Errorf("GET %s Content-Type = %q", href, ct)
				}
			})
		})
	}
}

func TestRouter_RateLimitsPagesButNotHealth(t *testing.T) {
	// 1 req/min、バースト1
	router := newTestRouter(t, &mockNewsService{}, 1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/about", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusOK)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/about", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Retry-After should be set")
	}

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	if health.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", health.Code, http.StatusOK)
	}
}

// TestRouter_EndToEnd は実際のnewsapi.Clientとフェイクのニュースサーバーを通して
// ページ送りとメトリクスの公開を検証する。
func TestRouter_EndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case newsapi.LatestPath:
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") == "0" {
				fmt.Fprint(w, `[{"id":1,"title":"Primera","content":"texto","url":"https://example.com/1","photo_url":null,"origin_created_at":"2024-01-02T03:04:05Z"}]`)
				return
			}
			fmt.Fprint(w, `[]`)
		case newsapi.SearchPath:
			http.NotFound(w, r)
		default:
			t.Errorf("unexpected upstream path: %s", r.URL.Path)
		}
	}))
	defer upstream.Close()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	client := newsapi.NewClient(&http.Client{Timeout: 5 * time.Second}, upstream.URL, logger, metrics.NewCollector(reg))

	router := NewRouter(&RouterDeps{
		Logger:         logger,
		NewsService:    client,
		NewsConfig:     NewsHandlerConfig{FeedPageSize: 10, SearchPageSize: 50},
		MetricsHandler: metrics.Handler(reg),
	})

	home := httptest.NewRecorder()
	router.ServeHTTP(home, httptest.NewRequest(http.MethodGet, "/", nil))
	if home.Code != http.StatusOK {
		t.Fatalf("home status = %d, want %d", home.Code, http.StatusOK)
	}
	if !strings.Contains(home.Body.String(), "Primera") {
		t.Error("home should contain the first record")
	}

	searchRec := httptest.NewRecorder()
	router.ServeHTTP(searchRec, httptest.NewRequest(http.MethodGet, "/search?text=cats", nil))
	if searchRec.Code != http.StatusOK {
		t.Fatalf("search status = %d, want %d", searchRec.Code, http.StatusOK)
	}

	metricsRec := httptest.NewRecorder()
	router.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := metricsRec.Body.String()
	for _, want := range []string{
		`newsfront_api_requests_total{endpoint="latest",outcome="success"} 1`,
		`newsfront_api_requests_total{endpoint="search",outcome="not_found"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics should contain %q", want)
		}
	}
}
