package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/newsfront/internal/middleware"
	"github.com/hitoshi/newsfront/internal/render"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	RateLimiter *middleware.RateLimiter

	// ニュース
	NewsService NewsServiceInterface
	NewsConfig  NewsHandlerConfig

	// 監視
	MetricsHandler http.Handler
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → SecurityHeaders → RateLimit
//
// ヘルスチェック、メトリクスとスタイルシートはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	newsHandler := NewNewsHandler(deps.NewsService, deps.NewsConfig, logger)
	aboutHandler := NewAboutHandler(logger)

	// --- 監視用のルート ---
	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 静的ファイル ---
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.StaticFS()))))

	// --- ページとフラグメント ---
	// ニュースAPIへの中継を伴うためレート制限を適用する
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Get("/", newsHandler.Home)
		r.Get("/search", newsHandler.Search)
		r.Get("/about", aboutHandler.About)

		r.Route("/fragments", func(r chi.Router) {
			r.Get("/latest", newsHandler.LatestFragment)
			r.Get("/search", newsHandler.SearchFragment)
		})
	})

	return r
}
