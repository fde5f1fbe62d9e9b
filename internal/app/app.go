package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/newsfront/internal/config"
	"github.com/hitoshi/newsfront/internal/handler"
	"github.com/hitoshi/newsfront/internal/logger"
	"github.com/hitoshi/newsfront/internal/metrics"
	"github.com/hitoshi/newsfront/internal/middleware"
	"github.com/hitoshi/newsfront/internal/newsapi"
	"github.com/hitoshi/newsfront/internal/render"
	"github.com/hitoshi/newsfront/internal/security"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Init はアプリケーションの初期化を行う。
// .envファイルと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. .envファイルを読み込む（OSの環境変数が優先）
	loaded := config.LoadDotEnv()

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 4. 設定されたログレベルで再設定する
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(logger.SetupLevel(w, logger.ParseLevel(cfg.LogLevel)))

	if len(loaded) > 0 {
		slog.Debug("dotenv files loaded", slog.Any("files", loaded))
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。ターミナル向けのコマンドはwに描画し、ログは標準エラーに出す。
func Run(w io.Writer, args []string) error {
	return run(w, os.Stderr, os.Stdin, args)
}

func run(stdout, stderr io.Writer, stdin io.Reader, args []string) error {
	cmd := ParseCommand(args)

	switch cmd {
	case CommandHealthcheck:
		// 軽量サブコマンドのため、フル初期化をスキップする
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	case CommandAbout:
		// ニュースAPIを使わないため設定の読み込みは不要
		return runAbout(stdout, stdin, commandArgs(args))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case CommandHome, CommandSearch:
		cfg, err := initTerminal(stderr)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}
		client := newNewsClient(cfg, nil)
		session := newTerminalSession(cfg, stdout, stdin)
		if cmd == CommandHome {
			return session.runHome(ctx, client, commandArgs(args))
		}
		return session.runSearch(ctx, client, commandArgs(args))
	default:
		cfg, err := Init(stdout)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}

		slog.Info("starting application",
			slog.String("command", string(cmd)),
			slog.String("port", cfg.ServerPort),
			slog.String("news_api_base_url", cfg.NewsAPIBaseURL),
		)
		return runServe(ctx, cfg)
	}
}

// initTerminal はターミナル向けコマンドの初期化を行う。
// 描画結果とログが混ざらないよう、ログはwにWarn以上のみ出力する。
func initTerminal(w io.Writer) (*config.Config, error) {
	cfg, err := Init(w)
	if err != nil {
		return nil, err
	}
	level := max(logger.ParseLevel(cfg.LogLevel), slog.LevelWarn)
	slog.SetDefault(logger.SetupLevel(w, level))
	return cfg, nil
}

// newNewsClient は設定のタイムアウトを適用したニュースAPIクライアントを生成する。
// regがnilの場合はメトリクスを収集しない。
func newNewsClient(cfg *config.Config, reg prometheus.Registerer) *newsapi.Client {
	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if reg != nil {
		collector = metrics.NewCollector(reg)
	}
	return newsapi.NewClient(
		&http.Client{Timeout: cfg.FetchTimeout},
		cfg.NewsAPIBaseURL,
		slog.Default(),
		collector,
	)
}

// renderOptions は設定から描画オプションを組み立てる。
func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Location:    cfg.DisplayLocation,
		Placeholder: cfg.PlaceholderImage,
		Sanitizer:   security.NewTextSanitizer(),
		LinkBase:    cfg.SiteBaseURL,
	}
}

// newServer は全依存関係をワイヤリングしたHTTPサーバーを生成する。
// 停止時に呼ぶクリーンアップ関数を併せて返す。
func newServer(cfg *config.Config) (*http.Server, func()) {
	// 1. メトリクスレジストリの初期化
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 2. ニュースAPIクライアントの初期化
	client := newNewsClient(cfg, reg)

	// 3. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.DefaultRateLimiterConfig(cfg.RateLimitGeneral),
		slog.Default(),
	)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:      slog.Default(),
		RateLimiter: rateLimiter,
		NewsService: client,
		NewsConfig: handler.NewsHandlerConfig{
			FeedPageSize:   cfg.FeedPageSize,
			SearchPageSize: cfg.SearchPageSize,
			Render:         renderOptions(cfg),
		},
		MetricsHandler: metrics.Handler(reg),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server, rateLimiter.Stop
}

// runServe はHTMLサーバーモードで起動する。
// ctxがキャンセルされる（SIGINTまたはSIGTERMを受信する）とグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	server, cleanup := newServer(cfg)
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTML server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down HTML server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("HTML server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
