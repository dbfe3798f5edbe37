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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/hitoshi/cybersculpt/internal/config"
	"github.com/hitoshi/cybersculpt/internal/content"
	"github.com/hitoshi/cybersculpt/internal/database"
	"github.com/hitoshi/cybersculpt/internal/handler"
	"github.com/hitoshi/cybersculpt/internal/logger"
	"github.com/hitoshi/cybersculpt/internal/metrics"
	"github.com/hitoshi/cybersculpt/internal/middleware"
	"github.com/hitoshi/cybersculpt/internal/plan"
	"github.com/hitoshi/cybersculpt/internal/progress"
	"github.com/hitoshi/cybersculpt/internal/recommendation"
	"github.com/hitoshi/cybersculpt/internal/repository"
	"github.com/hitoshi/cybersculpt/internal/security"
	"github.com/hitoshi/cybersculpt/internal/worker/cleanup"
)

// 推薦プロバイダー呼び出し用HTTPクライアントのレスポンス上限。
const maxRecommendationResponseSize = 1 << 20

// siteName はOpenRouterのX-Titleヘッダーに送るアプリ名。
const siteName = "CyberSculpt"

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, os.Getenv("LOG_LEVEL"))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	if cmd == CommandHelp {
		printUsage(w)
		return nil
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.String("recommendation_provider", cfg.RecommendationProvider),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	sessionRepo := repository.NewPostgresSessionRepo(db)
	profileRepo := repository.NewPostgresProfileRepo(db)
	mealRepo := repository.NewPostgresMealPlanRepo(db)
	workoutRepo := repository.NewPostgresWorkoutRepo(db)
	progressRepo := repository.NewPostgresProgressLogRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 4. 推薦サービスの初期化
	ctx := context.Background()
	ssrfGuard := security.NewSSRFGuard()

	provider, err := newRecommendationProvider(ctx, cfg, ssrfGuard, slog.Default())
	if err != nil {
		return err
	}

	var cache recommendation.Cache
	if cfg.RedisURL != "" {
		redisClient, err := recommendation.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		if err := recommendation.PingRedis(ctx, redisClient); err != nil {
			// Redisに接続できない場合はキャッシュなしで起動する
			slog.Warn("recommendation cache disabled", slog.String("error", err.Error()))
		} else {
			cache = recommendation.NewRedisCache(redisClient)
			slog.Info("recommendation cache enabled")
		}
	}

	recommendationService := recommendation.NewService(provider, cache, collector, slog.Default(), recommendation.ServiceConfig{
		Timeout:  cfg.RecommendationTimeout,
		CacheTTL: cfg.RecommendationCacheTTL,
	})

	// 5. ドメインサービスの初期化
	renderer := content.NewRenderer(security.NewContentSanitizer())
	planService := plan.NewService(mealRepo, workoutRepo, renderer)
	progressService := progress.NewService(progressRepo, profileRepo, slog.Default())

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		Logger:         slog.Default(),
		HealthChecker:  db,
		MetricsHandler: metrics.Handler(registry),

		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter: rateLimiter,

		RecommendationService: recommendationService,
		MetricsCollector:      collector,

		PlanService:     handler.NewPlanServiceAdapter(planService),
		ProgressService: progressService,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	// 書き込みタイムアウトは推薦タイムアウトより長くとる
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RecommendationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// newRecommendationProvider は設定に応じた推薦プロバイダーを生成する。
// OpenRouterの場合はベースURLを起動時に検証し、SSRF防止付きクライアントで呼び出す。
func newRecommendationProvider(ctx context.Context, cfg *config.Config, guard security.SSRFGuardService, logger *slog.Logger) (recommendation.Provider, error) {
	switch cfg.RecommendationProvider {
	case config.ProviderGemini:
		client, err := recommendation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	case config.ProviderOpenRouter:
		if err := guard.ValidateEndpoint(cfg.OpenRouterBaseURL); err != nil {
			return nil, fmt.Errorf("invalid OPENROUTER_BASE_URL: %w", err)
		}
		httpClient := guard.NewSafeClient(cfg.RecommendationTimeout, maxRecommendationResponseSize)
		return recommendation.NewOpenRouterClient(httpClient, logger, recommendation.OpenRouterConfig{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.BaseURL,
			SiteName: siteName,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported recommendation provider: %q", cfg.RecommendationProvider)
	}
}

// rateLimiterConfig は設定値（req/min）からレート制限設定（req/sec）を組み立てる。
// 0以下の値はデフォルトを使う。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		rlCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		rlCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitCalculator > 0 {
		rlCfg.CalculatorRate = rate.Limit(float64(cfg.RateLimitCalculator) / 60.0)
		rlCfg.CalculatorBurst = cfg.RateLimitCalculator
	}
	return rlCfg
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、クリーンアップジョブを定期実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	// 2. クリーンアップジョブの初期化
	cleanupJob := cleanup.NewCleanupJob(db, slog.Default())
	cleanupJob.RetentionDays = cfg.ProgressRetentionDays

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("worker starting",
		slog.Duration("cleanup_interval", cfg.CleanupInterval),
		slog.Int("progress_retention_days", cfg.ProgressRetentionDays),
	)

	stopCleanup := cleanupJob.StartScheduler(ctx, cfg.CleanupInterval)

	<-ctx.Done()
	slog.Info("shutting down worker...")
	stopCleanup()

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
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

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
