package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/cybersculpt/internal/metrics"
	"github.com/hitoshi/cybersculpt/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// 公開エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// 健康指標計算
	RecommendationService RecommendationServiceInterface
	MetricsCollector      metrics.MetricsCollector

	// 食事プラン・ワークアウト
	PlanService PlanServiceInterface

	// 進捗
	ProgressService ProgressServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Logging → SecurityHeaders → CORS
//	  → (認証ルートのみ) Session → CSRF → RateLimit(General)
//
// /health と /metrics は認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	calcHandler := NewCalculatorHandler(deps.RecommendationService, deps.MetricsCollector)
	planHandler := NewPlanHandler(deps.PlanService)
	progressHandler := NewProgressHandler(deps.ProgressService)

	// --- 認証不要のルート ---
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig).ServeHTTP)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 推奨生成APIを呼ぶため専用のレート制限を追加
		r.With(deps.RateLimiter.CalculatorMiddleware()).Post("/api/health/calculate", calcHandler.Calculate)

		r.Route("/api/meal-plans", func(r chi.Router) {
			r.Get("/", planHandler.ListMealPlans)
			r.Get("/{id}", planHandler.GetMealPlan)
			r.Delete("/{id}", planHandler.DeleteMealPlan)
		})

		r.Route("/api/workouts", func(r chi.Router) {
			r.Get("/", planHandler.ListWorkouts)
			r.Get("/{id}", planHandler.GetWorkout)
			r.Delete("/{id}", planHandler.DeleteWorkout)
		})

		r.Route("/api/progress", func(r chi.Router) {
			r.Get("/", progressHandler.GetSeries)
			r.Post("/logs", progressHandler.AddLog)
			r.Get("/export", progressHandler.Export)
		})
	})

	return r
}
