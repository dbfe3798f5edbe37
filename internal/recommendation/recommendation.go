// Package recommendation は外部の推薦プロバイダー（LLM）から健康アドバイスを取得する。
// プロバイダー呼び出しが失敗しても呼び出し元にはエラーを返さず、
// 静的なフォールバック推薦に差し替えて返す。
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/cybersculpt/internal/health"
	"github.com/hitoshi/cybersculpt/internal/metrics"
)

// Section は推薦の1セクション（カテゴリ・項目・補足Tips）。
type Section struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Tips     []string `json:"tips"`
}

// Recommendation は推薦全体を表す。
type Recommendation struct {
	Title    string    `json:"title"`
	Icon     string    `json:"icon"`
	Sections []Section `json:"sections"`
}

// Request は推薦プロバイダーへの入力。
type Request struct {
	BMI      float64
	Goal     health.Goal
	Category health.BMICategory
}

// Provider は推薦を生成する外部サービスのインターフェース。
type Provider interface {
	// Name はメトリクスとログで使うプロバイダー名を返す。
	Name() string
	Recommend(ctx context.Context, req Request) (*Recommendation, error)
}

// Result は推薦取得の結果。
// Fallbackがtrueの場合、Recommendationは静的フォールバックであり、Errに失敗理由が入る。
type Result struct {
	Recommendation *Recommendation
	Fallback       bool
	Err            error
}

// プロバイダー失敗の分類。
var (
	ErrUpstreamStatus = errors.New("recommendation provider returned non-success status")
	ErrInvalidPayload = errors.New("recommendation payload is not valid JSON")
	ErrMalformed      = errors.New("recommendation payload is missing required fields")
)

// デフォルト値。
const (
	DefaultTimeout  = 30 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

// ServiceConfig はServiceの動作設定。
type ServiceConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Service はプロバイダー呼び出しにタイムアウト・キャッシュ・フォールバックを組み合わせる。
type Service struct {
	provider Provider
	cache    Cache
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
	timeout  time.Duration
	cacheTTL time.Duration
}

// NewService はServiceの新しいインスタンスを生成する。
// cacheがnilの場合はキャッシュを使用しない。
func NewService(provider Provider, cache Cache, collector metrics.MetricsCollector, logger *slog.Logger, cfg ServiceConfig) *Service {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return &Service{
		provider: provider,
		cache:    cache,
		metrics:  collector,
		logger:   logger,
		timeout:  cfg.Timeout,
		cacheTTL: cfg.CacheTTL,
	}
}

// Recommend は推薦を取得する。
// 失敗時はフォールバック推薦を返すため、戻り値のRecommendationは常にnon-nil。
func (s *Service) Recommend(ctx context.Context, req Request) Result {
	key := CacheKey(req)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("推薦キャッシュの読み取りに失敗しました",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		case cached != nil:
			s.metrics.RecordCacheHit()
			return Result{Recommendation: cached}
		default:
			s.metrics.RecordCacheMiss()
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name := s.provider.Name()
	start := time.Now()
	rec, err := s.provider.Recommend(callCtx, req)
	s.metrics.RecordRecommendationLatency(name, time.Since(start))
	if err == nil && rec == nil {
		err = ErrMalformed
	}

	if err != nil {
		reason := failureReason(err)
		s.logger.Error("推薦の取得に失敗したためフォールバックを返します",
			slog.String("provider", name),
			slog.String("reason", reason),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordRecommendationFailure(name, reason)
		s.metrics.RecordRecommendationFallback()
		return Result{
			Recommendation: Fallback(req.Category, req.Goal),
			Fallback:       true,
			Err:            err,
		}
	}

	s.metrics.RecordRecommendationSuccess(name)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rec, s.cacheTTL); err != nil {
			s.logger.Warn("推薦キャッシュの書き込みに失敗しました",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	return Result{Recommendation: rec}
}

// CacheKey は推薦キャッシュのキーを生成する。BMIは小数第1位に丸める。
func CacheKey(req Request) string {
	return fmt.Sprintf("recommendation:%s:%s:%.1f", req.Goal, req.Category, health.RoundBMI(req.BMI))
}

// failureReason はエラーをメトリクス用の理由ラベルに分類する。
func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrInvalidPayload):
		return "parse"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
