// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 推薦サービスや計算ハンドラーから利用する。
type MetricsCollector interface {
	RecordRecommendationSuccess(provider string)
	RecordRecommendationFailure(provider string, reason string)
	RecordRecommendationFallback()
	RecordRecommendationLatency(provider string, duration time.Duration)
	RecordCacheHit()
	RecordCacheMiss()
	RecordCalculation(category string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	recSuccess  *prometheus.CounterVec
	recFail     *prometheus.CounterVec
	recFallback prometheus.Counter
	recLatency  *prometheus.HistogramVec
	cacheHit    prometheus.Counter
	cacheMiss   prometheus.Counter
	calculation *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		recSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersculpt_recommendation_success_total",
			Help: "推薦プロバイダー呼び出し成功の合計数",
		}, []string{"provider"}),
		recFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersculpt_recommendation_fail_total",
			Help: "推薦プロバイダー呼び出し失敗の合計数",
		}, []string{"provider", "reason"}),
		recFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cybersculpt_recommendation_fallback_total",
			Help: "静的フォールバック推薦を返した回数",
		}),
		recLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cybersculpt_recommendation_latency_seconds",
			Help:    "推薦プロバイダー呼び出しのレイテンシ（秒）",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"provider"}),
		cacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cybersculpt_recommendation_cache_hit_total",
			Help: "推薦キャッシュのヒット数",
		}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cybersculpt_recommendation_cache_miss_total",
			Help: "推薦キャッシュのミス数",
		}),
		calculation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersculpt_calculations_total",
			Help: "BMI判定区分別の健康指標計算数",
		}, []string{"bmi_category"}),
	}

	reg.MustRegister(
		c.recSuccess,
		c.recFail,
		c.recFallback,
		c.recLatency,
		c.cacheHit,
		c.cacheMiss,
		c.calculation,
	)

	return c
}

// RecordRecommendationSuccess は推薦取得成功を記録する。
func (c *Collector) RecordRecommendationSuccess(provider string) {
	c.recSuccess.WithLabelValues(provider).Inc()
}

// RecordRecommendationFailure は推薦取得失敗を理由別に記録する。
func (c *Collector) RecordRecommendationFailure(provider string, reason string) {
	c.recFail.WithLabelValues(provider, reason).Inc()
}

// RecordRecommendationFallback はフォールバック応答を記録する。
func (c *Collector) RecordRecommendationFallback() {
	c.recFallback.Inc()
}

// RecordRecommendationLatency はプロバイダー呼び出しのレイテンシを記録する。
func (c *Collector) RecordRecommendationLatency(provider string, duration time.Duration) {
	c.recLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordCacheHit はキャッシュヒットを記録する。
func (c *Collector) RecordCacheHit() {
	c.cacheHit.Inc()
}

// RecordCacheMiss はキャッシュミスを記録する。
func (c *Collector) RecordCacheMiss() {
	c.cacheMiss.Inc()
}

// RecordCalculation は健康指標の計算をBMI判定区分別に記録する。
func (c *Collector) RecordCalculation(category string) {
	c.calculation.WithLabelValues(category).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopCollector は何も記録しないMetricsCollector。テストやメトリクス無効時に使う。
type NopCollector struct{}

func (NopCollector) RecordRecommendationSuccess(string) {}
func (NopCollector) RecordRecommendationFailure(string, string) {}
func (NopCollector) RecordRecommendationFallback() {}
func (NopCollector) RecordRecommendationLatency(string, time.Duration) {}
func (NopCollector) RecordCacheHit() {}
func (NopCollector) RecordCacheMiss() {}
func (NopCollector) RecordCalculation(string) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
