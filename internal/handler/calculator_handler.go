package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/cybersculpt/internal/health"
	"github.com/hitoshi/cybersculpt/internal/metrics"
	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/recommendation"
)

// maxRequestBodyBytes はJSONリクエストボディの上限。
const maxRequestBodyBytes = 1 << 16

// RecommendationServiceInterface は計算ハンドラーが必要とする推薦サービスのインターフェース。
// 失敗時もフォールバック推薦を含むResultを返し、エラーにはしない。
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req recommendation.Request) recommendation.Result
}

// CalculatorHandler は健康指標計算のHTTPハンドラー。
type CalculatorHandler struct {
	recommender RecommendationServiceInterface
	collector   metrics.MetricsCollector
}

// NewCalculatorHandler はCalculatorHandlerを生成する。
func NewCalculatorHandler(recommender RecommendationServiceInterface, collector metrics.MetricsCollector) *CalculatorHandler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &CalculatorHandler{
		recommender: recommender,
		collector:   collector,
	}
}

// calculateRequest は計算リクエストのボディ。
// 数値が省略された場合はゼロ値となり、範囲検証で弾かれる。
type calculateRequest struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
}

// calculateResponse は計算結果のAPIレスポンス。
type calculateResponse struct {
	BMI            float64                        `json:"bmi"`
	BMICategory    health.BMICategory             `json:"bmiCategory"`
	BMR            int                            `json:"bmr"`
	TDEE           int                            `json:"tdee"`
	Calories       int                            `json:"calories"`
	HeightDisplay  string                         `json:"heightDisplay"`
	Advice         []string                       `json:"advice"`
	Recommendation *recommendation.Recommendation `json:"recommendation"`
	Fallback       bool                           `json:"fallback"`
}

// Calculate は身体情報から健康指標を計算し、推薦を添えて返す。
// POST /api/health/calculate
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	in := health.BiometricInput{
		Age:           req.Age,
		Gender:        health.Gender(req.Gender),
		HeightCm:      req.Height,
		WeightKg:      req.Weight,
		ActivityLevel: health.ActivityLevel(req.ActivityLevel),
		Goal:          health.Goal(req.Goal),
	}

	if err := in.Validate(); err != nil {
		var verr *health.ValidationError
		if errors.As(err, &verr) {
			fields := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				fields[i] = f.Field
			}
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidBiometricsError(fields))
			return
		}
		handleServiceError(w, err)
		return
	}

	// 検証済みの入力ではConfigurationErrorは起きないが、係数表の不整合は500として扱う
	derived, err := health.Derive(in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.collector.RecordCalculation(string(derived.BMICategory))

	result := h.recommender.Recommend(r.Context(), recommendation.Request{
		BMI:      derived.BMI,
		Goal:     in.Goal,
		Category: derived.BMICategory,
	})
	if result.Fallback {
		slog.Info("served fallback recommendation",
			slog.String("user_id", userID),
			slog.String("bmi_category", string(derived.BMICategory)),
		)
	}

	writeJSON(w, calculateResponse{
		BMI:            health.RoundBMI(derived.BMI),
		BMICategory:    derived.BMICategory,
		BMR:            health.RoundCalories(derived.BMR),
		TDEE:           health.RoundCalories(derived.TDEE),
		Calories:       health.RoundCalories(derived.TargetCalories),
		HeightDisplay:  health.CmToFeetInches(in.HeightCm),
		Advice:         health.GeneralAdvice(derived.BMICategory, in.Goal),
		Recommendation: result.Recommendation,
		Fallback:       result.Fallback,
	})
}
