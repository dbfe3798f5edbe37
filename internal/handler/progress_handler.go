package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/progress"
)

// xlsxContentType はXLSXブックのMIMEタイプ。
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProgressServiceInterface は進捗ハンドラーが必要とするサービスインターフェース。
type ProgressServiceInterface interface {
	Series(ctx context.Context, userID string, metric progress.Metric, rng *progress.DateRange) (*progress.Series, error)
	AddLog(ctx context.Context, userID string, in progress.AddLogInput) (*model.ProgressLog, error)
	Export(ctx context.Context, userID string, w io.Writer) error
}

var _ ProgressServiceInterface = (*progress.Service)(nil)

// ProgressHandler は進捗グラフ・記録のHTTPハンドラー。
type ProgressHandler struct {
	service ProgressServiceInterface
	now     func() time.Time
}

// NewProgressHandler はProgressHandlerを生成する。
func NewProgressHandler(service ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{service: service, now: time.Now}
}

// addLogRequest は進捗記録追加リクエストのボディ。
type addLogRequest struct {
	Type     string     `json:"type"`
	Value    float64    `json:"value"`
	LoggedAt *time.Time `json:"loggedAt,omitempty"`
}

// progressLogResponse は進捗記録のAPIレスポンス。
type progressLogResponse struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Value    float64   `json:"value"`
	LoggedAt time.Time `json:"loggedAt"`
}

// GetSeries はグラフ用の時系列データを返す。
// GET /api/progress?metric=weight&start=2026-01-01&end=2026-01-31
func (h *ProgressHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	metricParam := q.Get("metric")
	if metricParam == "" {
		metricParam = string(progress.MetricWeight)
	}
	metric, err := progress.ParseMetric(metricParam)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	rng, err := progress.ParseDateRange(q.Get("start"), q.Get("end"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	series, err := h.service.Series(r.Context(), userID, metric, rng)
	if err != nil {
		var apiErr *model.APIError
		if series != nil && errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeMissingHeight {
			// グラフ側が空表示できるよう、エラーと一緒に空の系列を返す
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(missingHeightResponse{
				apiErrorResponse: apiErrorResponse{
					Code:     apiErr.Code,
					Message:  apiErr.Message,
					Category: apiErr.Category,
					Action:   apiErr.Action,
				},
				Series: series,
			})
			return
		}
		handleServiceError(w, err)
		return
	}
	writeJSON(w, series)
}

// missingHeightResponse は身長未登録時のエラーレスポンス。統一エラーフォーマットに空の系列を添える。
type missingHeightResponse struct {
	apiErrorResponse
	Series *progress.Series `json:"series"`
}

// AddLog は体重または体脂肪率の記録を追加する。
// POST /api/progress/logs
func (h *ProgressHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req addLogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	log, err := h.service.AddLog(r.Context(), userID, progress.AddLogInput{
		Type:     req.Type,
		Value:    req.Value,
		LoggedAt: req.LoggedAt,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(progressLogResponse{
		ID:       log.ID,
		Type:     string(log.Type),
		Value:    log.Value,
		LoggedAt: log.LoggedAt,
	})
}

// Export は全進捗記録をXLSXでダウンロードさせる。
// GET /api/progress/export
func (h *ProgressHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	// 書き出し途中のエラーでヘッダー送信済みにならないよう、一度メモリに書く
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), userID, &buf); err != nil {
		handleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("progress-%s.xlsx", h.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
