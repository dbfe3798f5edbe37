// Package progress は体重・体脂肪率の記録からグラフ用の時系列データを構築する。
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hitoshi/cybersculpt/internal/health"
	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/repository"
)

// Metric はグラフの指標。
type Metric string

const (
	MetricWeight  Metric = "weight"
	MetricBMI     Metric = "bmi"
	MetricBodyFat Metric = "bodyFat"
)

// dayLayout はデータ点のキーとなる暦日の書式（UTC）。
const dayLayout = "2006-01-02"

// ParseMetric は文字列を指標に変換する。
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricWeight, MetricBMI, MetricBodyFat:
		return m, nil
	}
	return "", model.NewInvalidMetricError(s)
}

// Unit は指標の表示単位を返す。BMIは単位なし。
func (m Metric) Unit() string {
	switch m {
	case MetricWeight:
		return "kg"
	case MetricBodyFat:
		return "%"
	}
	return ""
}

// DateRange は暦日単位の期間。StartとEndの両日を含む。
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange はYYYY-MM-DD形式の開始日・終了日を解析する。
// 両方とも空の場合は期間指定なしとしてnilを返す。
func ParseDateRange(start, end string) (*DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, model.NewInvalidDateRangeError("start と end は両方指定してください")
	}

	s, err := time.Parse(dayLayout, start)
	if err != nil {
		return nil, model.NewInvalidDateRangeError(fmt.Sprintf("start=%q", start))
	}
	e, err := time.Parse(dayLayout, end)
	if err != nil {
		return nil, model.NewInvalidDateRangeError(fmt.Sprintf("end=%q", end))
	}
	if s.After(e) {
		return nil, model.NewInvalidDateRangeError("start が end より後です")
	}
	return &DateRange{Start: s, End: e}, nil
}

// bounds はリポジトリに渡す時刻範囲を返す。終了日は23:59:59.999999999まで含む。
func (r *DateRange) bounds() (time.Time, time.Time) {
	if r == nil {
		return time.Time{}, time.Time{}
	}
	from := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC).
		Add(24*time.Hour - time.Nanosecond)
	return from, to
}

// Point はグラフの1データ点。
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Series はグラフ描画用の時系列データ。
// First/Last/Changeはデータ点がない場合nil。
type Series struct {
	Metric Metric   `json:"metric"`
	Unit   string   `json:"unit"`
	Points []Point  `json:"points"`
	First  *float64 `json:"first"`
	Last   *float64 `json:"last"`
	Change *float64 `json:"change"`
}

// Service は進捗記録のサービス層。
type Service struct {
	logRepo     repository.ProgressLogRepository
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	logRepo repository.ProgressLogRepository,
	profileRepo repository.ProfileRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logRepo:     logRepo,
		profileRepo: profileRepo,
		logger:      logger,
		now:         time.Now,
		newID:       newUUID,
	}
}

// Series は指標の時系列データを構築する。
//
// 記録は暦日（UTC）ごとにまとめ、同じ日に複数ある場合は最も早い記録を使う。
// 値が0以下の記録は欠損として除外する。
// bmiは体重記録とプロフィールの身長から算出し、身長が未登録の場合は
// 空の系列とMISSING_HEIGHTエラーを返す。
func (s *Service) Series(ctx context.Context, userID string, metric Metric, rng *DateRange) (*Series, error) {
	series := &Series{Metric: metric, Unit: metric.Unit(), Points: []Point{}}

	var logType model.LogType
	switch metric {
	case MetricWeight, MetricBMI:
		logType = model.LogTypeWeight
	case MetricBodyFat:
		logType = model.LogTypeBodyFat
	default:
		return nil, model.NewInvalidMetricError(string(metric))
	}

	var heightCm float64
	if metric == MetricBMI {
		profile, err := s.profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
		}
		if profile == nil || profile.HeightCm == nil || *profile.HeightCm <= 0 {
			s.logger.WarnContext(ctx, "cannot compute BMI series: missing or invalid height",
				slog.String("user_id", userID),
			)
			return series, model.NewMissingHeightError()
		}
		heightCm = *profile.HeightCm
	}

	from, to := rng.bounds()
	logs, err := s.logRepo.ListByUserAndType(ctx, userID, logType, from, to)
	if err != nil {
		return nil, fmt.Errorf("進捗記録の取得に失敗しました: %w", err)
	}

	seen := make(map[string]bool, len(logs))
	for _, l := range logs {
		if !(l.Value > 0) || math.IsInf(l.Value, 0) {
			continue
		}
		day := l.LoggedAt.UTC().Format(dayLayout)
		if seen[day] {
			continue
		}
		seen[day] = true

		v := l.Value
		if metric == MetricBMI {
			v = health.ComputeBMI(l.Value, heightCm)
		}
		series.Points = append(series.Points, Point{Date: day, Value: v})
	}

	if n := len(series.Points); n > 0 {
		first := series.Points[0].Value
		last := series.Points[n-1].Value
		change := last - first
		series.First = &first
		series.Last = &last
		series.Change = &change
	}

	return series, nil
}
