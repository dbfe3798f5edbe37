// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, plan, progress, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidBiometrics = "INVALID_BIOMETRICS"
	ErrCodeMealPlanNotFound  = "MEAL_PLAN_NOT_FOUND"
	ErrCodeWorkoutNotFound   = "WORKOUT_NOT_FOUND"
	ErrCodeInvalidMetric     = "INVALID_METRIC"
	ErrCodeInvalidDateRange  = "INVALID_DATE_RANGE"
	ErrCodeInvalidLog        = "INVALID_PROGRESS_LOG"
	ErrCodeMissingHeight     = "MISSING_HEIGHT"
)

// NewInvalidBiometricsError は身体情報の入力エラーを生成する。
// fieldsには検証に失敗したフィールド名を渡す。
func NewInvalidBiometricsError(fields []string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidBiometrics,
		Message:  fmt.Sprintf("入力値が不正です: %s", strings.Join(fields, ", ")),
		Category: "validation",
		Action:   "年齢は1〜120、身長は30〜300cm、体重は10〜500kgの範囲で入力してください。",
	}
}

// NewMealPlanNotFoundError は食事プラン未検出エラーを生成する。
func NewMealPlanNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeMealPlanNotFound,
		Message:  fmt.Sprintf("指定された食事プランが見つかりません: %s", id),
		Category: "plan",
		Action:   "一覧を再読み込みしてください。",
	}
}

// NewWorkoutNotFoundError はワークアウトプログラム未検出エラーを生成する。
func NewWorkoutNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeWorkoutNotFound,
		Message:  fmt.Sprintf("指定されたワークアウトが見つかりません: %s", id),
		Category: "plan",
		Action:   "一覧を再読み込みしてください。",
	}
}

// NewInvalidMetricError は無効なグラフ指標エラーを生成する。
func NewInvalidMetricError(metric string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMetric,
		Message:  fmt.Sprintf("無効な指標です: %s", metric),
		Category: "validation",
		Action:   "指標には weight、bmi、bodyFat のいずれかを指定してください。",
	}
}

// NewInvalidDateRangeError は無効な期間指定エラーを生成する。
func NewInvalidDateRangeError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDateRange,
		Message:  fmt.Sprintf("無効な期間指定です: %s", reason),
		Category: "validation",
		Action:   "start と end は YYYY-MM-DD 形式で、start が end 以前になるよう指定してください。",
	}
}

// NewInvalidLogError は無効な進捗記録エラーを生成する。
func NewInvalidLogError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLog,
		Message:  fmt.Sprintf("無効な記録です: %s", reason),
		Category: "validation",
		Action:   "種別には WEIGHT または BODY_FAT を、値には正の数を指定してください。",
	}
}

// NewMissingHeightError はBMI推移の計算に必要な身長が未登録の場合のエラーを生成する。
func NewMissingHeightError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingHeight,
		Message:  "プロフィールに身長が登録されていないため、BMIの推移を計算できません。",
		Category: "progress",
		Action:   "プロフィールに身長を登録してください。",
	}
}
