// Package health は身体情報から健康指標（BMI/BMR/TDEE/目標カロリー）を導出する計算エンジンを提供する。
// すべての関数は純粋関数であり、状態もI/Oも持たないため、任意の数のgoroutineから同時に呼び出せる。
package health

import (
	"fmt"
	"strings"
)

// Gender は性別を表す。BMRの計算式の分岐にのみ使用する。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel は日常の活動レベルを表す。
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

// Goal は体重管理の目標を表す。
type Goal string

const (
	GoalMaintain Goal = "maintain"
	GoalLose     Goal = "lose"
	GoalGain     Goal = "gain"
)

// BMICategory はBMIの判定区分を表す。
type BMICategory string

const (
	CategoryUnderweight BMICategory = "Underweight"
	CategoryNormal      BMICategory = "Normal"
	CategoryOverweight  BMICategory = "Overweight"
	CategoryObese       BMICategory = "Obese"
)

// 入力値の許容範囲。フォームのスキーマ検証と同じ値を使う。
const (
	MinAge      = 1
	MaxAge      = 120
	MinHeightCm = 30.0
	MaxHeightCm = 300.0
	MinWeightKg = 10.0
	MaxWeightKg = 500.0
)

// BiometricInput は計算エンジンへの入力を表す。
// エンジン自身は範囲検証を行わないため、呼び出し側でValidateを通してから渡すこと。
type BiometricInput struct {
	Age           int
	Gender        Gender
	HeightCm      float64
	WeightKg      float64
	ActivityLevel ActivityLevel
	Goal          Goal
}

// DerivedMetrics は入力から導出された指標。永続化されず、呼び出しごとに再計算される。
type DerivedMetrics struct {
	BMI            float64
	BMICategory    BMICategory
	BMR            float64
	TDEE           float64
	TargetCalories float64
}

// FieldError は1フィールド分の検証エラー。
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError は入力検証で見つかったすべてのエラーをまとめて保持する。
type ValidationError struct {
	Fields []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "invalid biometric input: " + strings.Join(parts, "; ")
}

// Validate は入力値の範囲と列挙値を検証する。
// 問題がなければnilを返し、あれば失敗したフィールドをすべて含む*ValidationErrorを返す。
func (in BiometricInput) Validate() error {
	var fields []FieldError

	if in.Age < MinAge || in.Age > MaxAge {
		fields = append(fields, FieldError{"age", fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)})
	}
	if !in.Gender.Valid() {
		fields = append(fields, FieldError{"gender", "must be one of male, female"})
	}
	if !(in.HeightCm >= MinHeightCm && in.HeightCm <= MaxHeightCm) {
		fields = append(fields, FieldError{"height", fmt.Sprintf("must be between %g and %g cm", MinHeightCm, MaxHeightCm)})
	}
	if !(in.WeightKg >= MinWeightKg && in.WeightKg <= MaxWeightKg) {
		fields = append(fields, FieldError{"weight", fmt.Sprintf("must be between %g and %g kg", MinWeightKg, MaxWeightKg)})
	}
	if !in.ActivityLevel.Valid() {
		fields = append(fields, FieldError{"activityLevel", "must be one of sedentary, light, moderate, active, veryActive"})
	}
	if !in.Goal.Valid() {
		fields = append(fields, FieldError{"goal", "must be one of maintain, lose, gain"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Valid は列挙値に含まれるかを返す。
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Valid は列挙値に含まれるかを返す。
func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

// Valid は列挙値に含まれるかを返す。
func (g Goal) Valid() bool {
	switch g {
	case GoalMaintain, GoalLose, GoalGain:
		return true
	default:
		return false
	}
}

// ParseGender は文字列をGenderに変換する。
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown gender: %q", s)
	}
	return g, nil
}

// ParseActivityLevel は文字列をActivityLevelに変換する。
func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown activity level: %q", s)
	}
	return a, nil
}

// ParseGoal は文字列をGoalに変換する。
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown goal: %q", s)
	}
	return g, nil
}
