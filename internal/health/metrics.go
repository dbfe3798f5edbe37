package health

import (
	"fmt"
	"math"
)

// 目標別のカロリー調整量（kcal/日）。
const (
	loseCalorieOffset = -500.0
	gainCalorieOffset = 500.0
)

// BMI判定の境界値。境界値ちょうどは上位の区分に含まれる。
const (
	underweightUpper = 18.5
	normalUpper      = 24.9
	overweightUpper  = 29.9
)

// activityMultipliers は活動レベルごとのTDEE係数。
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// ConfigurationError は係数表に存在しない値が渡されたことを表す。
// 検証済みの入力では発生しない。
type ConfigurationError struct {
	Field string
	Value string
}

// Error はerrorインターフェースを実装する。
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Field, e.Value)
}

// ComputeBMI は体重(kg)と身長(cm)からBMIを計算する。丸めは行わない。
// heightCm は正の値であること。0を渡すと+Infになる。
func ComputeBMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// ComputeBMR は改訂ハリス・ベネディクト式で基礎代謝量(kcal/日)を計算する。
func ComputeBMR(gender Gender, weightKg, heightCm float64, ageYears int) float64 {
	age := float64(ageYears)
	if gender == GenderMale {
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age
	}
	return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age
}

// ComputeTDEE は基礎代謝量に活動係数を掛けて総消費カロリーを計算する。
// 係数表にない活動レベルの場合は*ConfigurationErrorを返す。
func ComputeTDEE(bmr float64, level ActivityLevel) (float64, error) {
	multiplier, ok := activityMultipliers[level]
	if !ok {
		return 0, &ConfigurationError{Field: "activity level", Value: string(level)}
	}
	return bmr * multiplier, nil
}

// AdjustCaloriesForGoal は目標に応じて摂取カロリーを調整する。
// maintain（および未知の値）はTDEEをそのまま返す。
func AdjustCaloriesForGoal(tdee float64, goal Goal) float64 {
	switch goal {
	case GoalLose:
		return tdee + loseCalorieOffset
	case GoalGain:
		return tdee + gainCalorieOffset
	default:
		return tdee
	}
}

// CategorizeBMI はBMIを判定区分に分類する。
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < underweightUpper:
		return CategoryUnderweight
	case bmi < normalUpper:
		return CategoryNormal
	case bmi < overweightUpper:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// CmToFeetInches は身長(cm)をフィート・インチ表記に変換する。
// インチの丸めで12になった場合も繰り上げない（"5ft12in" になりうる）。
func CmToFeetInches(cm float64) string {
	totalInches := cm / 2.54
	feet := math.Floor(totalInches / 12)
	inches := math.Round(math.Mod(totalInches, 12))
	return fmt.Sprintf("%dft%din", int(feet), int(inches))
}

// CmToFeetInchesNormalized はCmToFeetInchesと同じ変換を行うが、12インチを1フィートに繰り上げる。
func CmToFeetInchesNormalized(cm float64) string {
	totalInches := cm / 2.54
	feet := int(math.Floor(totalInches / 12))
	inches := int(math.Round(math.Mod(totalInches, 12)))
	if inches == 12 {
		feet++
		inches = 0
	}
	return fmt.Sprintf("%dft%din", feet, inches)
}

// Derive は入力からBMI→区分→BMR→TDEE→目標カロリーを順に導出する。
// 範囲検証は行わない。
func Derive(in BiometricInput) (DerivedMetrics, error) {
	bmi := ComputeBMI(in.WeightKg, in.HeightCm)
	bmr := ComputeBMR(in.Gender, in.WeightKg, in.HeightCm, in.Age)
	tdee, err := ComputeTDEE(bmr, in.ActivityLevel)
	if err != nil {
		return DerivedMetrics{}, err
	}

	return DerivedMetrics{
		BMI:            bmi,
		BMICategory:    CategorizeBMI(bmi),
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: AdjustCaloriesForGoal(tdee, in.Goal),
	}, nil
}

// RoundBMI はBMIを表示用に小数第1位で丸める。
func RoundBMI(bmi float64) float64 {
	return math.Round(bmi*10) / 10
}

// RoundCalories はカロリーを表示用に整数へ丸める。
func RoundCalories(kcal float64) int {
	return int(math.Round(kcal))
}
