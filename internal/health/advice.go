package health

// GeneralAdvice は判定区分と目標から定型のアドバイス文を返す。
// 外部の推薦サービスに依存しない簡易版。
func GeneralAdvice(category BMICategory, goal Goal) []string {
	var advice []string

	switch category {
	case CategoryObese, CategoryOverweight:
		advice = append(advice,
			"Aim to lose 0.5-1 kg per week through a combination of diet and exercise",
			"150-300 minutes of moderate-intensity exercise per week",
		)
	case CategoryUnderweight:
		advice = append(advice, "Focus on gradual weight gain through calorie surplus and strength training")
	default:
		advice = append(advice, "Maintain current weight with balanced diet and regular exercise")
	}

	switch goal {
	case GoalLose:
		advice = append(advice, "Strength training 2-3 times per week combined with cardio 3-5 times per week")
	case GoalGain:
		advice = append(advice, "Resistance training 4-5 times per week with adequate protein intake")
	}

	advice = append(advice,
		"Get 7-9 hours of quality sleep each night",
		"Stay hydrated - drink at least 2-3 liters of water daily",
	)
	return advice
}
