package recommendation

import "github.com/hitoshi/cybersculpt/internal/health"

type categoryAdvice struct {
	nutrition []string
	exercise  []string
	lifestyle []string
}

type goalAdvice struct {
	category string
	items    []string
	tips     []string
}

// categoryTable はBMI判定区分ごとの静的アドバイス。
var categoryTable = map[health.BMICategory]categoryAdvice{
	health.CategoryUnderweight: {
		nutrition: []string{
			"🍳 Breakfast: 3-egg omelette (450 kcal) with 1/2 avocado + 50g oatmeal (Total: 650 kcal, 35g protein)",
			"🥪 Lunch: Grilled chicken wrap (200g chicken, whole wheat) with hummus & veggies (800 kcal, 55g protein)",
			"🍲 Dinner: 200g salmon with 100g quinoa & 150g roasted sweet potatoes (900 kcal, 60g protein)",
			"🥛 Snacks: 200g Greek yogurt (120 kcal) + 100g berries, 50g trail mix (300 kcal), protein shake (30g whey)",
		},
		exercise: []string{
			"🏋️ Strength Training: 4x/week (5x5 compound lifts, 70-80% 1RM)",
			"🤸 Mobility: Daily 15-min dynamic stretching + foam rolling",
			"🚴 Cardio: Moderate cycling (12-15 mph) 2x/week (30 mins)",
		},
		lifestyle: []string{
			"Track calorie intake using MyFitnessPal",
			"Add healthy fats (nuts, olive oil, avocado)",
			"Consider mass gainer shakes if struggling to eat enough",
		},
	},
	health.CategoryNormal: {
		nutrition: []string{
			"🥑 Balanced meals: 40% carbs (150-200g), 30% protein (120-150g), 30% fats (60-80g)",
			"🐟 Omega-3: 200g salmon 3x/week (1.5g EPA/DHA) + 30g chia seeds daily",
			"🌿 Fiber: 50g broccoli (5g fiber), 150g berries (8g fiber), 100g lentils (13g fiber)",
		},
		exercise: []string{
			"🏃 Cardio: 150 mins/week zone 2 training (60-70% max HR)",
			"💪 Strength: 3x full-body workouts (8-12 reps, 3 sets)",
			"🧘 Recovery: 2x yoga sessions + daily 10-min mobility drills",
		},
		lifestyle: []string{
			"Maintain consistent sleep schedule",
			"Try new physical activities monthly",
			"Practice mindful eating techniques",
		},
	},
	health.CategoryOverweight: {
		nutrition: []string{
			"🥦 Volume eating: 500g veggies/day (broccoli, spinach, peppers)",
			"🍗 Protein: 1.6g/kg (e.g., 120g for 75kg) from chicken breast, tofu, fish",
			"🚫 Limit: <25g added sugar, <50g refined carbs daily",
			"🍵 Metabolism: 3 cups green tea + 1g cayenne pepper daily",
		},
		exercise: []string{
			"🔥 HIIT: 3x/week (30s sprint/90s rest x 10 rounds)",
			"🚶 LISS: Daily 45-min walk (3.5 mph, 150-170 bpm)",
			"🏋️ Resistance: 3x circuit training (12 stations, 30s work/15s rest)",
		},
		lifestyle: []string{
			"Use smaller plates for portion control",
			"Practice 16:8 intermittent fasting",
			"Stay accountable with weekly weigh-ins",
		},
	},
	health.CategoryObese: {
		nutrition: []string{
			"🍽️ Plate method: 50% veggies (300g), 25% protein (100-120g), 25% carbs (75-100g)",
			"🥤 Hydration: 500ml water 30 mins before each meal",
			"🍎 Smart swaps: 200g zoodles (30 kcal) vs pasta (400 kcal)",
			"⏲️ Mindful eating: 20 chews/bite, 20-min meals",
		},
		exercise: []string{
			"🏊 Low-Impact: Water aerobics 3x/week (40 mins, 120-140 bpm)",
			"🪑 Chair exercises: 15-min AM/PM routines (leg lifts, seated marches)",
			"🚶 Gradual walking: 10-min sessions 3x/day (2.5 mph)",
		},
		lifestyle: []string{
			"Food journaling for awareness",
			"Stress management techniques",
			"Sleep quality improvement plan",
		},
	},
}

// goalTable は目標ごとの静的アドバイス。
var goalTable = map[health.Goal]goalAdvice{
	health.GoalLose: {
		category: "🔥 Weight Loss Focus",
		items: []string{
			"🏃♀️ Cardio: 2x weekly sprints (8x30s all-out w/ 2min rests)",
			"🍴 Meal Timing: 40% calories at breakfast, 30% lunch, 30% dinner",
			"🛑 Cravings: 2 pieces sugar-free gum + 500ml water when hungry",
			"📉 Deficit: 500kcal/day (3500kcal/week = 1lb loss)",
		},
		tips: []string{
			"Weekly progress: Front/side photos + waist measurement",
			"Track non-scale wins: Energy levels, sleep quality, clothing fit",
			"16:8 fasting: Eat between 10am-6pm daily",
		},
	},
	health.GoalGain: {
		category: "💪 Muscle Gain Focus",
		items: []string{
			"🏋️ Progressive Overload: +5% weight weekly (e.g., 100kg → 105kg squat)",
			"⏱️ Rest: 90s between sets for hypertrophy (8-12 rep range)",
			"🍌 Post-Workout: 75g carbs + 25g protein within 30 mins",
			"💤 Recovery: 8hr sleep + 20-min naps",
		},
		tips: []string{
			"Weekly checks: Goal +0.5-1lb, adjust calories by 200 if not progressing",
			"Mass gainer: 1000kcal shake (oats, peanut butter, whey, banana)",
			"Prioritize: Squat, deadlift, bench press, pull-ups",
		},
	},
	health.GoalMaintain: {
		category: "⚖️ Maintenance Focus",
		items: []string{
			"🔄 Training: Rotate modalities every 4-6 weeks (e.g., swimming → cycling)",
			"🍽️ Diet: ±200kcal cycling (workout vs rest days)",
			"📊 Monitoring: Weekly weigh-ins ±1kg threshold",
			"🎯 Goals: Skill targets (e.g., 10 pull-ups, 5k run time)",
		},
		tips: []string{
			"Quarterly DEXA scans for body composition",
			"Macro cycling: 40/30/30 (training) vs 30/30/40 (rest) carb/pro/fat",
			"Active recovery: 1 week every 8 weeks at 50% volume",
		},
	},
}

const (
	fallbackTitle   = "AI Recommendations Unavailable"
	fallbackIcon    = "⚠️"
	fallbackMessage = "Failed to fetch recommendations. Using default suggestions..."
)

// Fallback は静的テーブルから組み立てたフォールバック推薦を返す。
// エラーセクション、BMI判定区分セクション、目標セクションの3つで構成される。
// 呼び出しごとに新しいスライスを生成するため、戻り値を変更してもテーブルには影響しない。
func Fallback(category health.BMICategory, goal health.Goal) *Recommendation {
	return &Recommendation{
		Title: fallbackTitle,
		Icon:  fallbackIcon,
		Sections: []Section{
			{Category: "Error", Items: []string{fallbackMessage}, Tips: []string{}},
			categorySection(category),
			goalSection(goal),
		},
	}
}

func categorySection(category health.BMICategory) Section {
	advice := categoryTable[category]
	items := make([]string, 0, len(advice.nutrition)+len(advice.exercise))
	items = append(items, advice.nutrition...)
	items = append(items, advice.exercise...)
	return Section{
		Category: "📈 " + string(category) + " Management",
		Items:    items,
		Tips:     append([]string{}, advice.lifestyle...),
	}
}

func goalSection(goal health.Goal) Section {
	advice, ok := goalTable[goal]
	if !ok {
		advice = goalTable[health.GoalMaintain]
	}
	return Section{
		Category: "🎯 " + advice.category,
		Items:    append([]string{}, advice.items...),
		Tips:     append([]string{}, advice.tips...),
	}
}
