package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// exampleFormat はプロンプトに埋め込む応答例。
const exampleFormat = `{"title":"string","icon":"string","sections":[{"category":"string","items":["🍳 500kcal breakfast: 3 eggs (18g protein) + 100g oatmeal (60g carbs)","🏋️ 5x5 Squats: 70kg 5 sets of 5 reps (3min rest)"],"tips":["Increase protein by 0.5g/kg body weight weekly"]}]}`

// BuildPrompt はプロバイダーに送るユーザープロンプトを組み立てる。
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Generate detailed health recommendations with exact metrics based on:\n")
	fmt.Fprintf(&b, "- BMI: %.1f (%s)\n", req.BMI, req.Category)
	fmt.Fprintf(&b, "- Primary Goal: %s\n\n", req.Goal)
	b.WriteString("Include for each recommendation:\n")
	b.WriteString("🍽️ Nutrition: Exact calorie counts, macronutrient breakdown (protein/fat/carbs in grams), portion sizes\n")
	b.WriteString("🏋️ Exercise: Specific exercises with sets/reps/weights, duration, intensity (HR zones/RPE)\n")
	b.WriteString("📊 Targets: Weekly goals with measurable metrics (kg/lb/cm/inches)\n")
	b.WriteString("💡 Tips: Science-backed lifestyle modifications\n\n")
	b.WriteString("Example format:\n")
	b.WriteString(exampleFormat)
	b.WriteString("\nIMPORTANT:\n")
	b.WriteString("- Use metric units with imperial in parentheses\n")
	b.WriteString("- All numbers must be BMI/Goal-specific\n")
	b.WriteString("- Respond ONLY with valid JSON")
	return b.String()
}

// payload はプロバイダー応答のJSON構造。必須フィールドの欠落を検出するためポインタで受ける。
type payload struct {
	Title    *string          `json:"title"`
	Icon     string           `json:"icon"`
	Sections []payloadSection `json:"sections"`
}

type payloadSection struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
	Tips     []string `json:"tips"`
}

// ParseContent はモデルの応答テキストを推薦に変換する。
// ```json フェンスを除去してからJSONとして解釈する。tipsが無いセクションは空スライスで補完する。
func ParseContent(content string) (*Recommendation, error) {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var p payload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if p.Title == nil {
		return nil, fmt.Errorf("%w: title", ErrMalformed)
	}
	if p.Sections == nil {
		return nil, fmt.Errorf("%w: sections", ErrMalformed)
	}

	rec := &Recommendation{
		Title:    *p.Title,
		Icon:     p.Icon,
		Sections: make([]Section, len(p.Sections)),
	}
	for i, s := range p.Sections {
		items := s.Items
		if items == nil {
			items = []string{}
		}
		tips := s.Tips
		if tips == nil {
			tips = []string{}
		}
		rec.Sections[i] = Section{Category: s.Category, Items: items, Tips: tips}
	}
	return rec, nil
}
