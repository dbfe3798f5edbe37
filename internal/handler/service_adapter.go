package handler

import (
	"context"

	"github.com/hitoshi/cybersculpt/internal/plan"
)

// PlanServiceAdapter は plan.Service を PlanServiceInterface に適合させるアダプタ。
type PlanServiceAdapter struct {
	svc *plan.Service
}

var _ PlanServiceInterface = (*PlanServiceAdapter)(nil)

// NewPlanServiceAdapter はPlanServiceAdapterを生成する。
func NewPlanServiceAdapter(svc *plan.Service) *PlanServiceAdapter {
	return &PlanServiceAdapter{svc: svc}
}

// ListMealPlans は食事プラン一覧をhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) ListMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error) {
	plans, err := a.svc.ListMealPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toMealPlanResponses(plans), nil
}

// RefetchMealPlans は食事プラン一覧を再取得してhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) RefetchMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error) {
	plans, err := a.svc.RefetchMealPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toMealPlanResponses(plans), nil
}

// GetMealPlan は食事プラン詳細をhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) GetMealPlan(ctx context.Context, userID, id string) (*mealPlanDetailResponse, error) {
	d, err := a.svc.GetMealPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &mealPlanDetailResponse{
		mealPlanResponse: toMealPlanResponse(d.MealPlanSummary),
		DescriptionHTML:  d.DescriptionHTML,
		Days:             d.Days,
	}, nil
}

// DeleteMealPlan は食事プランを削除する。
func (a *PlanServiceAdapter) DeleteMealPlan(ctx context.Context, userID, id string) error {
	return a.svc.DeleteMealPlan(ctx, userID, id)
}

// ListWorkouts はワークアウト一覧をhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) ListWorkouts(ctx context.Context, userID string) ([]workoutResponse, error) {
	workouts, err := a.svc.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toWorkoutResponses(workouts), nil
}

// RefetchWorkouts はワークアウト一覧を再取得してhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) RefetchWorkouts(ctx context.Context, userID string) ([]workoutResponse, error) {
	workouts, err := a.svc.RefetchWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toWorkoutResponses(workouts), nil
}

// GetWorkout はワークアウト詳細をhandlerレスポンス型で返す。
func (a *PlanServiceAdapter) GetWorkout(ctx context.Context, userID, id string) (*workoutDetailResponse, error) {
	d, err := a.svc.GetWorkout(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &workoutDetailResponse{
		workoutResponse: toWorkoutResponse(d.WorkoutSummary),
		DescriptionHTML: d.DescriptionHTML,
	}, nil
}

// DeleteWorkout はワークアウトを削除する。
func (a *PlanServiceAdapter) DeleteWorkout(ctx context.Context, userID, id string) error {
	return a.svc.DeleteWorkout(ctx, userID, id)
}

func toMealPlanResponses(plans []plan.MealPlanSummary) []mealPlanResponse {
	results := make([]mealPlanResponse, len(plans))
	for i, p := range plans {
		results[i] = toMealPlanResponse(p)
	}
	return results
}

// toMealPlanResponse はドメインのMealPlanSummaryをhandlerのレスポンス型に変換する。
func toMealPlanResponse(p plan.MealPlanSummary) mealPlanResponse {
	return mealPlanResponse{
		ID:             p.ID,
		Title:          p.Title,
		Preview:        p.Preview,
		CaloriesPerDay: p.CaloriesPerDay,
		DietaryTags:    p.DietaryTags,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toWorkoutResponses(workouts []plan.WorkoutSummary) []workoutResponse {
	results := make([]workoutResponse, len(workouts))
	for i, w := range workouts {
		results[i] = toWorkoutResponse(w)
	}
	return results
}

// toWorkoutResponse はドメインのWorkoutSummaryをhandlerのレスポンス型に変換する。
func toWorkoutResponse(w plan.WorkoutSummary) workoutResponse {
	return workoutResponse{
		ID:              w.ID,
		Title:           w.Title,
		Preview:         w.Preview,
		DurationWeeks:   w.DurationWeeks,
		SessionsPerWeek: w.SessionsPerWeek,
		Difficulty:      w.Difficulty,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
