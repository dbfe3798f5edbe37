package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// PlanServiceInterface はプランハンドラーが必要とするサービスインターフェース。
type PlanServiceInterface interface {
	ListMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error)
	RefetchMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error)
	GetMealPlan(ctx context.Context, userID, id string) (*mealPlanDetailResponse, error)
	DeleteMealPlan(ctx context.Context, userID, id string) error

	ListWorkouts(ctx context.Context, userID string) ([]workoutResponse, error)
	RefetchWorkouts(ctx context.Context, userID string) ([]workoutResponse, error)
	GetWorkout(ctx context.Context, userID, id string) (*workoutDetailResponse, error)
	DeleteWorkout(ctx context.Context, userID, id string) error
}

// PlanHandler は食事プラン・ワークアウトのHTTPハンドラー。
type PlanHandler struct {
	service PlanServiceInterface
}

// NewPlanHandler はPlanHandlerを生成する。
func NewPlanHandler(service PlanServiceInterface) *PlanHandler {
	return &PlanHandler{service: service}
}

// mealPlanResponse は食事プラン一覧の要素。
type mealPlanResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Preview        string    `json:"preview"`
	CaloriesPerDay int       `json:"caloriesPerDay"`
	DietaryTags    []string  `json:"dietaryTags"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// mealPlanDetailResponse は食事プラン詳細。
type mealPlanDetailResponse struct {
	mealPlanResponse
	DescriptionHTML string          `json:"descriptionHtml"`
	Days            json.RawMessage `json:"days"`
}

// workoutResponse はワークアウト一覧の要素。
type workoutResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Preview         string    `json:"preview"`
	DurationWeeks   int       `json:"durationWeeks"`
	SessionsPerWeek int       `json:"sessionsPerWeek"`
	Difficulty      string    `json:"difficulty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// workoutDetailResponse はワークアウト詳細。
type workoutDetailResponse struct {
	workoutResponse
	DescriptionHTML string `json:"descriptionHtml"`
}

// ListMealPlans は食事プラン一覧を返す。
// GET /api/meal-plans
func (h *PlanHandler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	plans, err := h.service.ListMealPlans(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, plans)
}

// GetMealPlan は食事プランの詳細を返す。
// GET /api/meal-plans/{id}
func (h *PlanHandler) GetMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetMealPlan(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, plan)
}

// DeleteMealPlan は食事プランを削除し、再取得した一覧を返す。
// DELETE /api/meal-plans/{id}
func (h *PlanHandler) DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMealPlan(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	plans, err := h.service.RefetchMealPlans(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, plans)
}

// ListWorkouts はワークアウト一覧を返す。
// GET /api/workouts
func (h *PlanHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	workouts, err := h.service.ListWorkouts(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, workouts)
}

// GetWorkout はワークアウトの詳細を返す。
// GET /api/workouts/{id}
func (h *PlanHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	workout, err := h.service.GetWorkout(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, workout)
}

// DeleteWorkout はワークアウトを削除し、再取得した一覧を返す。
// DELETE /api/workouts/{id}
func (h *PlanHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkout(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	workouts, err := h.service.RefetchWorkouts(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, workouts)
}
