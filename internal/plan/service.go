// Package plan は保存済みの食事プランとワークアウトプログラムの参照・削除を提供する。
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cybersculpt/internal/content"
	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/repository"
)

// MealPlanSummary は一覧表示用の食事プラン。
type MealPlanSummary struct {
	ID             string
	Title          string
	Preview        string
	CaloriesPerDay int
	DietaryTags    []string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MealPlanDetail は詳細表示用の食事プラン。
// DescriptionHTMLはサニタイズ済み。
type MealPlanDetail struct {
	MealPlanSummary
	DescriptionHTML string
	Days            json.RawMessage
}

// WorkoutSummary は一覧表示用のワークアウトプログラム。
type WorkoutSummary struct {
	ID              string
	Title           string
	Preview         string
	DurationWeeks   int
	SessionsPerWeek int
	Difficulty      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkoutDetail は詳細表示用のワークアウトプログラム。
type WorkoutDetail struct {
	WorkoutSummary
	DescriptionHTML string
}

// Renderer はマークダウン本文をHTMLに変換する。
type Renderer interface {
	Render(description *string) (string, error)
}

var _ Renderer = (*content.Renderer)(nil)

// Service はプラン管理のサービス層。
type Service struct {
	mealRepo    repository.MealPlanRepository
	workoutRepo repository.WorkoutRepository
	renderer    Renderer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	mealRepo repository.MealPlanRepository,
	workoutRepo repository.WorkoutRepository,
	renderer Renderer,
) *Service {
	return &Service{
		mealRepo:    mealRepo,
		workoutRepo: workoutRepo,
		renderer:    renderer,
	}
}

// ListMealPlans はユーザーの食事プランを作成日時の降順で返す。
func (s *Service) ListMealPlans(ctx context.Context, userID string) ([]MealPlanSummary, error) {
	plans, err := s.mealRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("食事プラン一覧の取得に失敗しました: %w", err)
	}

	results := make([]MealPlanSummary, len(plans))
	for i, p := range plans {
		results[i] = toMealPlanSummary(p)
	}
	return results, nil
}

// RefetchMealPlans は食事プラン一覧を再取得する。
// 削除後の一覧更新に使われ、結果はListMealPlansと同一。
func (s *Service) RefetchMealPlans(ctx context.Context, userID string) ([]MealPlanSummary, error) {
	return s.ListMealPlans(ctx, userID)
}

// GetMealPlan は食事プランの詳細を返す。
// 存在しないIDと他ユーザーのIDは区別せず未検出エラーとする。
func (s *Service) GetMealPlan(ctx context.Context, userID, id string) (*MealPlanDetail, error) {
	if !validID(id) {
		return nil, model.NewMealPlanNotFoundError(id)
	}
	p, err := s.mealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("食事プランの取得に失敗しました: %w", err)
	}
	if p == nil || p.UserID != userID {
		return nil, model.NewMealPlanNotFoundError(id)
	}

	html, err := s.renderer.Render(p.Description)
	if err != nil {
		return nil, fmt.Errorf("食事プラン本文の変換に失敗しました: %w", err)
	}

	return &MealPlanDetail{
		MealPlanSummary: toMealPlanSummary(p),
		DescriptionHTML: html,
		Days:            p.Days,
	}, nil
}

// DeleteMealPlan はユーザーが所有する食事プランを削除する。
func (s *Service) DeleteMealPlan(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return model.NewMealPlanNotFoundError(id)
	}
	deleted, err := s.mealRepo.DeleteByUserAndID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("食事プランの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewMealPlanNotFoundError(id)
	}
	return nil
}

// ListWorkouts はユーザーのワークアウトを作成日時の降順で返す。
func (s *Service) ListWorkouts(ctx context.Context, userID string) ([]WorkoutSummary, error) {
	programs, err := s.workoutRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ワークアウト一覧の取得に失敗しました: %w", err)
	}

	results := make([]WorkoutSummary, len(programs))
	for i, w := range programs {
		results[i] = toWorkoutSummary(w)
	}
	return results, nil
}

// RefetchWorkouts はワークアウト一覧を再取得する。
func (s *Service) RefetchWorkouts(ctx context.Context, userID string) ([]WorkoutSummary, error) {
	return s.ListWorkouts(ctx, userID)
}

// GetWorkout はワークアウトの詳細を返す。
func (s *Service) GetWorkout(ctx context.Context, userID, id string) (*WorkoutDetail, error) {
	if !validID(id) {
		return nil, model.NewWorkoutNotFoundError(id)
	}
	w, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ワークアウトの取得に失敗しました: %w", err)
	}
	if w == nil || w.UserID != userID {
		return nil, model.NewWorkoutNotFoundError(id)
	}

	html, err := s.renderer.Render(w.Description)
	if err != nil {
		return nil, fmt.Errorf("ワークアウト本文の変換に失敗しました: %w", err)
	}

	return &WorkoutDetail{
		WorkoutSummary:  toWorkoutSummary(w),
		DescriptionHTML: html,
	}, nil
}

// DeleteWorkout はユーザーが所有するワークアウトを削除する。
func (s *Service) DeleteWorkout(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return model.NewWorkoutNotFoundError(id)
	}
	deleted, err := s.workoutRepo.DeleteByUserAndID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("ワークアウトの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewWorkoutNotFoundError(id)
	}
	return nil
}

// validID はIDがUUIDとして解釈できるかを返す。
// 主キーはUUID型のため、それ以外の文字列は存在しないIDとして扱う。
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toMealPlanSummary(p *model.MealPlan) MealPlanSummary {
	tags := p.DietaryTags
	if tags == nil {
		tags = []string{}
	}
	return MealPlanSummary{
		ID:             p.ID,
		Title:          p.Title,
		Preview:        content.Preview(p.Description),
		CaloriesPerDay: p.CaloriesPerDay,
		DietaryTags:    tags,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toWorkoutSummary(w *model.WorkoutProgram) WorkoutSummary {
	return WorkoutSummary{
		ID:              w.ID,
		Title:           w.Title,
		Preview:         content.Preview(w.Description),
		DurationWeeks:   w.DurationWeeks,
		SessionsPerWeek: w.SessionsPerWeek,
		Difficulty:      w.Difficulty,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
