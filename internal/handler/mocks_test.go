package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cybersculpt/internal/middleware"
	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/progress"
	"github.com/hitoshi/cybersculpt/internal/recommendation"
)

// --- 推薦サービスのモック ---

type mockRecommender struct {
	recommendFn func(ctx context.Context, req recommendation.Request) recommendation.Result
	lastReq     recommendation.Request
}

func (m *mockRecommender) Recommend(ctx context.Context, req recommendation.Request) recommendation.Result {
	m.lastReq = req
	if m.recommendFn != nil {
		return m.recommendFn(ctx, req)
	}
	return recommendation.Result{Recommendation: &recommendation.Recommendation{
		Title: "Your plan",
		Icon:  "star",
		Sections: []recommendation.Section{
			{Category: "Diet", Items: []string{"Eat vegetables"}, Tips: []string{"Drink water"}},
		},
	}}
}

// --- メトリクスコレクターのモック ---

type mockCollector struct {
	calculations []string
}

func (m *mockCollector) RecordRecommendationSuccess(string) {}
func (m *mockCollector) RecordRecommendationFailure(string, string) {}
func (m *mockCollector) RecordRecommendationFallback() {}
func (m *mockCollector) RecordRecommendationLatency(string, time.Duration) {}
func (m *mockCollector) RecordCacheHit() {}
func (m *mockCollector) RecordCacheMiss() {}
func (m *mockCollector) RecordCalculation(category string) {
	m.calculations = append(m.calculations, category)
}

// --- プランサービスのモック ---

type mockPlanService struct {
	listMealPlansFn  func(ctx context.Context, userID string) ([]mealPlanResponse, error)
	getMealPlanFn    func(ctx context.Context, userID, id string) (*mealPlanDetailResponse, error)
	deleteMealPlanFn func(ctx context.Context, userID, id string) error
	listWorkoutsFn   func(ctx context.Context, userID string) ([]workoutResponse, error)
	getWorkoutFn     func(ctx context.Context, userID, id string) (*workoutDetailResponse, error)
	deleteWorkoutFn  func(ctx context.Context, userID, id string) error

	refetchCalls int
}

func (m *mockPlanService) ListMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error) {
	if m.listMealPlansFn != nil {
		return m.listMealPlansFn(ctx, userID)
	}
	return []mealPlanResponse{}, nil
}

func (m *mockPlanService) RefetchMealPlans(ctx context.Context, userID string) ([]mealPlanResponse, error) {
	m.refetchCalls++
	return m.ListMealPlans(ctx, userID)
}

func (m *mockPlanService) GetMealPlan(ctx context.Context, userID, id string) (*mealPlanDetailResponse, error) {
	if m.getMealPlanFn != nil {
		return m.getMealPlanFn(ctx, userID, id)
	}
	return nil, model.NewMealPlanNotFoundError(id)
}

func (m *mockPlanService) DeleteMealPlan(ctx context.Context, userID, id string) error {
	if m.deleteMealPlanFn != nil {
		return m.deleteMealPlanFn(ctx, userID, id)
	}
	return nil
}

func (m *mockPlanService) ListWorkouts(ctx context.Context, userID string) ([]workoutResponse, error) {
	if m.listWorkoutsFn != nil {
		return m.listWorkoutsFn(ctx, userID)
	}
	return []workoutResponse{}, nil
}

func (m *mockPlanService) RefetchWorkouts(ctx context.Context, userID string) ([]workoutResponse, error) {
	m.refetchCalls++
	return m.ListWorkouts(ctx, userID)
}

func (m *mockPlanService) GetWorkout(ctx context.Context, userID, id string) (*workoutDetailResponse, error) {
	if m.getWorkoutFn != nil {
		return m.getWorkoutFn(ctx, userID, id)
	}
	return nil, model.NewWorkoutNotFoundError(id)
}

func (m *mockPlanService) DeleteWorkout(ctx context.Context, userID, id string) error {
	if m.deleteWorkoutFn != nil {
		return m.deleteWorkoutFn(ctx, userID, id)
	}
	return nil
}

// --- 進捗サービスのモック ---

type mockProgressService struct {
	seriesFn func(ctx context.Context, userID string, metric progress.Metric, rng *progress.DateRange) (*progress.Series, error)
	addLogFn func(ctx context.Context, userID string, in progress.AddLogInput) (*model.ProgressLog, error)
	exportFn func(ctx context.Context, userID string, w io.Writer) error
}

func (m *mockProgressService) Series(ctx context.Context, userID string, metric progress.Metric, rng *progress.DateRange) (*progress.Series, error) {
	if m.seriesFn != nil {
		return m.seriesFn(ctx, userID, metric, rng)
	}
	return &progress.Series{Metric: metric, Points: []progress.Point{}}, nil
}

func (m *mockProgressService) AddLog(ctx context.Context, userID string, in progress.AddLogInput) (*model.ProgressLog, error) {
	if m.addLogFn != nil {
		return m.addLogFn(ctx, userID, in)
	}
	return &model.ProgressLog{ID: "log-1", UserID: userID, Type: model.LogType(in.Type), Value: in.Value, LoggedAt: time.Now().UTC()}, nil
}

func (m *mockProgressService) Export(ctx context.Context, userID string, w io.Writer) error {
	if m.exportFn != nil {
		return m.exportFn(ctx, userID, w)
	}
	_, err := w.Write([]byte("xlsx"))
	return err
}

// --- テストヘルパー ---

// withUserID は認証済みユーザーIDをコンテキストに注入したリクエストを返す。
func withUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// withURLParam はchiのURLパラメータを設定したリクエストを返す。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// serve はハンドラーを実行してレスポンスを返す。
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
