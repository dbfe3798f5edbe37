package plan

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hitoshi/cybersculpt/internal/content"
	"github.com/hitoshi/cybersculpt/internal/model"
	"github.com/hitoshi/cybersculpt/internal/security"
)

const (
	planID1    = "0b6c6f3e-2f0a-4c52-9d55-7f1a3c2e9b01"
	planID2    = "0b6c6f3e-2f0a-4c52-9d55-7f1a3c2e9b02"
	workoutID1 = "5d7e8f90-1a2b-4c3d-8e9f-0a1b2c3d4e01"
	unknownID  = "ffffffff-ffff-4fff-bfff-ffffffffffff"
)

// --- モック ---

type mockMealPlanRepo struct {
	listByUserIDFn      func(ctx context.Context, userID string) ([]*model.MealPlan, error)
	findByIDFn          func(ctx context.Context, id string) (*model.MealPlan, error)
	deleteByUserAndIDFn func(ctx context.Context, userID, id string) (bool, error)
}

func (m *mockMealPlanRepo) ListByUserID(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	return m.listByUserIDFn(ctx, userID)
}
func (m *mockMealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlan, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockMealPlanRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	return m.deleteByUserAndIDFn(ctx, userID, id)
}

type mockWorkoutRepo struct {
	listByUserIDFn      func(ctx context.Context, userID string) ([]*model.WorkoutProgram, error)
	findByIDFn          func(ctx context.Context, id string) (*model.WorkoutProgram, error)
	deleteByUserAndIDFn func(ctx context.Context, userID, id string) (bool, error)
}

func (m *mockWorkoutRepo) ListByUserID(ctx context.Context, userID string) ([]*model.WorkoutProgram, error) {
	return m.listByUserIDFn(ctx, userID)
}
func (m *mockWorkoutRepo) FindByID(ctx context.Context, id string) (*model.WorkoutProgram, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockWorkoutRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	return m.deleteByUserAndIDFn(ctx, userID, id)
}

func strPtr(s string) *string { return &s }

func newTestService(meal *mockMealPlanRepo, workout *mockWorkoutRepo) *Service {
	return NewService(meal, workout, content.NewRenderer(security.NewContentSanitizer()))
}

func assertAPIErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("APIErrorを期待したが %v", err)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %q, want %q", apiErr.Code, code)
	}
}

// --- 食事プラン ---

func TestListMealPlans_プレビュー付きで返す(t *testing.T) {
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	meal := &mockMealPlanRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.MealPlan, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q", userID)
			}
			return []*model.MealPlan{
				{ID: planID1, UserID: "user-1", Title: "Cut", Description: strPtr("**Low carb week**\nday 1"), CaloriesPerDay: 1800, DietaryTags: []string{"keto"}, IsActive: true, CreatedAt: created},
				{ID: planID2, UserID: "user-1", Title: "Bulk", CaloriesPerDay: 3000, CreatedAt: created},
			}, nil
		},
	}
	svc := newTestService(meal, &mockWorkoutRepo{})

	got, err := svc.ListMealPlans(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListMealPlans: %v", err)
	}

	want := []MealPlanSummary{
		{ID: planID1, Title: "Cut", Preview: "Low carb week", CaloriesPerDay: 1800, DietaryTags: []string{"keto"}, IsActive: true, CreatedAt: created},
		{ID: planID2, Title: "Bulk", Preview: "", CaloriesPerDay: 3000, DietaryTags: []string{}, CreatedAt: created},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListMealPlans mismatch (-want +got):\n%s", diff)
	}
}

func TestRefetchMealPlans_一覧と同じ結果を返す(t *testing.T) {
	calls := 0
	meal := &mockMealPlanRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.MealPlan, error) {
			calls++
			return []*model.MealPlan{{ID: planID1, UserID: userID, Title: "Cut"}}, nil
		},
	}
	svc := newTestService(meal, &mockWorkoutRepo{})

	first, _ := svc.ListMealPlans(context.Background(), "user-1")
	second, err := svc.RefetchMealPlans(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefetchMealPlans: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("再取得結果が異なる (-list +refetch):\n%s", diff)
	}
	if calls != 2 {
		t.Errorf("リポジトリ呼び出し回数 = %d, want 2", calls)
	}
}

func TestListMealPlans_リポジトリエラー(t *testing.T) {
	meal := &mockMealPlanRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.MealPlan, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(meal, &mockWorkoutRepo{})

	if _, err := svc.ListMealPlans(context.Background(), "user-1"); err == nil {
		t.Fatal("エラーを期待")
	}
}

func TestGetMealPlan_本文をHTMLに変換する(t *testing.T) {
	days := json.RawMessage(`[{"day":1,"meals":[]}]`)
	meal := &mockMealPlanRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.MealPlan, error) {
			return &model.MealPlan{ID: id, UserID: "user-1", Title: "Cut", Description: strPtr("## Day 1\n\n<img src=x onerror=alert(1)>"), Days: days}, nil
		},
	}
	svc := newTestService(meal, &mockWorkoutRepo{})

	got, err := svc.GetMealPlan(context.Background(), "user-1", planID1)
	if err != nil {
		t.Fatalf("GetMealPlan: %v", err)
	}
	if !strings.Contains(got.DescriptionHTML, "<h2>Day 1</h2>") {
		t.Errorf("DescriptionHTML = %q", got.DescriptionHTML)
	}
	if strings.Contains(got.DescriptionHTML, "onerror") {
		t.Errorf("サニタイズされていない: %q", got.DescriptionHTML)
	}
	if string(got.Days) != string(days) {
		t.Errorf("Days = %s", got.Days)
	}
}

func TestGetMealPlan_未検出と他ユーザー(t *testing.T) {
	tests := []struct {
		name string
		plan *model.MealPlan
	}{
		{"存在しない", nil},
		{"他ユーザーの所有", &model.MealPlan{ID: planID1, UserID: "someone-else"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meal := &mockMealPlanRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.MealPlan, error) {
					return tt.plan, nil
				},
			}
			svc := newTestService(meal, &mockWorkoutRepo{})

			_, err := svc.GetMealPlan(context.Background(), "user-1", planID1)
			assertAPIErrorCode(t, err, model.ErrCodeMealPlanNotFound)
		})
	}
}

func TestDeleteMealPlan(t *testing.T) {
	t.Run("所有者は削除できる", func(t *testing.T) {
		meal := &mockMealPlanRepo{
			deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
				if userID != "user-1" || id != planID1 {
					t.Errorf("DeleteByUserAndID(%q, %q)", userID, id)
				}
				return true, nil
			},
		}
		svc := newTestService(meal, &mockWorkoutRepo{})

		if err := svc.DeleteMealPlan(context.Background(), "user-1", planID1); err != nil {
			t.Errorf("DeleteMealPlan: %v", err)
		}
	})

	t.Run("対象がなければ未検出エラー", func(t *testing.T) {
		meal := &mockMealPlanRepo{
			deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
				return false, nil
			},
		}
		svc := newTestService(meal, &mockWorkoutRepo{})

		err := svc.DeleteMealPlan(context.Background(), "user-1", unknownID)
		assertAPIErrorCode(t, err, model.ErrCodeMealPlanNotFound)
	})

	t.Run("DBエラーはAPIErrorにしない", func(t *testing.T) {
		meal := &mockMealPlanRepo{
			deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
				return false, errors.New("timeout")
			},
		}
		svc := newTestService(meal, &mockWorkoutRepo{})

		err := svc.DeleteMealPlan(context.Background(), "user-1", planID1)
		var apiErr *model.APIError
		if err == nil || errors.As(err, &apiErr) {
			t.Errorf("内部エラーを期待したが %v", err)
		}
	})
}

// --- ワークアウト ---

func TestListWorkouts(t *testing.T) {
	workout := &mockWorkoutRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.WorkoutProgram, error) {
			return []*model.WorkoutProgram{
				{ID: workoutID1, UserID: userID, Title: "5x5", Description: strPtr("Classic strength program"), DurationWeeks: 12, SessionsPerWeek: 3, Difficulty: "intermediate"},
			}, nil
		},
	}
	svc := newTestService(&mockMealPlanRepo{}, workout)

	got, err := svc.ListWorkouts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	want := []WorkoutSummary{
		{ID: workoutID1, Title: "5x5", Preview: "Classic strength program...", DurationWeeks: 12, SessionsPerWeek: 3, Difficulty: "intermediate"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListWorkouts mismatch (-want +got):\n%s", diff)
	}

	refetched, err := svc.RefetchWorkouts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RefetchWorkouts: %v", err)
	}
	if diff := cmp.Diff(got, refetched); diff != "" {
		t.Errorf("再取得結果が異なる:\n%s", diff)
	}
}

func TestGetWorkout(t *testing.T) {
	workout := &mockWorkoutRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.WorkoutProgram, error) {
			if id == workoutID1 {
				return &model.WorkoutProgram{ID: workoutID1, UserID: "user-1", Title: "5x5", Description: strPtr("- Squat\n- Bench")}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(&mockMealPlanRepo{}, workout)

	got, err := svc.GetWorkout(context.Background(), "user-1", workoutID1)
	if err != nil {
		t.Fatalf("GetWorkout: %v", err)
	}
	if !strings.Contains(got.DescriptionHTML, "<li>Squat</li>") {
		t.Errorf("DescriptionHTML = %q", got.DescriptionHTML)
	}

	_, err = svc.GetWorkout(context.Background(), "other-user", workoutID1)
	assertAPIErrorCode(t, err, model.ErrCodeWorkoutNotFound)

	_, err = svc.GetWorkout(context.Background(), "user-1", unknownID)
	assertAPIErrorCode(t, err, model.ErrCodeWorkoutNotFound)
}

func TestDeleteWorkout_未検出(t *testing.T) {
	workout := &mockWorkoutRepo{
		deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(&mockMealPlanRepo{}, workout)

	err := svc.DeleteWorkout(context.Background(), "user-1", workoutID1)
	assertAPIErrorCode(t, err, model.ErrCodeWorkoutNotFound)
}

// TestMalformedID_未検出として扱う はUUIDとして解釈できないIDを
// リポジトリに渡さず未検出エラーにすることを検証する。
func TestMalformedID_未検出として扱う(t *testing.T) {
	meal := &mockMealPlanRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.MealPlan, error) {
			t.Errorf("FindByID should not be called with %q", id)
			return nil, errors.New("invalid input syntax for type uuid")
		},
		deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
			t.Errorf("DeleteByUserAndID should not be called with %q", id)
			return false, errors.New("invalid input syntax for type uuid")
		},
	}
	workout := &mockWorkoutRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.WorkoutProgram, error) {
			t.Errorf("FindByID should not be called with %q", id)
			return nil, errors.New("invalid input syntax for type uuid")
		},
		deleteByUserAndIDFn: func(ctx context.Context, userID, id string) (bool, error) {
			t.Errorf("DeleteByUserAndID should not be called with %q", id)
			return false, errors.New("invalid input syntax for type uuid")
		},
	}
	svc := newTestService(meal, workout)
	ctx := context.Background()

	for _, id := range []string{"abc", "", "p1", "0b6c6f3e-2f0a-4c52-9d55"} {
		t.Run(id, func(t *testing.T) {
			_, err := svc.GetMealPlan(ctx, "user-1", id)
			assertAPIErrorCode(t, err, model.ErrCodeMealPlanNotFound)

			err = svc.DeleteMealPlan(ctx, "user-1", id)
			assertAPIErrorCode(t, err, model.ErrCodeMealPlanNotFound)

			_, err = svc.GetWorkout(ctx, "user-1", id)
			assertAPIErrorCode(t, err, model.ErrCodeWorkoutNotFound)

			err = svc.DeleteWorkout(ctx, "user-1", id)
			assertAPIErrorCode(t, err, model.ErrCodeWorkoutNotFound)
		})
	}
}
