package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// PostgresMealPlanRepo はPostgreSQLを使用した食事プランリポジトリ。
type PostgresMealPlanRepo struct {
	db *sql.DB
}

// NewPostgresMealPlanRepo はPostgresMealPlanRepoを生成する。
func NewPostgresMealPlanRepo(db *sql.DB) *PostgresMealPlanRepo {
	return &PostgresMealPlanRepo{db: db}
}

const mealPlanColumns = `id, user_id, title, description, days, calories_per_day, dietary_tags, is_active, created_at, updated_at`

// scanMealPlan は1行分の食事プランをスキャンする。
func scanMealPlan(row interface{ Scan(...any) error }) (*model.MealPlan, error) {
	p := &model.MealPlan{}
	var desc sql.NullString
	var days []byte
	var tags pq.StringArray
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &desc, &days,
		&p.CaloriesPerDay, &tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	p.Days = days
	p.DietaryTags = []string(tags)
	return p, nil
}

// ListByUserID はユーザーの食事プランを作成日時の降順で返す。
func (r *PostgresMealPlanRepo) ListByUserID(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mealPlanColumns+`
		 FROM meal_plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("食事プラン一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	plans := []*model.MealPlan{}
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("食事プランのスキャンに失敗: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("食事プラン一覧の読み取りに失敗: %w", err)
	}
	return plans, nil
}

// FindByID は指定IDの食事プランを取得する。見つからない場合はnilを返す。
func (r *PostgresMealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mealPlanColumns+` FROM meal_plans WHERE id = $1`,
		id,
	)
	p, err := scanMealPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("食事プランの取得に失敗: %w", err)
	}
	return p, nil
}

// DeleteByUserAndID はユーザーが所有する食事プランを削除する。
func (r *PostgresMealPlanRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM meal_plans WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("食事プランの削除に失敗: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}
	return n > 0, nil
}

// compile-time interface check
var _ MealPlanRepository = (*PostgresMealPlanRepo)(nil)
