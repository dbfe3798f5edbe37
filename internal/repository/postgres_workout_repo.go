package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// PostgresWorkoutRepo はPostgreSQLを使用したワークアウトリポジトリ。
type PostgresWorkoutRepo struct {
	db *sql.DB
}

// NewPostgresWorkoutRepo はPostgresWorkoutRepoを生成する。
func NewPostgresWorkoutRepo(db *sql.DB) *PostgresWorkoutRepo {
	return &PostgresWorkoutRepo{db: db}
}

const workoutColumns = `id, user_id, title, description, duration_weeks, sessions_per_week, difficulty, created_at, updated_at`

func scanWorkout(row interface{ Scan(...any) error }) (*model.WorkoutProgram, error) {
	w := &model.WorkoutProgram{}
	var desc sql.NullString
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Title, &desc,
		&w.DurationWeeks, &w.SessionsPerWeek, &w.Difficulty, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		w.Description = &d
	}
	return w, nil
}

// ListByUserID はユーザーのワークアウトを作成日時の降順で返す。
func (r *PostgresWorkoutRepo) ListByUserID(ctx context.Context, userID string) ([]*model.WorkoutProgram, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workoutColumns+`
		 FROM workout_programs
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ワークアウト一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	workouts := []*model.WorkoutProgram{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("ワークアウトのスキャンに失敗: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ワークアウト一覧の読み取りに失敗: %w", err)
	}
	return workouts, nil
}

// FindByID は指定IDのワークアウトを取得する。見つからない場合はnilを返す。
func (r *PostgresWorkoutRepo) FindByID(ctx context.Context, id string) (*model.WorkoutProgram, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workout_programs WHERE id = $1`,
		id,
	)
	w, err := scanWorkout(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ワークアウトの取得に失敗: %w", err)
	}
	return w, nil
}

// DeleteByUserAndID はユーザーが所有するワークアウトを削除する。
func (r *PostgresWorkoutRepo) DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM workout_programs WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("ワークアウトの削除に失敗: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}
	return n > 0, nil
}

// compile-time interface check
var _ WorkoutRepository = (*PostgresWorkoutRepo)(nil)
