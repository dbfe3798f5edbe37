package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByUserID はユーザーのプロフィールを取得する。見つからない場合はnilを返す。
// 身長が未登録の場合はHeightCmがnilになる。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p := &model.Profile{}
	var height sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, height_cm, updated_at FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &height, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗: %w", err)
	}

	if height.Valid {
		h := height.Float64
		p.HeightCm = &h
	}
	return p, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
