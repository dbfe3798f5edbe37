package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// PostgresProgressLogRepo はPostgreSQLを使用した進捗記録リポジトリ。
type PostgresProgressLogRepo struct {
	db *sql.DB
}

// NewPostgresProgressLogRepo はPostgresProgressLogRepoを生成する。
func NewPostgresProgressLogRepo(db *sql.DB) *PostgresProgressLogRepo {
	return &PostgresProgressLogRepo{db: db}
}

// ListByUserAndType は指定種別の記録をlogged_at昇順で返す。
// from/toがゼロ値の場合はその側の期間制限を行わない。toは含む。
func (r *PostgresProgressLogRepo) ListByUserAndType(ctx context.Context, userID string, logType model.LogType, from, to time.Time) ([]*model.ProgressLog, error) {
	conds := []string{"user_id = $1", "type = $2"}
	args := []any{userID, string(logType)}
	if !from.IsZero() {
		args = append(args, from)
		conds = append(conds, fmt.Sprintf("logged_at >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		conds = append(conds, fmt.Sprintf("logged_at <= $%d", len(args)))
	}

	query := `SELECT id, user_id, type, value, logged_at
		 FROM progress_logs
		 WHERE ` + strings.Join(conds, " AND ") + `
		 ORDER BY logged_at ASC`

	return r.query(ctx, query, args...)
}

// ListByUserID はユーザーの全記録をlogged_at昇順で返す。
func (r *PostgresProgressLogRepo) ListByUserID(ctx context.Context, userID string) ([]*model.ProgressLog, error) {
	return r.query(ctx,
		`SELECT id, user_id, type, value, logged_at
		 FROM progress_logs
		 WHERE user_id = $1
		 ORDER BY logged_at ASC`,
		userID,
	)
}

func (r *PostgresProgressLogRepo) query(ctx context.Context, query string, args ...any) ([]*model.ProgressLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("進捗記録の取得に失敗: %w", err)
	}
	defer rows.Close()

	logs := []*model.ProgressLog{}
	for rows.Next() {
		l := &model.ProgressLog{}
		var logType string
		if err := rows.Scan(&l.ID, &l.UserID, &logType, &l.Value, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("進捗記録のスキャンに失敗: %w", err)
		}
		l.Type = model.LogType(logType)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("進捗記録の読み取りに失敗: %w", err)
	}
	return logs, nil
}

// Create は記録を作成する。
func (r *PostgresProgressLogRepo) Create(ctx context.Context, log *model.ProgressLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_logs (id, user_id, type, value, logged_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.UserID, string(log.Type), log.Value, log.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("進捗記録の作成に失敗: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProgressLogRepository = (*PostgresProgressLogRepo)(nil)
