// Package cleanup は不要データの自動削除ジョブを提供する。
// 期限切れのセッションを日次バッチで削除する。
// 進捗記録はユーザーが入力した履歴のため、保持日数を明示的に設定した場合のみ削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Result は1回の実行で削除した件数。
type Result struct {
	ExpiredSessions int64
	ProgressLogs    int64
}

// CleanupJob は期限切れセッションと古い進捗記録の自動削除ジョブ。
// 冪等であり、何度実行しても削除対象がなければ何もしない。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int // 進捗記録の保持日数。0以下（既定値）の場合は進捗記録を削除しない
}

// NewCleanupJob は新しいCleanupJobを生成する。
// 進捗記録の削除は無効の状態で返る。
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:     db,
		logger: logger,
	}
}

// Run は期限切れセッションを削除する。
// RetentionDaysが正の場合のみ、logged_atがRetentionDays日前より古い進捗記録も削除する。
func (j *CleanupJob) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	sessions, err := j.exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		j.logger.Error("セッションのクリーンアップに失敗しました",
			slog.String("error", err.Error()),
		)
		return res, fmt.Errorf("セッションのクリーンアップに失敗しました: %w", err)
	}
	res.ExpiredSessions = sessions

	if j.RetentionDays > 0 {
		interval := fmt.Sprintf("%d days", j.RetentionDays)
		logs, err := j.exec(ctx, `DELETE FROM progress_logs WHERE logged_at < now() - $1::interval`, interval)
		if err != nil {
			j.logger.Error("進捗記録のクリーンアップに失敗しました",
				slog.String("error", err.Error()),
				slog.Int("retention_days", j.RetentionDays),
			)
			return res, fmt.Errorf("進捗記録のクリーンアップに失敗しました: %w", err)
		}
		res.ProgressLogs = logs
	}

	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("deleted_sessions", res.ExpiredSessions),
		slog.Int64("deleted_progress_logs", res.ProgressLogs),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return res, nil
}

func (j *CleanupJob) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := j.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return n, nil
}

// StartScheduler はintervalごとにジョブを実行するgoroutineを起動し、停止関数を返す。
// 起動直後に1回実行する。ctxがキャンセルされた場合も停止する。
func (j *CleanupJob) StartScheduler(ctx context.Context, interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		j.runSafely(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.runSafely(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// runSafely はRunを実行する。エラーはRun内でログ出力済みのため返さない。
func (j *CleanupJob) runSafely(ctx context.Context) {
	if _, err := j.Run(ctx); err != nil && ctx.Err() == nil {
		j.logger.Warn("クリーンアップジョブは次回実行時に再試行します")
	}
}
