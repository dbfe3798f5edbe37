// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// SessionRepository はセッションデータの参照インターフェース。
// セッションの発行は外部の認証サービスが行う。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// ProfileRepository は身体プロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByUserID はユーザーのプロフィールを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
}

// MealPlanRepository は食事プランの永続化インターフェース。
type MealPlanRepository interface {
	// ListByUserID はユーザーの食事プランを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.MealPlan, error)

	// FindByID は指定IDの食事プランを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.MealPlan, error)

	// DeleteByUserAndID はユーザーが所有する食事プランを削除する。
	// 削除した場合はtrue、対象が存在しない（または他ユーザーの所有）場合はfalseを返す。
	DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error)
}

// WorkoutRepository はワークアウトプログラムの永続化インターフェース。
type WorkoutRepository interface {
	// ListByUserID はユーザーのワークアウトを作成日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.WorkoutProgram, error)

	// FindByID は指定IDのワークアウトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.WorkoutProgram, error)

	// DeleteByUserAndID はユーザーが所有するワークアウトを削除する。
	DeleteByUserAndID(ctx context.Context, userID, id string) (bool, error)
}

// ProgressLogRepository は進捗記録の永続化インターフェース。
type ProgressLogRepository interface {
	// ListByUserAndType は指定種別の記録をlogged_at昇順で返す。
	// from/toがゼロ値の場合はその側の期間制限を行わない。
	ListByUserAndType(ctx context.Context, userID string, logType model.LogType, from, to time.Time) ([]*model.ProgressLog, error)

	// ListByUserID はユーザーの全記録をlogged_at昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.ProgressLog, error)

	// Create は記録を作成する。
	Create(ctx context.Context, log *model.ProgressLog) error
}
