package progress

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cybersculpt/internal/model"
)

// maxBodyFatPercent は体脂肪率として受け付ける上限。
const maxBodyFatPercent = 100

func newUUID() string {
	return uuid.New().String()
}

// AddLogInput は進捗記録の追加リクエスト。
// LoggedAtがnilの場合は現在時刻を使う。
type AddLogInput struct {
	Type     string
	Value    float64
	LoggedAt *time.Time
}

// AddLog は進捗記録を検証して保存する。
func (s *Service) AddLog(ctx context.Context, userID string, in AddLogInput) (*model.ProgressLog, error) {
	logType := model.LogType(in.Type)
	switch logType {
	case model.LogTypeWeight, model.LogTypeBodyFat:
	default:
		return nil, model.NewInvalidLogError(fmt.Sprintf("type=%q", in.Type))
	}

	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value <= 0 {
		return nil, model.NewInvalidLogError("value は正の数である必要があります")
	}
	if logType == model.LogTypeBodyFat && in.Value > maxBodyFatPercent {
		return nil, model.NewInvalidLogError("体脂肪率は100以下である必要があります")
	}

	loggedAt := s.now().UTC()
	if in.LoggedAt != nil {
		loggedAt = in.LoggedAt.UTC()
	}

	log := &model.ProgressLog{
		ID:       s.newID(),
		UserID:   userID,
		Type:     logType,
		Value:    in.Value,
		LoggedAt: loggedAt,
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("進捗記録の保存に失敗しました: %w", err)
	}
	return log, nil
}
