package model

import "time"

// LogType は進捗記録の種別。
type LogType string

const (
	LogTypeWeight  LogType = "WEIGHT"
	LogTypeBodyFat LogType = "BODY_FAT"
)

// ProgressLog は体重・体脂肪率の記録1件を表す。
// Valueは体重ならkg、体脂肪率なら%。
type ProgressLog struct {
	ID       string
	UserID   string
	Type     LogType
	Value    float64
	LoggedAt time.Time
}
