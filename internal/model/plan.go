package model

import (
	"encoding/json"
	"time"
)

// MealPlan は保存済みの食事プランを表す。
// Descriptionはマークダウン本文。Daysは日別メニューのJSON。
type MealPlan struct {
	ID             string
	Title          string
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         string
	Days           json.RawMessage
	CaloriesPerDay int
	DietaryTags    []string
	IsActive       bool
}

// WorkoutProgram は保存済みのワークアウトプログラムを表す。
type WorkoutProgram struct {
	ID              string
	Title           string
	Description     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          string
	DurationWeeks   int
	SessionsPerWeek int
	Difficulty      string
}
