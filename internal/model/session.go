// Package model はドメインモデルを定義する。
package model

import "time"

// Session はユーザーのログインセッションを表す。
// セッションは外部の認証サービスが発行し、本サービスは検証のみ行う。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Profile はユーザーの身体プロフィール。BMI推移の計算に身長を使う。
type Profile struct {
	UserID    string
	HeightCm  *float64
	UpdatedAt time.Time
}
