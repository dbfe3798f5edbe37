package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open はセッション・身体プロフィール・食事プラン・ワークアウト・進捗記録を保持する
// PostgreSQLへの接続を開く。
// 接続確認は行わないため、起動時は呼び出し側でPingContextする（/healthも同じ経路で疎通を見る）。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
