package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// 推薦プロバイダーの選択肢。
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Recommendation
	RecommendationProvider string
	RecommendationTimeout  time.Duration
	RecommendationCacheTTL time.Duration
	OpenRouterAPIKey       string
	OpenRouterBaseURL      string
	OpenRouterModel        string
	GeminiAPIKey           string
	GeminiModel            string

	// Cache（空の場合はキャッシュ無効）
	RedisURL string

	// Rate Limit（リクエスト/分）
	RateLimitGeneral    int
	RateLimitCalculator int

	// Retention（0の場合、進捗記録は削除しない）
	ProgressRetentionDays int
	CleanupInterval       time.Duration

	// Logging
	LogLevel string

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	cfg.RecommendationProvider = strings.ToLower(getEnvString("RECOMMENDATION_PROVIDER", ProviderOpenRouter))
	cfg.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	switch cfg.RecommendationProvider {
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			missing = append(missing, "OPENROUTER_API_KEY")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported RECOMMENDATION_PROVIDER: %q (want %s or %s)",
			cfg.RecommendationProvider, ProviderOpenRouter, ProviderGemini)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RecommendationTimeout = getEnvDuration("RECOMMENDATION_TIMEOUT", 30*time.Second)
	cfg.RecommendationCacheTTL = getEnvDuration("RECOMMENDATION_CACHE_TTL", 24*time.Hour)
	cfg.OpenRouterBaseURL = getEnvString("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	cfg.OpenRouterModel = getEnvString("OPENROUTER_MODEL", "")
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "")
	cfg.RedisURL = getEnvString("REDIS_URL", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitCalculator = getEnvInt("RATE_LIMIT_CALCULATOR", 10)
	cfg.ProgressRetentionDays = getEnvInt("PROGRESS_RETENTION_DAYS", 0)
	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 24*time.Hour)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
