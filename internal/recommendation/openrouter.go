package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOpenRouterBaseURL はOpenRouter APIのベースURL。
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel は推薦生成に使うモデル。
	DefaultOpenRouterModel = "google/gemini-2.0-flash-lite-preview-02-05:free"

	openRouterTemperature = 0.5
	openRouterMaxTokens   = 2000
	// maxResponseBytes はレスポンスボディの読み取り上限。
	maxResponseBytes = 10 * 1024 * 1024
	// maxRetries は429応答時の最大リトライ回数。
	maxRetries = 2
)

// OpenRouterConfig はOpenRouterClientの設定。
type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	SiteURL  string // HTTP-Refererヘッダー
	SiteName string // X-Titleヘッダー
}

// OpenRouterClient はOpenRouterのchat/completions APIを使うProvider実装。
type OpenRouterClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	baseURL    string
	model      string
	siteURL    string
	siteName   string
	retryDelay time.Duration // テスト用に短縮可能
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type openRouterResponse struct {
	Choices []struct {
		Message openRouterMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenRouterClient はOpenRouterClientの新しいインスタンスを生成する。
// httpClientには本番ではSSRF防止付きクライアントを渡す。
func NewOpenRouterClient(httpClient *http.Client, logger *slog.Logger, cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenRouterModel
	}
	return &OpenRouterClient{
		httpClient: httpClient,
		logger:     logger,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		siteURL:    cfg.SiteURL,
		siteName:   cfg.SiteName,
		retryDelay: time.Second,
	}
}

// Name はプロバイダー名を返す。
func (c *OpenRouterClient) Name() string {
	return "openrouter"
}

// Recommend はOpenRouterに推薦を問い合わせる。
// 429応答の場合は指数バックオフで最大maxRetries回リトライする。
func (c *OpenRouterClient) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenRouter APIキーが設定されていません")
	}

	body, err := json.Marshal(openRouterRequest{
		Model:       c.model,
		Messages:    []openRouterMessage{{Role: "user", Content: BuildPrompt(req)}},
		Temperature: openRouterTemperature,
		MaxTokens:   openRouterMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("リクエストのシリアライズに失敗しました: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return ParseContent(content)
		}
		lastErr = err
		if !retry {
			return nil, err
		}
		c.logger.Warn("OpenRouterがレート制限を返しました。リトライします",
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, fmt.Errorf("リトライ上限に達しました: %w", lastErr)
}

// do は1回分のHTTPリクエストを実行し、応答メッセージ本文を返す。
// retryがtrueの場合は呼び出し元がリトライしてよい。
func (c *OpenRouterClient) do(ctx context.Context, body []byte) (content string, retry bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		httpReq.Header.Set("X-Title", c.siteName)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("OpenRouter APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
		)
		return "", false, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", false, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", true, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("OpenRouter APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return "", false, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var parsed openRouterResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("%w: %s", ErrUpstreamStatus, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("%w: choices", ErrMalformed)
	}

	return parsed.Choices[0].Message.Content, false, nil
}
