package recommendation

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// DefaultGeminiModel はGemini直接呼び出し時のモデル。
const DefaultGeminiModel = "gemini-2.0-flash-lite"

// contentGenerator はgenai.Modelsのうち使用するメソッドだけを切り出したもの。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient はGoogle Gen AI SDKでGeminiを直接呼び出すProvider実装。
type GeminiClient struct {
	models contentGenerator
	model  string
	logger *slog.Logger
}

// NewGeminiClient はGeminiClientの新しいインスタンスを生成する。
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAIクライアントの生成に失敗しました: %w", err)
	}
	return newGeminiClient(client.Models, model, logger), nil
}

func newGeminiClient(models contentGenerator, model string, logger *slog.Logger) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{models: models, model: model, logger: logger}
}

// Name はプロバイダー名を返す。
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Recommend はGeminiに推薦を問い合わせる。応答はJSONで返すよう指定する。
func (c *GeminiClient) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(req), genai.RoleUser),
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](openRouterTemperature),
		MaxOutputTokens:  openRouterMaxTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		c.logger.Error("Gemini APIの呼び出しに失敗しました",
			slog.String("model", c.model),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("Gemini APIの呼び出しに失敗しました: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformed)
	}

	return ParseContent(resp.Text())
}
