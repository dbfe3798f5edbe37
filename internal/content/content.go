// Package content は食事プラン・ワークアウトの説明文（マークダウン）を扱う。
//
// 一覧向けのプレビュー文字列の抽出と、詳細表示向けの安全なHTMLへの変換を提供する。
package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/hitoshi/cybersculpt/internal/security"
)

// previewLength は太字見出しがない場合のプレビュー文字数（rune単位）。
const previewLength = 100

// Preview は説明文から一覧表示用のプレビューを抽出する。
//
// 説明文に "**" が含まれる場合は、最初の "**" の直後からその行末までを取り出し、
// 閉じの "**" があればその手前で切って前後の空白を除去する。
// 含まれない場合は先頭100文字に "..." を付けて返す。
// nilの場合は空文字列を返す。
func Preview(description *string) string {
	if description == nil {
		return ""
	}
	desc := *description

	if idx := strings.Index(desc, "**"); idx >= 0 {
		rest := desc[idx+2:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if end := strings.Index(rest, "**"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	runes := []rune(desc)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}

// Renderer はマークダウンをサニタイズ済みHTMLに変換する。
// goldmarkとサニタイザーはどちらも並行利用に安全。
type Renderer struct {
	md        goldmark.Markdown
	sanitizer security.ContentSanitizerService
}

// NewRenderer はGFM（表・取り消し線・自動リンク・タスクリスト）を有効にしたRendererを生成する。
// 説明文中の生HTMLはそのまま出力し、sanitizerで無害化する。
func NewRenderer(sanitizer security.ContentSanitizerService) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, sanitizer: sanitizer}
}

// Render はマークダウン本文をHTMLに変換する。nilの場合は空文字列を返す。
func (r *Renderer) Render(description *string) (string, error) {
	if description == nil || *description == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(*description), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
