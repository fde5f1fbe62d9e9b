// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はニュースAPIから受け取った本文やURLを表示前に無害化する。
// 本文はbluemondayのStrictPolicyでマークアップを全て除去し、プレーンテキストとして扱う。
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は表示用テキストの無害化機能のインターフェースを定義する。
type TextSanitizerService interface {
	// PlainText はHTMLを含みうる文字列からタグを全て除去し、
	// エンティティをデコードしたプレーンテキストを返す。
	// 連続する空白は1つにまとめる。同一入力に対して常に同一出力を返す。
	PlainText(raw string) string
	// ImageURL は画像URLがhttpまたはhttpsの絶対URL、または/で始まるサイト内パスであれば返す。
	// それ以外（空文字列、javascript:、data:、//で始まるURL など）はfalseを返す。
	ImageURL(raw string) (string, bool)
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなため共有して使用する。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// PlainText はタグを除去したプレーンテキストを返す。
func (s *textSanitizer) PlainText(raw string) string {
	if raw == "" {
		return ""
	}
	// StrictPolicyは出力をエスケープするため、テキストノード用にデコードし直す
	text := html.UnescapeString(s.policy.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

// ImageURL は表示してよい画像URLかを判定する。
func (s *textSanitizer) ImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	// サイト内の画像はパスのまま使う
	if u.Scheme == "" && u.Host == "" && strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		return u.String(), true
	}
	if u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String(), true
	default:
		return "", false
	}
}
