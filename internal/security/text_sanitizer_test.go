package security

import (
	"strings"
	"testing"
)

// TestPlainText_StripsMarkup はタグが全て除去されることを検証する。
func TestPlainText_StripsMarkup(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "空文字列は空文字列",
			input: "",
			want:  "",
		},
		{
			name:  "プレーンテキストはそのまま",
			input: "El gobierno anunció nuevas medidas.",
			want:  "El gobierno anunció nuevas medidas.",
		},
		{
			name:  "pタグが除去される",
			input: "<p>テスト段落</p>",
			want:  "テスト段落",
		},
		{
			name:  "リンクはテキストだけ残る",
			input: `Leer <a href="https://example.com">más</a>`,
			want:  "Leer más",
		},
		{
			name:  "エンティティはデコードされる",
			input: "Tom &amp; Jerry &lt;3",
			want:  "Tom & Jerry <3",
		},
		{
			name:  "連続する空白と改行はまとめられる",
			input: "<p>行1</p>\n\n   <p>行2</p>",
			want:  "行1 行2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestPlainText_RemovesDangerousContent はscript等の中身ごと除去されることを検証する。
func TestPlainText_RemovesDangerousContent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{
			name:       "scriptタグが中身ごと除去される",
			input:      `<p>テスト</p><script>alert('xss')</script>`,
			wantAbsent: []string{"<script", "alert"},
		},
		{
			name:       "styleタグが中身ごと除去される",
			input:      `<style>body{display:none}</style>本文`,
			wantAbsent: []string{"<style", "display:none"},
		},
		{
			name:       "on*属性が除去される",
			input:      `<img src="https://example.com/a.png" onerror="alert(1)">本文`,
			wantAbsent: []string{"onerror", "alert", "<img"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.PlainText(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("PlainText(%q) = %q, should NOT contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestPlainText_Idempotent は同一入力に対して同一出力を返すことを検証する。
func TestPlainText_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()
	input := `<p>Noticias <b>de hoy</b></p>`

	first := sanitizer.PlainText(input)
	second := sanitizer.PlainText(input)
	if first != second {
		t.Errorf("出力が一致しません: %q != %q", first, second)
	}
}

// TestImageURL は画像URLのスキーム判定を検証する。
func TestImageURL(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"https", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg", true},
		{"http", "http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg", true},
		{"前後の空白", "  https://cdn.example.com/a.jpg ", "https://cdn.example.com/a.jpg", true},
		{"空文字列", "", "", false},
		{"javascriptスキーム", "javascript:alert(1)", "", false},
		{"dataスキーム", "data:image/png;base64,AAAA", "", false},
		{"サイト内パス", "/static/img/photos/a.jpg", "/static/img/photos/a.jpg", true},
		{"クエリ付きサイト内パス", "/img/a.jpg?w=300", "/img/a.jpg?w=300", true},
		{"プロトコル相対URL", "//evil.example.com/a.jpg", "", false},
		{"ディレクトリ相対パス", "img/a.jpg", "", false},
		{"不正なURL", "http://[::1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizer.ImageURL(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ImageURL(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
