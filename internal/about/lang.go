// Package about はAbout画面の表示言語の切り替えを提供する。
//
// 表示中の言語は英語(EN)とスペイン語(ES)のいずれか一方で、初期値は英語。
// 切り替えボタンの文言は「もう一方の言語へ切り替える」ことを表す。
package about

import (
	"fmt"
	"strings"
)

// Lang はAbout画面の表示言語。
type Lang string

const (
	EN Lang = "en"
	ES Lang = "es"
)

// Default は初期表示の言語。
const Default = EN

// ParseLang はクエリパラメータ等の文字列を言語に変換する。
// 空文字列は既定の言語として扱う。
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case string(EN):
		return EN, nil
	case string(ES):
		return ES, nil
	default:
		return "", fmt.Errorf("未対応の言語です: %q", s)
	}
}

// Toggle はもう一方の言語を返す。
func (l Lang) Toggle() Lang {
	if l == ES {
		return EN
	}
	return ES
}

// ButtonLabel はこの言語を表示中のときの切り替えボタンの文言を返す。
func (l Lang) ButtonLabel() string {
	if l == ES {
		return "Switch to English"
	}
	return "Cambiar a Español"
}

// SectionID はこの言語の本文を持つ要素のidを返す。
func (l Lang) SectionID() string {
	if l == ES {
		return "about-es"
	}
	return "about-en"
}

// Toggler はAbout画面の言語状態を保持する。ゼロ値は英語表示。
type Toggler struct {
	lang Lang
}

// Current は表示中の言語を返す。
func (t *Toggler) Current() Lang {
	if t.lang == "" {
		return Default
	}
	return t.lang
}

// Switch は表示言語を切り替え、切り替え後の言語を返す。
func (t *Toggler) Switch() Lang {
	t.lang = t.Current().Toggle()
	return t.lang
}
