// Package datetime はニュースのタイムスタンプを表示用文字列に整形する。
package datetime

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// NotAvailable はタイムスタンプが存在しない場合の表示文字列。
	NotAvailable = "N/A"
	// Invalid は解析できないタイムスタンプの表示文字列。
	Invalid = "Invalid Date"
	// Layout は表示フォーマット（YYYY-MM-DD HH:MM:SS）。
	Layout = "2006-01-02 15:04:05"
)

// Format はタイムスタンプ文字列を閲覧者のタイムゾーンで YYYY-MM-DD HH:MM:SS に整形する。
// 空文字列には "N/A" を、解析できない文字列には "Invalid Date" を返す。
// タイムゾーン付きの入力はlocに変換し、タイムゾーンなしの入力はlocの時刻として解釈する。
// locがnilの場合はtime.Localを使用する。
func Format(s string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}

	t, err := Parse(s, loc)
	if err != nil {
		return Invalid
	}
	return t.In(loc).Format(Layout)
}

// Parse はタイムスタンプ文字列を解析する。
// RFC 3339で解析できない場合はdateparseで緩く解析する。
func Parse(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(s, loc)
}
