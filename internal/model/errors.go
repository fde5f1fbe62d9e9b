// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままユーザー向けのアラート文言として表示する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, upstream, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNoFilter          = "NO_FILTER"
	ErrCodeLatestFetchFailed = "LATEST_FETCH_FAILED"
	ErrCodeSearchFetchFailed = "SEARCH_FETCH_FAILED"
	ErrCodeRequestInFlight   = "REQUEST_IN_FLIGHT"
	ErrCodeInvalidPage       = "INVALID_PAGE"
	ErrCodeInvalidLang       = "INVALID_LANG"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewNoFilterError は検索条件が1つも指定されていない場合のエラーを生成する。
func NewNoFilterError() *APIError {
	return &APIError{
		Code:     ErrCodeNoFilter,
		Message:  "Por favor ingrese al menos un filtro para buscar.",
		Category: "validation",
		Action:   "テキストまたは日付のいずれかを入力してください。",
	}
}

// NewLatestFetchFailedError は最新ニュースの取得失敗エラーを生成する。
func NewLatestFetchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLatestFetchFailed,
		Message:  "Error fetching latest news. Please try again.",
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewSearchFetchFailedError は検索結果の取得失敗エラーを生成する。
func NewSearchFetchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSearchFetchFailed,
		Message:  "Error fetching search results. Please try again.",
		Category: "upstream",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRequestInFlightError は前回のリクエストが完了していない場合のエラーを生成する。
func NewRequestInFlightError() *APIError {
	return &APIError{
		Code:     ErrCodeRequestInFlight,
		Message:  "A request is already in progress.",
		Category: "validation",
		Action:   "前回の読み込みが完了するまでお待ちください。",
	}
}

// NewInvalidPageError はページ番号が不正な場合のエラーを生成する。
func NewInvalidPageError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPage,
		Message:  fmt.Sprintf("無効なページ番号です: %s", raw),
		Category: "validation",
		Action:   "ページ番号には0以上の整数を指定してください。",
	}
}

// NewInvalidLangError はAbout画面の言語指定が不正な場合のエラーを生成する。
func NewInvalidLangError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLang,
		Message:  fmt.Sprintf("未対応の言語です: %s", raw),
		Category: "validation",
		Action:   "langにはenまたはesを指定してください。",
	}
}

// NewRateLimitedError はレート制限超過のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Retry-Afterヘッダーの秒数が経過してから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
