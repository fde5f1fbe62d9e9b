// Package model はドメインモデルを定義する。
package model

// NewsRecord はニュースAPIが返す1件のニュースを表す。
// タイムスタンプはAPIが返した文字列のまま保持し、表示時に整形する。
// JSONのnullは空文字列として扱う。
type NewsRecord struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	URL             string `json:"url,omitempty"`
	PhotoURL        string `json:"photo_url,omitempty"`
	OriginCreatedAt string `json:"origin_created_at,omitempty"` // 元記事の公開日時
	InsertedAt      string `json:"inserted_at,omitempty"`       // システムへの取り込み日時（検索のみ）
}

// PaginationState はページ送りの状態を表す。
// Pagination Controllerだけが更新し、ページを再読み込みすると初期値に戻る。
type PaginationState struct {
	Page  int
	Query string // 検索のみ。空文字列はまだ検索していないことを示す
}

// FilterSet は検索フォームの入力値を表す。すべて任意項目。
type FilterSet struct {
	Text             string
	OriginDateFrom   string
	OriginDateTo     string
	InsertedDateFrom string
	InsertedDateTo   string
}

// IsEmpty はすべての項目が空の場合にtrueを返す。
func (f FilterSet) IsEmpty() bool {
	return f.Text == "" &&
		f.OriginDateFrom == "" && f.OriginDateTo == "" &&
		f.InsertedDateFrom == "" && f.InsertedDateTo == ""
}
