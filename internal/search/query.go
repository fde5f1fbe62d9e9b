// Package search は検索フォームの入力値から検索APIのクエリ文字列を組み立てる。
package search

import (
	"errors"
	"net/url"
	"strings"

	"github.com/hitoshi/newsfront/internal/model"
)

// ErrNoFilter は検索条件が1つも指定されていないことを示す。
var ErrNoFilter = errors.New("search: at least one filter is required")

// フォームのフィールド名。クエリ文字列のキーと同一。
const (
	FieldText             = "text"
	FieldOriginDateFrom   = "origin_date_from"
	FieldOriginDateTo     = "origin_date_to"
	FieldInsertedDateFrom = "inserted_date_from"
	FieldInsertedDateTo   = "inserted_date_to"
)

// Fields はクエリ文字列に出力する順序でフィールド名を返す。
func Fields() []string {
	return []string{
		FieldText,
		FieldOriginDateFrom,
		FieldOriginDateTo,
		FieldInsertedDateFrom,
		FieldInsertedDateTo,
	}
}

// Build はFilterSetから検索APIのクエリ文字列を組み立てる。
// 空でない項目のみを固定順（text, origin_date_from, origin_date_to,
// inserted_date_from, inserted_date_to）でフォームエンコードする。
// url.Values.Encodeはキーをソートしてしまうため順序を保つよう自前で連結する。
// すべての項目が空の場合はErrNoFilterを返す。
func Build(f model.FilterSet) (string, error) {
	if f.IsEmpty() {
		return "", ErrNoFilter
	}

	values := valuesOf(f)
	var parts []string
	for _, key := range Fields() {
		v := values[key]
		if v == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
	}
	return strings.Join(parts, "&"), nil
}

// FromValues はURLクエリ（フォーム送信値）からFilterSetを生成する。
func FromValues(v url.Values) model.FilterSet {
	return model.FilterSet{
		Text:             v.Get(FieldText),
		OriginDateFrom:   v.Get(FieldOriginDateFrom),
		OriginDateTo:     v.Get(FieldOriginDateTo),
		InsertedDateFrom: v.Get(FieldInsertedDateFrom),
		InsertedDateTo:   v.Get(FieldInsertedDateTo),
	}
}

// Submitted はフォームが送信されたかどうかを判定する。
// フォームは空欄でも全フィールドを送信するため、キーの有無で判定する。
func Submitted(v url.Values) bool {
	for _, key := range Fields() {
		if _, ok := v[key]; ok {
			return true
		}
	}
	return false
}

// Values はFilterSetをフィールド名をキーとするマップに変換する。
func Values(f model.FilterSet) map[string]string {
	return valuesOf(f)
}

func valuesOf(f model.FilterSet) map[string]string {
	return map[string]string{
		FieldText:             f.Text,
		FieldOriginDateFrom:   f.OriginDateFrom,
		FieldOriginDateTo:     f.OriginDateTo,
		FieldInsertedDateFrom: f.InsertedDateFrom,
		FieldInsertedDateTo:   f.InsertedDateTo,
	}
}
