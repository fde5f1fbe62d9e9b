package pager

import (
	"context"

	"github.com/hitoshi/newsfront/internal/model"
)

// Source はページ送り状態に対応するページを取得する。
type Source interface {
	Fetch(ctx context.Context, st model.PaginationState) ([]model.NewsRecord, error)
}

// SourceFunc は関数をSourceとして扱うためのアダプタ。
type SourceFunc func(ctx context.Context, st model.PaginationState) ([]model.NewsRecord, error)

// Fetch はSourceインターフェースを実装する。
func (f SourceFunc) Fetch(ctx context.Context, st model.PaginationState) ([]model.NewsRecord, error) {
	return f(ctx, st)
}

// LatestFetcher は最新ニュースの取得元。newsapi.Clientが実装する。
type LatestFetcher interface {
	Latest(ctx context.Context, page int) ([]model.NewsRecord, error)
}

// SearchFetcher は検索結果の取得元。newsapi.Clientが実装する。
type SearchFetcher interface {
	Search(ctx context.Context, query string, page int) ([]model.NewsRecord, error)
}

// LatestSource は最新ニュース一覧のSourceを返す。
func LatestSource(f LatestFetcher) Source {
	return SourceFunc(func(ctx context.Context, st model.PaginationState) ([]model.NewsRecord, error) {
		return f.Latest(ctx, st.Page)
	})
}

// SearchSource は検索結果のSourceを返す。
func SearchSource(f SearchFetcher) Source {
	return SourceFunc(func(ctx context.Context, st model.PaginationState) ([]model.NewsRecord, error) {
		return f.Search(ctx, st.Query, st.Page)
	})
}
