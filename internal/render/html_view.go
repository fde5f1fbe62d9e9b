package render

import (
	"fmt"
	"io"

	"github.com/hitoshi/newsfront/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLFeedView は最新ニュース一覧をHTML文書に描画する。
type HTMLFeedView struct {
	list     *html.Node
	loadMore *html.Node
	opts     Options
}

// NewHTMLFeedView はnews-listとload-more-btnを持つ文書からビューを生成する。
func NewHTMLFeedView(doc *Document, opts Options) (*HTMLFeedView, error) {
	list, err := doc.ByID(IDNewsList)
	if err != nil {
		return nil, err
	}
	loadMore, err := doc.ByID(IDLoadMore)
	if err != nil {
		return nil, err
	}
	return &HTMLFeedView{list: list, loadMore: loadMore, opts: opts.withDefaults()}, nil
}

// AppendRecords はカードを入力順に追記する。
func (v *HTMLFeedView) AppendRecords(records []model.NewsRecord) {
	for _, rec := range records {
		v.list.AppendChild(FeedCard(rec, v.opts))
	}
}

// ClearRecords は描画済みのカードを消去する。
func (v *HTMLFeedView) ClearRecords() {
	removeChildren(v.list)
}

// SetLoadMoreVisible は「もっと読む」の表示を切り替える。
func (v *HTMLFeedView) SetLoadMoreVisible(visible bool) {
	SetHidden(v.loadMore, !visible)
}

// SetEmptyState は何もしない。一覧には該当なし表示がない。
func (v *HTMLFeedView) SetEmptyState(bool) {}

// SetNextPage は「もっと読む」のリンク先を設定する。
func (v *HTMLFeedView) SetNextPage(href string) {
	SetHref(v.loadMore, href)
}

// HTMLSearchView は検索結果の表をHTML文書に描画する。
type HTMLSearchView struct {
	results  *html.Node
	table    *html.Node
	tbody    *html.Node
	empty    *html.Node
	loadMore *html.Node
	opts     Options
}

// NewHTMLSearchView は検索結果の要素一式を持つ文書からビューを生成する。
func NewHTMLSearchView(doc *Document, opts Options) (*HTMLSearchView, error) {
	v := &HTMLSearchView{opts: opts.withDefaults()}

	targets := []struct {
		id  string
		dst **html.Node
	}{
		{IDSearchResults, &v.results},
		{IDSearchResultsTable, &v.table},
		{IDSearchResultsEmpty, &v.empty},
		{IDSearchLoadMore, &v.loadMore},
	}
	for _, t := range targets {
		n, err := doc.ByID(t.id)
		if err != nil {
			return nil, err
		}
		*t.dst = n
	}

	v.tbody = findNode(v.table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Tbody
	})
	if v.tbody == nil {
		return nil, fmt.Errorf("%w: #%s tbody", ErrElementNotFound, IDSearchResultsTable)
	}
	return v, nil
}

// AppendRecords は行を入力順に追記する。
func (v *HTMLSearchView) AppendRecords(records []model.NewsRecord) {
	SetHidden(v.results, false)
	for _, rec := range records {
		v.tbody.AppendChild(TableRow(rec, v.opts))
	}
}

// ClearRecords は表の本体を空にし、検索結果の領域を非表示に戻す。
// 領域は次に行を追記するか該当なしを表示したときに再表示する。
func (v *HTMLSearchView) ClearRecords() {
	removeChildren(v.tbody)
	SetHidden(v.results, true)
}

// SetLoadMoreVisible は「もっと読む」の表示を切り替える。
func (v *HTMLSearchView) SetLoadMoreVisible(visible bool) {
	SetHidden(v.loadMore, !visible)
}

// SetEmptyState は表と該当なし表示のどちらか一方を表示する。
// 該当なしの場合は検索結果の領域も表示する。
func (v *HTMLSearchView) SetEmptyState(empty bool) {
	if empty {
		SetHidden(v.results, false)
	}
	SetHidden(v.table, empty)
	SetHidden(v.empty, !empty)
}

// SetNextPage は「もっと読む」のリンク先を設定する。
func (v *HTMLSearchView) SetNextPage(href string) {
	SetHref(v.loadMore, href)
}

// HTMLAlerter はalert要素にメッセージを表示する。
type HTMLAlerter struct {
	node *html.Node
}

// NewHTMLAlerter はalert要素を持つ文書からアラート表示を生成する。
func NewHTMLAlerter(doc *Document) (*HTMLAlerter, error) {
	n, err := doc.ByID(IDAlert)
	if err != nil {
		return nil, err
	}
	return &HTMLAlerter{node: n}, nil
}

// Alert はメッセージを段落として追加し、alert要素を表示する。
func (a *HTMLAlerter) Alert(message string) {
	a.node.AppendChild(textElement(atom.P, "", message))
	SetHidden(a.node, false)
}

// RenderRows は表の本体の行だけを書き出す。
func (v *HTMLSearchView) RenderRows(w io.Writer) error {
	for c := v.tbody.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}
