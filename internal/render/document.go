// Package render はニュース一覧・検索結果・About画面の描画を提供する。
//
// HTML向けには埋め込みのページ骨格をgolang.org/x/net/htmlで解析し、
// id属性で特定した要素にノードを追加する。ターミナル向けにはlipglossで
// カードと表の行を描画する。どちらも描画済みの行を削除せず、入力順に追記する。
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS はページ骨格が参照するスタイルシートを返す。パスはstatic配下からの相対になる。
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page は描画対象のページ骨格の種類。
type Page string

const (
	PageHome   Page = "home"
	PageSearch Page = "search"
	PageAbout  Page = "about"
)

// 画面の要素id。ページ骨格と描画処理が共有する。
const (
	IDNewsList           = "news-list"
	IDLoadMore           = "load-more-btn"
	IDSearchForm         = "search-form"
	IDSearchResults      = "search-results"
	IDSearchResultsTable = "search-results-table"
	IDSearchResultsEmpty = "search-results-empty"
	IDSearchLoadMore     = "search-load-more-btn"
	IDAlert              = "alert"
	IDAboutEN            = "about-en"
	IDAboutES            = "about-es"
	IDSwitchLang         = "switch-lang-btn"
)

// HiddenClass は非表示を表すクラス名。
const HiddenClass = "hidden"

// ErrElementNotFound は必要な要素がページ骨格に存在しないことを示す。
var ErrElementNotFound = errors.New("render: element not found")

// Document は解析済みのHTML文書。
type Document struct {
	root *html.Node
}

// NewDocument は埋め込みのページ骨格から文書を生成する。
func NewDocument(page Page) (*Document, error) {
	src, err := templateFS.ReadFile("templates/" + string(page) + ".html")
	if err != nil {
		return nil, fmt.Errorf("ページ骨格の読み込みに失敗しました(%s): %w", page, err)
	}
	return ParseDocument(bytes.NewReader(src))
}

// ParseDocument は任意のHTMLから文書を生成する。
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("HTMLの解析に失敗しました: %w", err)
	}
	return &Document{root: root}, nil
}

// ByID はid属性が一致する最初の要素を返す。
func (d *Document) ByID(id string) (*html.Node, error) {
	n := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if n == nil {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return n, nil
}

// Render は文書全体を書き出す。
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// RenderElements は指定したidの要素だけを順に書き出す。
// 「もっと読む」で返すHTMLフラグメントに使用する。
func (d *Document) RenderElements(w io.Writer, ids ...string) error {
	for _, id := range ids {
		n, err := d.ByID(id)
		if err != nil {
			return err
		}
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// RenderChildren は指定したidの要素の子ノードだけを書き出す。
func (d *Document) RenderChildren(w io.Writer, id string) error {
	n, err := d.ByID(id)
	if err != nil {
		return err
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// SetInputValue はフォーム内のname属性が一致するinputに値を設定する。
func (d *Document) SetInputValue(formID, name, value string) error {
	form, err := d.ByID(formID)
	if err != nil {
		return err
	}
	input := findNode(form, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Input && attr(n, "name") == name
	})
	if input == nil {
		return fmt.Errorf("%w: #%s input[name=%s]", ErrElementNotFound, formID, name)
	}
	setAttr(input, "value", value)
	return nil
}

// SetText は要素の子ノードを1つのテキストノードで置き換える。
func SetText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetHidden はhiddenクラスの付け外しで表示を切り替える。
func SetHidden(n *html.Node, hidden bool) {
	if hidden {
		addClass(n, HiddenClass)
	} else {
		removeClass(n, HiddenClass)
	}
}

// IsHidden は要素がhiddenクラスを持つかを返す。
func IsHidden(n *html.Node) bool {
	return hasClass(n, HiddenClass)
}

// SetHref はhref属性を設定する。
func SetHref(n *html.Node, href string) {
	setAttr(n, "href", href)
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classes(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(classes(n), class)
}

func addClass(n *html.Node, class string) {
	cs := classes(n)
	if slices.Contains(cs, class) {
		return
	}
	setAttr(n, "class", strings.Join(append(cs, class), " "))
}

func removeClass(n *html.Node, class string) {
	cs := slices.DeleteFunc(classes(n), func(c string) bool { return c == class })
	setAttr(n, "class", strings.Join(cs, " "))
}

// element は要素ノードを生成する。classesは空白区切りのクラス名。
func element(a atom.Atom, classes string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if classes != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: classes})
	}
	n.Attr = append(n.Attr, attrs...)
	return n
}

// textElement はテキストだけを持つ要素ノードを生成する。
func textElement(a atom.Atom, classes, text string) *html.Node {
	n := element(a, classes)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
