package render

import (
	"strconv"
	"time"

	"github.com/hitoshi/newsfront/internal/datetime"
	"github.com/hitoshi/newsfront/internal/model"
	"github.com/hitoshi/newsfront/internal/security"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultPlaceholderImage は写真のないニュースに表示する画像のパス。
const DefaultPlaceholderImage = "/static/img/news_placeholder.jpg"

// Options は1件のニュースの描画設定。
type Options struct {
	// Location は日時の表示タイムゾーン。nilの場合はtime.Local。
	Location *time.Location
	// Placeholder は写真のないニュースの代替画像。空の場合はDefaultPlaceholderImage。
	Placeholder string
	// Sanitizer は本文と画像URLの無害化に使用する。nilの場合は既定の実装。
	Sanitizer security.TextSanitizerService
	// LinkBase はターミナル表示で詳細ページのパスの前に付けるオリジン。
	LinkBase string
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholderImage
	}
	if o.Sanitizer == nil {
		o.Sanitizer = security.NewTextSanitizer()
	}
	return o
}

// NewsPath はニュース詳細ページのパスを返す。
func NewsPath(id int64) string {
	return "/news/" + strconv.FormatInt(id, 10)
}

// imageSource は表示する画像URLを返す。写真がない場合や不正なURLの場合は代替画像。
func (o Options) imageSource(photoURL string) string {
	if src, ok := o.Sanitizer.ImageURL(photoURL); ok {
		return src
	}
	return o.Placeholder
}

// FeedCard は最新ニュース一覧の1件分のカードを生成する。
// カード全体が詳細ページへのリンクになる。
func FeedCard(rec model.NewsRecord, opts Options) *html.Node {
	opts = opts.withDefaults()

	anchor := element(atom.A,
		"flex flex-row gap-2 max-w-3xl mx-auto py-4 px-4 "+
			"border-2 border-t-transparent border-x-transparent border-b-slate-600 "+
			"last:border-0 hover:bg-slate-800 hover:border-sky-200",
		html.Attribute{Key: "href", Val: NewsPath(rec.ID)},
		html.Attribute{Key: "style", Val: "cursor: pointer;"},
	)

	imgDiv := element(atom.Div, "w-50 my-auto flex-shrink-0")
	imgDiv.AppendChild(element(atom.Img, "w-full h-auto mb-4 rounded-lg shadow-md",
		html.Attribute{Key: "src", Val: opts.imageSource(rec.PhotoURL)},
		html.Attribute{Key: "alt", Val: "News Image"},
	))
	anchor.AppendChild(imgDiv)

	info := element(atom.Div, "")
	info.AppendChild(textElement(atom.H1, "space-y-2 text-xl font-semibold", rec.Title))
	info.AppendChild(textElement(atom.H2, "text-sm text-slate-400 mb-2", datetime.Format(rec.OriginCreatedAt, opts.Location)))
	info.AppendChild(textElement(atom.P, "space-y-2", opts.Sanitizer.PlainText(rec.Content)))
	anchor.AppendChild(info)

	return anchor
}

// TableRow は検索結果の表の1行を生成する。
// タイトルは新しいタブで詳細ページを開くリンクになる。
func TableRow(rec model.NewsRecord, opts Options) *html.Node {
	opts = opts.withDefaults()
	const cellClass = "p-2 border-b border-slate-600"

	tr := element(atom.Tr, "")

	titleCell := element(atom.Td, cellClass+" hover:underline")
	link := textElement(atom.A, "text-blue-500 hover:underline", rec.Title)
	link.Attr = append(link.Attr,
		html.Attribute{Key: "href", Val: NewsPath(rec.ID)},
		html.Attribute{Key: "target", Val: "_blank"},
	)
	titleCell.AppendChild(link)
	tr.AppendChild(titleCell)

	tr.AppendChild(textElement(atom.Td, cellClass, datetime.Format(rec.OriginCreatedAt, opts.Location)))
	tr.AppendChild(textElement(atom.Td, cellClass, datetime.Format(rec.InsertedAt, opts.Location)))

	return tr
}
