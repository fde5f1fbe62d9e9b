package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hitoshi/newsfront/internal/datetime"
	"github.com/hitoshi/newsfront/internal/model"
)

const (
	cardWidth       = 80
	snippetMaxWidth = 280

	titleColumnWidth = 48
	dateColumnWidth  = 19
)

var (
	AccentColor = lipgloss.Color("#7DD3FC")
	MutedColor  = lipgloss.Color("#94A3B8")
	ErrorColor  = lipgloss.Color("#F87171")

	TitleStyle  = lipgloss.NewStyle().Bold(true)
	DateStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	LinkStyle   = lipgloss.NewStyle().Foreground(AccentColor).Underline(true)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	HelpStyle   = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	CardStyle = lipgloss.NewStyle().
			Width(cardWidth).
			PaddingLeft(2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(MutedColor)
)

// TerminalFeedView は最新ニュース一覧をカード形式でターミナルに書き出す。
type TerminalFeedView struct {
	w    io.Writer
	opts Options
	rows int
}

// NewTerminalFeedView はTerminalFeedViewの新しいインスタンスを生成する。
func NewTerminalFeedView(w io.Writer, opts Options) *TerminalFeedView {
	return &TerminalFeedView{w: w, opts: opts.withDefaults()}
}

// AppendRecords はカードを入力順に書き出す。
func (v *TerminalFeedView) AppendRecords(records []model.NewsRecord) {
	for _, rec := range records {
		fmt.Fprintln(v.w, TerminalCard(rec, v.opts))
		v.rows++
	}
}

// ClearRecords は件数を初期化する。書き出し済みの出力は消せない。
func (v *TerminalFeedView) ClearRecords() { v.rows = 0 }

// SetLoadMoreVisible は何もしない。続きの読み込みは確認プロンプトで尋ねる。
func (v *TerminalFeedView) SetLoadMoreVisible(bool) {}

// SetEmptyState は何もしない。
func (v *TerminalFeedView) SetEmptyState(bool) {}

// Rows は書き出したカードの件数を返す。
func (v *TerminalFeedView) Rows() int { return v.rows }

// TerminalCard は1件分のカードを文字列で返す。
func TerminalCard(rec model.NewsRecord, opts Options) string {
	opts = opts.withDefaults()

	lines := []string{
		TitleStyle.Render(rec.Title),
		DateStyle.Render(datetime.Format(rec.OriginCreatedAt, opts.Location)),
	}
	if snippet := truncate(opts.Sanitizer.PlainText(rec.Content), snippetMaxWidth); snippet != "" {
		lines = append(lines, snippet)
	}
	lines = append(lines, LinkStyle.Render(opts.LinkBase+NewsPath(rec.ID)))

	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// TerminalSearchView は検索結果を固定幅の表としてターミナルに書き出す。
type TerminalSearchView struct {
	w          io.Writer
	opts       Options
	empty      bool
	rows       int
	headerDone bool
}

// NewTerminalSearchView はTerminalSearchViewの新しいインスタンスを生成する。
func NewTerminalSearchView(w io.Writer, opts Options) *TerminalSearchView {
	return &TerminalSearchView{w: w, opts: opts.withDefaults()}
}

// AppendRecords は行を入力順に書き出す。最初の行の前に見出しを出す。
func (v *TerminalSearchView) AppendRecords(records []model.NewsRecord) {
	if len(records) == 0 {
		return
	}
	if !v.headerDone {
		fmt.Fprintln(v.w, HeaderStyle.Render(tableLine("Título", "Fecha de origen", "Fecha de inserción")))
		v.headerDone = true
	}
	for _, rec := range records {
		fmt.Fprintln(v.w, TerminalRow(rec, v.opts))
		v.rows++
	}
}

// ClearRecords は新しい検索の開始として件数と見出しの状態を初期化する。
func (v *TerminalSearchView) ClearRecords() {
	v.rows = 0
	v.headerDone = false
}

// SetLoadMoreVisible は何もしない。続きの読み込みは確認プロンプトで尋ねる。
func (v *TerminalSearchView) SetLoadMoreVisible(bool) {}

// SetEmptyState は該当なしの場合にその旨を書き出す。
func (v *TerminalSearchView) SetEmptyState(empty bool) {
	v.empty = empty
	if empty {
		fmt.Fprintln(v.w, HelpStyle.Render("No se encontraron resultados."))
	}
}

// Empty は直近の検索が該当なしだったかを返す。
func (v *TerminalSearchView) Empty() bool { return v.empty }

// Rows は書き出した行数を返す。
func (v *TerminalSearchView) Rows() int { return v.rows }

// TerminalRow は検索結果の1行を文字列で返す。
func TerminalRow(rec model.NewsRecord, opts Options) string {
	opts = opts.withDefaults()
	return tableLine(
		rec.Title,
		datetime.Format(rec.OriginCreatedAt, opts.Location),
		datetime.Format(rec.InsertedAt, opts.Location),
	)
}

func tableLine(title, origin, inserted string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(titleColumnWidth+2).Render(truncate(title, titleColumnWidth)),
		lipgloss.NewStyle().Width(dateColumnWidth+2).Render(truncate(origin, dateColumnWidth)),
		truncate(inserted, dateColumnWidth),
	)
}

// TerminalAlerter はアラートをターミナルに書き出す。
type TerminalAlerter struct {
	w io.Writer
}

// NewTerminalAlerter はTerminalAlerterの新しいインスタンスを生成する。
func NewTerminalAlerter(w io.Writer) *TerminalAlerter {
	return &TerminalAlerter{w: w}
}

// Alert はメッセージを書き出す。
func (a *TerminalAlerter) Alert(message string) {
	fmt.Fprintln(a.w, ErrorStyle.Render("! "+message))
}

// truncate は表示幅がwidthを超える文字列を末尾に「…」を付けて切り詰める。
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}
