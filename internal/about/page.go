package about

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hitoshi/newsfront/internal/render"
)

// Page はAbout画面の文書と表示言語を保持する。
type Page struct {
	doc  *render.Document
	lang Lang
}

// NewPage は指定した言語を表示するAbout画面を生成する。
func NewPage(lang Lang) (*Page, error) {
	doc, err := render.NewDocument(render.PageAbout)
	if err != nil {
		return nil, err
	}
	p := &Page{doc: doc}
	if err := p.Show(lang); err != nil {
		return nil, err
	}
	return p, nil
}

// Show は指定した言語の本文だけを表示し、切り替えボタンを更新する。
// ボタンのリンク先はもう一方の言語の表示になる。
func (p *Page) Show(lang Lang) error {
	en, err := p.doc.ByID(render.IDAboutEN)
	if err != nil {
		return err
	}
	es, err := p.doc.ByID(render.IDAboutES)
	if err != nil {
		return err
	}
	btn, err := p.doc.ByID(render.IDSwitchLang)
	if err != nil {
		return err
	}

	render.SetHidden(en, lang != EN)
	render.SetHidden(es, lang != ES)
	render.SetText(btn, lang.ButtonLabel())
	render.SetHref(btn, "/about?lang="+string(lang.Toggle()))

	p.lang = lang
	return nil
}

// Lang は表示中の言語を返す。
func (p *Page) Lang() Lang {
	return p.lang
}

// Document は描画対象の文書を返す。
func (p *Page) Document() *render.Document {
	return p.doc
}

// Text は指定した言語の本文をプレーンテキストで返す。見出しと段落は改行で区切る。
func (p *Page) Text(lang Lang) (string, error) {
	var buf bytes.Buffer
	if err := p.doc.Render(&buf); err != nil {
		return "", err
	}
	gq, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("About画面の解析に失敗しました: %w", err)
	}

	section := gq.Find("#" + lang.SectionID())
	if section.Length() == 0 {
		return "", fmt.Errorf("%w: #%s", render.ErrElementNotFound, lang.SectionID())
	}

	var lines []string
	section.Find("h1, h2, p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n"), nil
}
