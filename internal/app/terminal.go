package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hitoshi/newsfront/internal/about"
	"github.com/hitoshi/newsfront/internal/config"
	"github.com/hitoshi/newsfront/internal/model"
	"github.com/hitoshi/newsfront/internal/pager"
	"github.com/hitoshi/newsfront/internal/render"
)

const (
	loadMorePrompt   = "Load more?"
	switchLangPrompt = "Switch language?"
)

// prompter は標準入力からyes/noの回答を読み取る。
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// confirm は質問を表示し、yまたはyesが入力された場合にtrueを返す。
// 入力の終端に達した場合はfalseを返す。
func (p *prompter) confirm(question string) bool {
	fmt.Fprint(p.out, render.HelpStyle.Render(question+" [y/N] "))
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// terminalSession はターミナル向けコマンドの描画先と入力元をまとめる。
type terminalSession struct {
	out    io.Writer
	prompt *prompter
	opts   render.Options
	cfg    *config.Config
}

func newTerminalSession(cfg *config.Config, out io.Writer, in io.Reader) *terminalSession {
	return &terminalSession{
		out:    out,
		prompt: newPrompter(in, out),
		opts:   renderOptions(cfg),
		cfg:    cfg,
	}
}

// runHome は最新ニュース一覧をカード形式で表示する。
//
//	newsfront home [-pages N]
func (s *terminalSession) runHome(ctx context.Context, client pager.LatestFetcher, args []string) error {
	fs := flag.NewFlagSet(string(CommandHome), flag.ContinueOnError)
	fs.SetOutput(s.out)
	pages := fs.Int("pages", 0, "確認なしで読み込むページ数（0の場合は1ページごとに確認する）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := render.NewTerminalFeedView(s.out, s.opts)
	ctrl := pager.NewController(
		pager.FeedConfig(s.cfg.FeedPageSize),
		pager.LatestSource(client),
		view,
		render.NewTerminalAlerter(s.out),
		slog.Default(),
	)

	if err := ctrl.InitialLoad(ctx); err != nil {
		return err
	}
	if err := s.paginate(ctx, ctrl, *pages); err != nil {
		return err
	}
	s.summary(fmt.Sprintf("%d noticias", view.Rows()))
	return nil
}

// runSearch は検索条件に一致するニュースを表形式で表示する。
//
//	newsfront search -text cats [-origin-from 2024-01-01] [-pages N]
func (s *terminalSession) runSearch(ctx context.Context, client pager.SearchFetcher, args []string) error {
	fs := flag.NewFlagSet(string(CommandSearch), flag.ContinueOnError)
	fs.SetOutput(s.out)
	var filters model.FilterSet
	fs.StringVar(&filters.Text, "text", "", "本文・タイトルの検索文字列")
	fs.StringVar(&filters.OriginDateFrom, "origin-from", "", "元記事の公開日（開始）")
	fs.StringVar(&filters.OriginDateTo, "origin-to", "", "元記事の公開日（終了）")
	fs.StringVar(&filters.InsertedDateFrom, "inserted-from", "", "取り込み日（開始）")
	fs.StringVar(&filters.InsertedDateTo, "inserted-to", "", "取り込み日（終了）")
	pages := fs.Int("pages", 0, "確認なしで読み込むページ数（0の場合は1ページごとに確認する）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := render.NewTerminalSearchView(s.out, s.opts)
	ctrl := pager.NewController(
		pager.SearchConfig(s.cfg.SearchPageSize),
		pager.SearchSource(client),
		view,
		render.NewTerminalAlerter(s.out),
		slog.Default(),
	)

	if err := ctrl.Submit(ctx, filters); err != nil {
		return err
	}
	if err := s.paginate(ctx, ctrl, *pages); err != nil {
		return err
	}
	// 該当なしの場合は既に文言を表示している
	if !view.Empty() {
		s.summary(fmt.Sprintf("%d resultados", view.Rows()))
	}
	return nil
}

// summary は読み込みを終えた件数を補足として表示する。
func (s *terminalSession) summary(text string) {
	fmt.Fprintln(s.out, render.HelpStyle.Render(text))
}

// paginate は次のページが残っている間、次ページを読み込む。
// pagesが正の場合は最初のページを含めてpagesページまで確認なしで読み込み、
// 0以下の場合は1ページごとに確認する。確認ありの場合は失敗しても再試行できる。
func (s *terminalSession) paginate(ctx context.Context, ctrl *pager.Controller, pages int) error {
	loaded := 1
	for ctrl.HasMore() {
		if pages > 0 {
			if loaded >= pages {
				return nil
			}
		} else if !s.prompt.confirm(loadMorePrompt) {
			return nil
		}

		err := ctrl.LoadMore(ctx)
		switch {
		case err == nil:
			loaded++
		case errors.Is(err, context.Canceled), pages > 0:
			return err
		}
	}
	return nil
}

// runAbout はAbout画面の本文を表示する。確認に応じて言語を切り替えて再表示する。
//
//	newsfront about [-lang en|es]
func runAbout(out io.Writer, in io.Reader, args []string) error {
	fs := flag.NewFlagSet(string(CommandAbout), flag.ContinueOnError)
	fs.SetOutput(out)
	langFlag := fs.String("lang", string(about.Default), "表示する言語（en または es）")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lang, err := about.ParseLang(*langFlag)
	if err != nil {
		return err
	}

	page, err := about.NewPage(lang)
	if err != nil {
		return err
	}

	toggler := &about.Toggler{}
	if toggler.Current() != page.Lang() {
		toggler.Switch()
	}

	prompt := newPrompter(in, out)
	for {
		text, err := page.Text(page.Lang())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		fmt.Fprintln(out)

		if !prompt.confirm(switchLangPrompt + " (" + page.Lang().ButtonLabel() + ")") {
			return nil
		}
		if err := page.Show(toggler.Switch()); err != nil {
			return err
		}
	}
}
