package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/newsfront/internal/middleware"
	"github.com/hitoshi/newsfront/internal/model"
	"github.com/hitoshi/newsfront/internal/pager"
	"github.com/hitoshi/newsfront/internal/render"
	"github.com/hitoshi/newsfront/internal/search"
)

const (
	homePath   = "/"
	searchPath = "/search"

	// maxReplayPages は1回のページ表示で読み込み直すページ数の上限。
	maxReplayPages = 50
)

// NewsServiceInterface はニュースハンドラーが必要とするニュースAPIの操作。
// newsapi.Clientが実装する。
type NewsServiceInterface interface {
	pager.LatestFetcher
	pager.SearchFetcher
}

// NewsHandlerConfig はニュースハンドラーの設定。
type NewsHandlerConfig struct {
	FeedPageSize   int
	SearchPageSize int
	Render         render.Options
}

// NewsHandler は最新ニュース一覧と検索のHTTPハンドラー。
// リクエストごとにページ送りのControllerを生成し、ページ番号はリンク先のURLで引き継ぐ。
// 「もっと読む」のリンク先はページ全体のURLで、初回ページから指定ページまでを
// 1つの文書に積み上げて返す。
type NewsHandler struct {
	service NewsServiceInterface
	config  NewsHandlerConfig
	logger  *slog.Logger
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface, config NewsHandlerConfig, logger *slog.Logger) *NewsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsHandler{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Home はトップページを返す。最新ニュースの初回ページから指定ページまでを描画済みで返す。
// GET /?page={n}
func (h *NewsHandler) Home(w http.ResponseWriter, r *http.Request) {
	cfg := pager.FeedConfig(h.config.FeedPageSize)
	page, apiErr := parseReplayPage(r, cfg.InitialPage)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	doc, view, alerter, err := h.feedDocument()
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	ctrl := h.feedController(view, alerter)
	if err := ctrl.InitialLoad(r.Context()); err != nil {
		view.SetNextPage(homeLink(cfg.InitialPage))
	} else {
		replay(r.Context(), ctrl, page)
		view.SetNextPage(homeLink(ctrl.State().Page + 1))
	}

	// 取得失敗はalert要素で伝えるため、ページ自体は200で返す
	h.writeHTML(w, r, http.StatusOK, doc.Render)
}

// LatestFragment は最新ニュースの指定ページをHTMLフラグメントで返す。
// GET /fragments/latest?page={n}
//
// レスポンスは追記するカード、「もっと読む」ボタン、alert要素の順に並ぶ。
// ボタンのリンク先はトップページのURLになる。
func (h *NewsHandler) LatestFragment(w http.ResponseWriter, r *http.Request) {
	cfg := pager.FeedConfig(h.config.FeedPageSize)
	page, apiErr := parsePage(r, cfg.InitialPage)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	doc, view, alerter, err := h.feedDocument()
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	ctrl := h.feedController(view, alerter)
	loadErr := loadPage(r.Context(), ctrl, cfg.InitialPage, model.PaginationState{Page: page})
	if errors.Is(loadErr, pager.ErrBusy) {
		middleware.WriteErrorResponse(w, http.StatusConflict, model.NewRequestInFlightError())
		return
	}
	view.SetNextPage(homeLink(nextPage(page, loadErr)))

	h.writeHTML(w, r, fragmentStatus(loadErr), func(out io.Writer) error {
		if err := doc.RenderChildren(out, render.IDNewsList); err != nil {
			return err
		}
		return doc.RenderElements(out, render.IDLoadMore, render.IDAlert)
	})
}

// Search は検索ページを返す。検索条件のキーが1つでもあれば検索を実行し、
// 1ページ目から指定ページまでを描画済みで返す。
// GET /search?text=...&origin_date_from=...&page={n}
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	cfg := pager.SearchConfig(h.config.SearchPageSize)
	page, apiErr := parseReplayPage(r, cfg.InitialPage)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	doc, view, alerter, err := h.searchDocument()
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	values := r.URL.Query()
	if search.Submitted(values) {
		filters := search.FromValues(values)
		for name, value := range search.Values(filters) {
			if err := doc.SetInputValue(render.IDSearchForm, name, value); err != nil {
				h.internalError(w, r, err)
				return
			}
		}

		ctrl := h.searchController(view, alerter)
		if err := ctrl.Reset(); err != nil {
			h.internalError(w, r, err)
			return
		}
		if err := ctrl.Submit(r.Context(), filters); err == nil {
			replay(r.Context(), ctrl, page)
			st := ctrl.State()
			view.SetNextPage(searchLink(st.Query, st.Page+1))
		}
	}

	h.writeHTML(w, r, http.StatusOK, doc.Render)
}

// SearchFragment は検索結果の指定ページをHTMLフラグメントで返す。
// GET /fragments/search?{query}&page={n}
//
// レスポンスは追記する表の行、「もっと読む」ボタン、alert要素の順に並ぶ。
// ボタンのリンク先は検索ページのURLになる。
func (h *NewsHandler) SearchFragment(w http.ResponseWriter, r *http.Request) {
	cfg := pager.SearchConfig(h.config.SearchPageSize)
	page, apiErr := parsePage(r, cfg.InitialPage)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	query, err := search.Build(search.FromValues(r.URL.Query()))
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewNoFilterError())
		return
	}

	doc, view, alerter, err := h.searchDocument()
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	ctrl := h.searchController(view, alerter)
	loadErr := loadPage(r.Context(), ctrl, cfg.InitialPage, model.PaginationState{Page: page, Query: query})
	if errors.Is(loadErr, pager.ErrBusy) {
		middleware.WriteErrorResponse(w, http.StatusConflict, model.NewRequestInFlightError())
		return
	}
	view.SetNextPage(searchLink(query, nextPage(page, loadErr)))

	h.writeHTML(w, r, fragmentStatus(loadErr), func(out io.Writer) error {
		if err := view.RenderRows(out); err != nil {
			return err
		}
		return doc.RenderElements(out, render.IDSearchLoadMore, render.IDAlert)
	})
}

func (h *NewsHandler) feedDocument() (*render.Document, *render.HTMLFeedView, *render.HTMLAlerter, error) {
	doc, err := render.NewDocument(render.PageHome)
	if err != nil {
		return nil, nil, nil, err
	}
	view, err := render.NewHTMLFeedView(doc, h.config.Render)
	if err != nil {
		return nil, nil, nil, err
	}
	alerter, err := render.NewHTMLAlerter(doc)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, view, alerter, nil
}

func (h *NewsHandler) searchDocument() (*render.Document, *render.HTMLSearchView, *render.HTMLAlerter, error) {
	doc, err := render.NewDocument(render.PageSearch)
	if err != nil {
		return nil, nil, nil, err
	}
	view, err := render.NewHTMLSearchView(doc, h.config.Render)
	if err != nil {
		return nil, nil, nil, err
	}
	alerter, err := render.NewHTMLAlerter(doc)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, view, alerter, nil
}

func (h *NewsHandler) feedController(view pager.View, alerter pager.Alerter) *pager.Controller {
	cfg := pager.FeedConfig(h.config.FeedPageSize)
	return pager.NewController(cfg, pager.LatestSource(h.service), view, alerter, h.logger)
}

func (h *NewsHandler) searchController(view pager.View, alerter pager.Alerter) *pager.Controller {
	cfg := pager.SearchConfig(h.config.SearchPageSize)
	return pager.NewController(cfg, pager.SearchSource(h.service), view, alerter, h.logger)
}

func (h *NewsHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("ページの描画に失敗しました",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// writeHTML は描画結果をバッファに書き出してから送信する。
// 描画に失敗した場合は途中までのHTMLを送らずに500を返す。
func (h *NewsHandler) writeHTML(w http.ResponseWriter, r *http.Request, status int, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// loadPage は指定ページを取得して描画する。
// 初回ページはInitialLoad、それ以降は前ページの状態を復元してからLoadMoreで取得する。
func loadPage(ctx context.Context, ctrl *pager.Controller, initialPage int, st model.PaginationState) error {
	if st.Page == initialPage {
		if err := ctrl.Restore(st); err != nil {
			return err
		}
		return ctrl.InitialLoad(ctx)
	}
	prev := st
	prev.Page--
	if err := ctrl.Restore(prev); err != nil {
		return err
	}
	return ctrl.LoadMore(ctx)
}

// replay は読み込み済みのページに続けて、targetページまで次ページを追記する。
// 次のページがない場合と取得に失敗した場合はそこで止める。
// 失敗したページは状態が戻るため、次のリンク先として再取得できる。
func replay(ctx context.Context, ctrl *pager.Controller, target int) {
	for ctrl.State().Page < target && ctrl.HasMore() {
		if err := ctrl.LoadMore(ctx); err != nil {
			return
		}
	}
}

// nextPage は「もっと読む」のリンク先のページ番号を返す。
// 取得に失敗した場合は同じページを再取得させる。
func nextPage(page int, loadErr error) int {
	if loadErr != nil {
		return page
	}
	return page + 1
}

// fragmentStatus はフラグメント取得結果のHTTPステータスを返す。
func fragmentStatus(loadErr error) int {
	switch {
	case loadErr == nil:
		return http.StatusOK
	case errors.Is(loadErr, pager.ErrInvalidState), errors.Is(loadErr, search.ErrNoFilter):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// parsePage はpageクエリパラメータを解析する。省略時はminPageを返す。
func parsePage(r *http.Request, minPage int) (int, *model.APIError) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return minPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < minPage {
		return 0, model.NewInvalidPageError(raw)
	}
	return page, nil
}

// parseReplayPage はページ表示のpageクエリパラメータを解析する。
// 読み込み直すページ数が上限を超える場合は不正なページとして扱う。
func parseReplayPage(r *http.Request, initialPage int) (int, *model.APIError) {
	page, apiErr := parsePage(r, initialPage)
	if apiErr != nil {
		return 0, apiErr
	}
	if page-initialPage >= maxReplayPages {
		return 0, model.NewInvalidPageError(r.URL.Query().Get("page"))
	}
	return page, nil
}

// homeLink はトップページを指定ページまで表示するURLを返す。
func homeLink(page int) string {
	return homePath + "?page=" + strconv.Itoa(page)
}

// searchLink は検索ページを指定ページまで表示するURLを返す。
func searchLink(query string, page int) string {
	q := "page=" + strconv.Itoa(page)
	if query != "" {
		q = query + "&" + q
	}
	return searchPath + "?" + q
}
