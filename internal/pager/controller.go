// Package pager はニュース一覧と検索結果の「もっと読む」方式のページ送りを制御する。
//
// Controllerはページ番号と検索クエリの状態を所有し、次ページの取得、
// 結果の描画先（View）への追記、「もっと読む」の表示判定、失敗時の
// ページ番号の巻き戻しとアラート表示を行う。
package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/newsfront/internal/model"
	"github.com/hitoshi/newsfront/internal/search"
)

const (
	// DefaultFeedPageSize は最新ニュース一覧の1ページの件数。
	DefaultFeedPageSize = 10
	// DefaultSearchPageSize は検索結果の1ページの件数。
	DefaultSearchPageSize = 50
)

var (
	// ErrBusy は前回の取得が完了していないことを示す。
	ErrBusy = errors.New("pager: a request is already in flight")
	// ErrNoQuery は検索がまだ実行されていないことを示す。
	ErrNoQuery = errors.New("pager: no search has been submitted")
	// ErrInvalidState は復元しようとした状態が不正であることを示す。
	ErrInvalidState = errors.New("pager: invalid pagination state")
)

// Config はControllerの動作設定。
type Config struct {
	// InitialPage はページ番号の初期値。
	InitialPage int
	// PageSize は1ページの件数。取得件数がこれ未満なら最終ページとみなす。
	PageSize int
	// RequireQuery がtrueの場合、検索クエリなしでの取得を拒否する。
	RequireQuery bool
	// FailureError は取得失敗時にユーザーへ表示するエラーを返す。
	FailureError func() *model.APIError
}

// FeedConfig は最新ニュース一覧用の設定を返す。ページは0始まり。
func FeedConfig(pageSize int) Config {
	if pageSize <= 0 {
		pageSize = DefaultFeedPageSize
	}
	return Config{
		InitialPage:  0,
		PageSize:     pageSize,
		FailureError: model.NewLatestFetchFailedError,
	}
}

// SearchConfig は検索用の設定を返す。ページは1始まり。
func SearchConfig(pageSize int) Config {
	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}
	return Config{
		InitialPage:  1,
		PageSize:     pageSize,
		RequireQuery: true,
		FailureError: model.NewSearchFetchFailedError,
	}
}

// View は取得結果の描画先。結果行は追記のみで、既存の行は削除しない。
type View interface {
	// AppendRecords は結果行を入力順に追記する。
	AppendRecords(records []model.NewsRecord)
	// ClearRecords は描画済みの結果行をすべて消去する（新しい検索の送信時のみ）。
	ClearRecords()
	// SetLoadMoreVisible は「もっと読む」の表示を切り替える。
	SetLoadMoreVisible(visible bool)
	// SetEmptyState は「該当なし」表示を切り替える。
	SetEmptyState(empty bool)
}

// Alerter はユーザー向けのアラートを表示する。
type Alerter interface {
	Alert(message string)
}

// Controller はページ送りの状態機械。
// 同時に実行できる取得は1つだけで、実行中の操作はErrBusyで拒否する。
type Controller struct {
	cfg     Config
	source  Source
	view    View
	alerter Alerter
	logger  *slog.Logger

	mu      sync.Mutex
	state   model.PaginationState
	busy    bool
	hasMore bool
}

// NewController はControllerの新しいインスタンスを生成する。
func NewController(cfg Config, source Source, view View, alerter Alerter, logger *slog.Logger) *Controller {
	if cfg.FailureError == nil {
		cfg.FailureError = model.NewLatestFetchFailedError
	}
	return &Controller{
		cfg:     cfg,
		source:  source,
		view:    view,
		alerter: alerter,
		logger:  logger,
		state:   model.PaginationState{Page: cfg.InitialPage},
	}
}

// State は現在のページ送り状態を返す。
func (c *Controller) State() model.PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasMore は直近に取得したページが満杯だったかどうかを返す。
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Restore は外部で保持していた状態を復元する。
// リクエストごとにControllerを組み立てるHTMLフラグメントの配信で使用する。
func (c *Controller) Restore(st model.PaginationState) error {
	if st.Page < c.cfg.InitialPage {
		return fmt.Errorf("%w: page %d is before %d", ErrInvalidState, st.Page, c.cfg.InitialPage)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	c.state = st
	return nil
}

// Reset は状態を初期値に戻し、描画済みの結果を消去する。
// 他の操作と同じく実行中の取得があればErrBusyを返し、描画の更新中は他の操作を受け付けない。
func (c *Controller) Reset() error {
	if _, err := c.acquire(); err != nil {
		return err
	}
	defer c.release()

	c.mu.Lock()
	c.state = model.PaginationState{Page: c.cfg.InitialPage}
	c.hasMore = false
	c.mu.Unlock()

	c.view.ClearRecords()
	c.view.SetEmptyState(false)
	c.view.SetLoadMoreVisible(false)
	return nil
}

// InitialLoad は現在のページ番号で取得し、結果を描画する。
// 失敗時はアラートを表示し、ページ番号と描画内容は変更しない。
func (c *Controller) InitialLoad(ctx context.Context) error {
	st, err := c.acquire()
	if err != nil {
		return err
	}
	defer c.release()

	if c.cfg.RequireQuery && st.Query == "" {
		return ErrNoQuery
	}

	records, err := c.source.Fetch(ctx, st)
	if err != nil {
		return c.fail(st, err)
	}

	c.renderBatch(records)
	return nil
}

// Submit は新しい検索条件で検索を実行する。
// 条件がすべて空の場合はアラートを表示し、通信も状態変更も行わない。
// 送信のたびにページ番号を初期値に戻し、描画済みの結果を置き換える。
func (c *Controller) Submit(ctx context.Context, f model.FilterSet) error {
	prev, err := c.acquire()
	if err != nil {
		return err
	}
	defer c.release()

	query, err := search.Build(f)
	if err != nil {
		apiErr := model.NewNoFilterError()
		c.alerter.Alert(apiErr.Message)
		return fmt.Errorf("%w: %w", apiErr, err)
	}

	next := model.PaginationState{Page: c.cfg.InitialPage, Query: query}
	c.setState(next)

	records, err := c.source.Fetch(ctx, next)
	if err != nil {
		c.setState(prev)
		return c.fail(next, err)
	}

	c.view.ClearRecords()
	c.view.SetEmptyState(len(records) == 0)
	c.renderBatch(records)
	return nil
}

// LoadMore はページ番号を進めて次のページを取得し、結果を追記する。
// 失敗時はページ番号を元に戻すため、同じ操作で再試行できる。
func (c *Controller) LoadMore(ctx context.Context) error {
	prev, err := c.acquire()
	if err != nil {
		return err
	}
	defer c.release()

	if c.cfg.RequireQuery && prev.Query == "" {
		return ErrNoQuery
	}

	next := prev
	next.Page++
	c.setState(next)

	records, err := c.source.Fetch(ctx, next)
	if err != nil {
		c.setState(prev)
		return c.fail(next, err)
	}

	c.renderBatch(records)
	return nil
}

// renderBatch は取得したページを描画し、そのページの件数だけで「もっと読む」の表示を決める。
func (c *Controller) renderBatch(records []model.NewsRecord) {
	more := len(records) > 0 && len(records) >= c.cfg.PageSize

	if len(records) > 0 {
		c.view.AppendRecords(records)
	}
	c.view.SetLoadMoreVisible(more)

	c.mu.Lock()
	c.hasMore = more
	c.mu.Unlock()
}

// fail は取得失敗をログに記録してアラートを表示する。
func (c *Controller) fail(st model.PaginationState, cause error) error {
	apiErr := c.cfg.FailureError()

	c.logger.Warn("ページの取得に失敗しました",
		slog.Int("page", st.Page),
		slog.String("query", st.Query),
		slog.String("error", cause.Error()),
	)
	c.alerter.Alert(apiErr.Message)

	return fmt.Errorf("%w: %w", apiErr, cause)
}

func (c *Controller) acquire() (model.PaginationState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return model.PaginationState{}, ErrBusy
	}
	c.busy = true
	return c.state, nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) setState(st model.PaginationState) {
	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
}
