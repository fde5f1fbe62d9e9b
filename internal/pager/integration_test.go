package pager_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/newsfront/internal/model"
	"github.com/hitoshi/newsfront/internal/newsapi"
	"github.com/hitoshi/newsfront/internal/pager"
)

type recordingView struct {
	rows     int
	loadMore bool
	empty    bool
}

func (v *recordingView) AppendRecords(records []model.NewsRecord) { v.rows += len(records) }
func (v *recordingView) ClearRecords()                            { v.rows = 0 }
func (v *recordingView) SetLoadMoreVisible(visible bool)          { v.loadMore = visible }
func (v *recordingView) SetEmptyState(empty bool)                 { v.empty = empty }

type recordingAlerter struct{ messages []string }

func (a *recordingAlerter) Alert(message string) { a.messages = append(a.messages, message) }

func writeRecords(w http.ResponseWriter, n int) {
	records := make([]model.NewsRecord, n)
	for i := range records {
		records[i] = model.NewsRecord{ID: int64(i + 1), Title: fmt.Sprintf("news %d", i+1)}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func newClient(t *testing.T, handler http.HandlerFunc) *newsapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return newsapi.NewClient(server.Client(), server.URL, logger, nil)
}

func TestEndToEnd_FeedTwoPages(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			writeRecords(w, 10)
		case "1":
			writeRecords(w, 3)
		default:
			http.NotFound(w, r)
		}
	})

	view := &recordingView{}
	alerter := &recordingAlerter{}
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	c := pager.NewController(pager.FeedConfig(10), pager.LatestSource(client), view, alerter, logger)

	if err := c.InitialLoad(context.Background()); err != nil {
		t.Fatalf("InitialLoad でエラー: %v", err)
	}
	if err := c.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore でエラー: %v", err)
	}

	if view.rows != 13 {
		t.Errorf("rows = %d, want 13", view.rows)
	}
	if view.loadMore {
		t.Error("「もっと読む」は非表示であるべきです")
	}
	if len(alerter.messages) != 0 {
		t.Errorf("アラートは表示されないべきです: %v", alerter.messages)
	}
}

func TestEndToEnd_SearchNotFound(t *testing.T) {
	var gotQuery string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		http.NotFound(w, r)
	})

	view := &recordingView{}
	alerter := &recordingAlerter{}
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	c := pager.NewController(pager.SearchConfig(50), pager.SearchSource(client), view, alerter, logger)

	if err := c.Submit(context.Background(), model.FilterSet{Text: "cats"}); err != nil {
		t.Fatalf("Submit でエラー: %v", err)
	}

	if gotQuery != "text=cats&page=1" {
		t.Errorf("query = %q, want %q", gotQuery, "text=cats&page=1")
	}
	if !view.empty {
		t.Error("該当なし表示になるべきです")
	}
	if len(alerter.messages) != 0 {
		t.Errorf("アラートは表示されないべきです: %v", alerter.messages)
	}
	if got := c.State().Page; got != 1 {
		t.Errorf("Page = %d, want 1", got)
	}
}

func TestEndToEnd_SearchLoadMoreServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writeRecords(w, 50)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	view := &recordingView{}
	alerter := &recordingAlerter{}
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	c := pager.NewController(pager.SearchConfig(50), pager.SearchSource(client), view, alerter, logger)

	if err := c.Submit(context.Background(), model.FilterSet{Text: "cats"}); err != nil {
		t.Fatalf("Submit でエラー: %v", err)
	}
	if err := c.LoadMore(context.Background()); err == nil {
		t.Fatal("エラーが返されるべきです")
	}

	if got := c.State().Page; got != 1 {
		t.Errorf("Page = %d, want 1", got)
	}
	if view.rows != 50 {
		t.Errorf("rows = %d, want 50", view.rows)
	}
	want := "Error fetching search results. Please try again."
	if len(alerter.messages) != 1 || alerter.messages[0] != want {
		t.Errorf("アラート = %v, want [%s]", alerter.messages, want)
	}
}
