package handler

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsfront/internal/about"
	"github.com/hitoshi/newsfront/internal/middleware"
	"github.com/hitoshi/newsfront/internal/model"
)

// AboutHandler はAboutページのHTTPハンドラー。
type AboutHandler struct {
	logger *slog.Logger
}

// NewAboutHandler はAboutHandlerを生成する。
func NewAboutHandler(logger *slog.Logger) *AboutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AboutHandler{logger: logger}
}

// About はlangで指定した言語の説明を表示したAboutページを返す。
// 切り替えボタンのリンク先はもう一方の言語になる。
// GET /about?lang=en|es
func (h *AboutHandler) About(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("lang")
	lang, err := about.ParseLang(raw)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidLangError(raw))
		return
	}

	page, err := about.NewPage(lang)
	if err != nil {
		h.logger.Error("Aboutページの描画に失敗しました",
			slog.String("lang", string(lang)),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Document().Render(w); err != nil {
		h.logger.Error("Aboutページの書き込みに失敗しました", slog.String("error", err.Error()))
	}
}
