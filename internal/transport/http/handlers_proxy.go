package httptransport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ZafarDakhnairi/iGameDB/internal/catalog"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/httputil"
)

func (h *Handler) handleGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := catalog.GamesQuery{
		Page:     intParam(q.Get("page")),
		PageSize: intParam(q.Get("pageSize")),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}
	if genres := q.Get("genres"); genres != "" {
		query.Genres = strings.Split(genres, ",")
	}
	if platforms := q.Get("platforms"); platforms != "" {
		query.Platforms = strings.Split(platforms, ",")
	}

	page, err := h.catalog.ListGames(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	pageSize := intParam(r.URL.Query().Get("pageSize"))
	articles := h.news.LatestArticles(r.Context(), pageSize)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

func intParam(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
