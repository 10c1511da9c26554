package dashboard

import (
	"net/http"
	"time"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

// ArticlesResponse is the JSON payload of the articles view.
type ArticlesResponse struct {
	Dataset    string                 `json:"dataset"`
	Notice     string                 `json:"notice,omitempty"`
	LoadedAt   time.Time              `json:"loaded_at,omitzero"`
	Filters    FilterState            `json:"filters"`
	Options    FilterOptions          `json:"options"`
	Page       PageInfo               `json:"page"`
	Articles   []domain.ArticleRecord `json:"articles"`
	PerDay     []dataset.DayCount     `json:"per_day"`
	TopAuthors []dataset.ValueCount   `json:"top_authors"`
}

// PageInfo describes the displayed page.
type PageInfo struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`

	PrevURL string `json:"-"`
	NextURL string `json:"-"`
}

type articlesViewData struct {
	ArticlesResponse
	Title      string
	Line       LineChart
	AuthorBars []Bar
}

func (h *Handler) handleArticles(w http.ResponseWriter, r *http.Request) (int, int) {
	if !allowRead(r) {
		return h.writeError(w, r, http.StatusMethodNotAllowed, errTitleMethodNotAllow, "Use GET."), 0
	}

	criteria, state, err := parseCriteria(r, paramAuthor)
	if err != nil {
		h.logger.Warn().Err(err).Str(logFieldRoute, routeArticles).Msg("dashboard validation failed")
		return h.writeError(w, r, http.StatusBadRequest, errTitleBadRequest, err.Error()), 0
	}

	snap := h.catalog.Articles.Get(r.Context())
	rows := snap.Table.Filter(criteria)

	size := h.cfg.ArticlesPageSize
	number := parsePage(r, dataset.TotalPages(len(rows), size))
	page := dataset.Paginate(rows, size, number)

	perDay := dataset.CountPerDay(rows)
	top := dataset.TopN(rows, func(a domain.ArticleRecord) string { return a.Authors }, h.cfg.ArticleTopAuthors)

	resp := ArticlesResponse{
		Dataset:    routeArticles,
		Notice:     noticeText(snap.Notice),
		LoadedAt:   snap.LoadedAt,
		Filters:    state,
		Options:    optionsFor(snap.Table),
		Page:       pageInfo(r, page),
		Articles:   page.Items,
		PerDay:     perDay,
		TopAuthors: top,
	}

	view := articlesViewData{
		ArticlesResponse: resp,
		Title:            "News Articles",
		Line:             buildLine(perDay),
		AuthorBars:       buildBars(top),
	}

	return h.respond(w, r, tmplArticles, resp, view), len(rows)
}

func pageInfo[R any](r *http.Request, page dataset.Page[R]) PageInfo {
	info := PageInfo{
		Number:     page.Number,
		Size:       page.Size,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
	}

	if page.Number > 1 {
		info.PrevURL = pageURL(r, page.Number-1)
	}

	if page.Number < page.TotalPages {
		info.NextURL = pageURL(r, page.Number+1)
	}

	return info
}
