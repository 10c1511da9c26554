package dashboard

import (
	"net/http"
	"time"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

// VideosResponse is the JSON payload of the videos view.
type VideosResponse struct {
	Dataset     string               `json:"dataset"`
	Notice      string               `json:"notice,omitempty"`
	LoadedAt    time.Time            `json:"loaded_at,omitzero"`
	Filters     FilterState          `json:"filters"`
	Options     FilterOptions        `json:"options"`
	Total       int                  `json:"total"`
	Truncated   bool                 `json:"truncated"`
	Videos      []domain.VideoRecord `json:"videos"`
	Scatter     []ScatterPoint       `json:"scatter"`
	TopChannels []dataset.ValueCount `json:"top_channels"`
	Previews    []VideoPreview       `json:"previews"`
}

// VideoPreview is a thumbnail card of the trending preview strip.
type VideoPreview struct {
	VideoID       string   `json:"video_id"`
	Title         string   `json:"title"`
	Channel       string   `json:"channel_title"`
	ThumbnailLink string   `json:"thumbnail_link"`
	Tags          []string `json:"tags,omitempty"`
}

type videosViewData struct {
	VideosResponse
	Title       string
	Chart       ScatterChart
	ChannelBars []Bar
}

func (h *Handler) handleVideos(w http.ResponseWriter, r *http.Request) (int, int) {
	if !allowRead(r) {
		return h.writeError(w, r, http.StatusMethodNotAllowed, errTitleMethodNotAllow, "Use GET."), 0
	}

	criteria, state, err := parseCriteria(r, paramChannel)
	if err != nil {
		h.logger.Warn().Err(err).Str(logFieldRoute, routeVideos).Msg("dashboard validation failed")
		return h.writeError(w, r, http.StatusBadRequest, errTitleBadRequest, err.Error()), 0
	}

	snap := h.catalog.Videos.Get(r.Context())
	rows := snap.Table.Filter(criteria)

	chart := buildScatter(rows)
	top := dataset.TopN(rows, func(v domain.VideoRecord) string { return v.Channel }, h.cfg.VideoTopChannels)

	shown := rows
	if len(shown) > h.cfg.VideoTableLimit {
		shown = shown[:h.cfg.VideoTableLimit]
	}

	resp := VideosResponse{
		Dataset:     routeVideos,
		Notice:      noticeText(snap.Notice),
		LoadedAt:    snap.LoadedAt,
		Filters:     state,
		Options:     optionsFor(snap.Table),
		Total:       len(rows),
		Truncated:   len(shown) < len(rows),
		Videos:      shown,
		Scatter:     chart.Points,
		TopChannels: top,
		Previews:    buildPreviews(rows, h.cfg.PreviewCount),
	}

	view := videosViewData{
		VideosResponse: resp,
		Title:          "Videos",
		Chart:          chart,
		ChannelBars:    buildBars(top),
	}

	return h.respond(w, r, tmplVideos, resp, view), len(rows)
}

func buildPreviews(rows []domain.VideoRecord, n int) []VideoPreview {
	n = min(n, len(rows))
	previews := make([]VideoPreview, 0, n)

	for _, v := range rows[:n] {
		previews = append(previews, VideoPreview{
			VideoID:       v.ID,
			Title:         v.Title,
			Channel:       v.Channel,
			ThumbnailLink: v.ThumbnailLink,
			Tags:          v.TagList(),
		})
	}

	return previews
}
