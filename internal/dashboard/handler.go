// Package dashboard serves the media analytics views as HTML pages and JSON.
//
// Every dataset view accepts the same filter parameters (category, the
// dataset's secondary dimension, from, to, q) and answers with HTML when the
// client asks for it (Accept: text/html or format=html), JSON otherwise.
package dashboard

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/media-dashboard/internal/catalog"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/platform/config"
)

const (
	maxBodyBytes = 1 << 16

	// Route path constants.
	routeVideos   = "videos"
	routeArticles = "articles"
	routeRefresh  = "refresh"

	// Error title constants.
	errTitleNotFound       = "Not Found"
	errTitleError          = "Error"
	errTitleMethodNotAllow = "Method Not Allowed"
	errTitleBadRequest     = "Bad Request"
	errTitleTooMany        = "Too Many Requests"

	// Content type constants.
	contentTypeHeader = "Content-Type"
	contentTypeHTML   = "text/html; charset=utf-8"
	contentTypeJSON   = "application/json; charset=utf-8"

	headerRequestID = "X-Request-ID"

	// Limiters idle for this long are dropped; see idleTTLFor.
	minLimiterIdleTTL = 10 * time.Minute

	// Template names.
	tmplIndex    = "index.html"
	tmplVideos   = "videos.html"
	tmplArticles = "articles.html"
	tmplError    = "error.html"

	// Log field names.
	logFieldRoute     = "route"
	logFieldRequestID = "request_id"
	logFieldClientIP  = "client_ip"

	errMsgRender = "Failed to render page."
)

// Handler serves the dashboard pages and API.
type Handler struct {
	cfg      *config.Config
	catalog  *catalog.Catalog
	renderer *Renderer
	logger   *zerolog.Logger
	now      func() time.Time

	// IP-based rate limiting
	limiters       map[string]*ipLimiter
	limitersMu     sync.Mutex
	limiterIdleTTL time.Duration
	lastPrune      time.Time
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewHandler creates a dashboard handler over the catalog.
func NewHandler(cfg *config.Config, cat *catalog.Catalog, logger *zerolog.Logger) (*Handler, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:            cfg,
		catalog:        cat,
		renderer:       renderer,
		logger:         logger,
		now:            time.Now,
		limiters:       make(map[string]*ipLimiter),
		limiterIdleTTL: idleTTLFor(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}, nil
}

// idleTTLFor is at least the time a limiter needs to refill its whole
// burst, so dropping an idle limiter never hands out extra tokens.
func idleTTLFor(rps float64, burst int) time.Duration {
	if rps <= 0 {
		return minLimiterIdleTTL
	}

	refill := time.Duration(float64(burst) / rps * float64(time.Second))

	return max(minLimiterIdleTTL, refill)
}

// ServeHTTP routes requests to dashboard endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := strings.TrimSpace(r.Header.Get(headerRequestID))
	if requestID == "" {
		requestID = uuid.NewString()
	}

	w.Header().Set(headerRequestID, requestID)
	w.Header().Set("Referrer-Policy", "no-referrer")

	clientIP := getClientIP(r, h.cfg.TrustProxyHeaders)
	if !h.allowRequest(clientIP) {
		rateLimitedTotal.Inc()
		h.logger.Debug().
			Err(apperrors.ErrRateLimited).
			Str(logFieldClientIP, clientIP).
			Str(logFieldRequestID, requestID).
			Msg("dashboard request rejected")

		status := h.writeError(w, r, http.StatusTooManyRequests, errTitleTooMany,
			apperrors.ErrRateLimited.Error()+": please wait before trying again.")
		h.recordMetrics("rate_limited", status, 0, start)

		return
	}

	route, status, resultSize := h.dispatch(w, r)

	h.recordMetrics(route, status, resultSize, start)
	h.logger.Debug().
		Str(logFieldRoute, route).
		Str(logFieldRequestID, requestID).
		Int("status", status).
		Int("result_size", resultSize).
		Dur("duration", time.Since(start)).
		Msg("dashboard request")
}

// dispatch handles route matching and dispatches to the appropriate handler.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) (route string, status int, resultSize int) {
	path := strings.Trim(r.URL.Path, "/")

	switch path {
	case "":
		return "index", h.handleIndex(w, r), 0
	case routeVideos:
		s, rs := h.handleVideos(w, r)
		return routeVideos, s, rs
	case routeArticles:
		s, rs := h.handleArticles(w, r)
		return routeArticles, s, rs
	case routeRefresh:
		return routeRefresh, h.handleRefresh(w, r), 0
	default:
		return "not_found", h.writeError(w, r, http.StatusNotFound, errTitleNotFound, "Unknown dashboard page."), 0
	}
}

// recordMetrics records request metrics.
func (h *Handler) recordMetrics(route string, status, resultSize int, start time.Time) {
	latencyHistogram.WithLabelValues(route).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

	if resultSize > 0 {
		resultSizeGauge.WithLabelValues(route).Set(float64(resultSize))
	}
}

// IndexResponse is the JSON payload of the landing page.
type IndexResponse struct {
	Title    string           `json:"title"`
	Now      time.Time        `json:"now"`
	Datasets []catalog.Status `json:"datasets"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return h.writeError(w, r, http.StatusMethodNotAllowed, errTitleMethodNotAllow, "Use GET.")
	}

	data := IndexResponse{
		Title:    "Media Analytics Dashboard",
		Now:      h.now(),
		Datasets: h.catalog.Status(),
	}

	return h.respond(w, r, tmplIndex, data, data)
}

// RefreshResponse reports which datasets were invalidated and reloaded.
type RefreshResponse struct {
	Status   string           `json:"status"`
	Dataset  string           `json:"dataset"`
	Datasets []catalog.Status `json:"datasets"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodPost {
		return h.writeError(w, r, http.StatusMethodNotAllowed, errTitleMethodNotAllow, "Use POST to refresh.")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return h.writeError(w, r, http.StatusBadRequest, errTitleBadRequest, "Malformed form body.")
	}

	name := strings.TrimSpace(r.Form.Get(paramDataset))
	if name == "" {
		name = catalog.NameAll
	}

	if err := h.catalog.Invalidate(name); err != nil {
		if errors.Is(err, apperrors.ErrUnknownDataset) {
			return h.writeError(w, r, http.StatusBadRequest, errTitleBadRequest, "Unknown dataset "+strconv.Quote(name)+".")
		}

		return h.writeError(w, r, http.StatusInternalServerError, errTitleError, "Failed to invalidate datasets.")
	}

	// Warm only reloads datasets that no longer have a snapshot.
	if err := h.catalog.Warm(r.Context()); err != nil {
		h.logger.Error().Err(err).Str(paramDataset, name).Msg("dataset reload after invalidation failed")

		return h.writeError(w, r, http.StatusInternalServerError, errTitleError, "Failed to reload datasets.")
	}

	if wantsHTML(r) {
		target := "/"
		if name == catalog.NameVideos || name == catalog.NameArticles {
			target = "/" + name
		}

		http.Redirect(w, r, target, http.StatusSeeOther)

		return http.StatusSeeOther
	}

	return h.writeJSON(w, http.StatusOK, RefreshResponse{Status: "ok", Dataset: name, Datasets: h.catalog.Status()})
}

// respond writes payload as JSON, or view through the named template when
// the client wants HTML.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, tmpl string, payload, view any) int {
	if !wantsHTML(r) {
		return h.writeJSON(w, http.StatusOK, payload)
	}

	if err := h.renderHTML(w, tmpl, view); err != nil {
		h.logger.Error().Err(err).Str("template", tmpl).Msg("render failed")
		return h.writeError(w, r, http.StatusInternalServerError, errTitleError, errMsgRender)
	}

	return http.StatusOK
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) int {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("write json failed")
	}

	return status
}

// renderHTML renders into a buffer first so a template error can still
// produce a clean error page.
func (h *Handler) renderHTML(w http.ResponseWriter, name string, data any) error {
	body, err := h.renderer.RenderBytes(name, data)
	if err != nil {
		return err
	}

	w.Header().Set(contentTypeHeader, contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)

	return nil
}

// ErrorViewData is rendered by error.html.
type ErrorViewData struct {
	Title   string
	Message string
	Status  int
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, title, message string) int {
	if wantsHTML(r) {
		w.Header().Set(contentTypeHeader, contentTypeHTML)
		w.WriteHeader(status)

		if err := h.renderer.Render(w, tmplError, ErrorViewData{
			Title:   title,
			Message: message,
			Status:  status,
		}); err != nil {
			h.logger.Error().Err(err).Msg("failed to render error page")
		}

		return status
	}

	return h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) allowRequest(ip string) bool {
	now := h.now()

	h.limitersMu.Lock()

	if now.Sub(h.lastPrune) >= h.limiterIdleTTL {
		h.pruneLimiters(now)
		h.lastPrune = now
	}

	entry, ok := h.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(h.cfg.RateLimitRPS), h.cfg.RateLimitBurst)}
		h.limiters[ip] = entry
	}

	entry.lastSeen = now

	h.limitersMu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// pruneLimiters drops limiters not used within the idle TTL. Callers hold limitersMu.
func (h *Handler) pruneLimiters(now time.Time) {
	for ip, entry := range h.limiters {
		if now.Sub(entry.lastSeen) >= h.limiterIdleTTL {
			delete(h.limiters, ip)
		}
	}
}

// getClientIP returns the address used for rate limiting. Forwarding headers
// are client-controlled, so they are only honored behind a trusted proxy.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
