package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/dataset"
)

// Dataset names.
const (
	NameVideos   = "videos"
	NameArticles = "articles"
	NameAll      = "all"
)

// Catalog holds the two dashboard datasets.
type Catalog struct {
	Videos   *Dataset[domain.VideoRecord]
	Articles *Dataset[domain.ArticleRecord]

	logger *zerolog.Logger
}

func New(videos Loader[domain.VideoRecord], articles Loader[domain.ArticleRecord], timeout time.Duration, logger *zerolog.Logger) *Catalog {
	return &Catalog{
		Videos:   NewDataset(NameVideos, videos, timeout, logger),
		Articles: NewDataset(NameArticles, articles, timeout, logger),
		logger:   logger,
	}
}

// Invalidate drops the named dataset ("all" drops both).
func (c *Catalog) Invalidate(name string) error {
	switch name {
	case NameVideos:
		c.Videos.Invalidate()
	case NameArticles:
		c.Articles.Invalidate()
	case NameAll:
		c.Videos.Invalidate()
		c.Articles.Invalidate()
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownDataset, name)
	}

	return nil
}

// Refresh reloads the named dataset ("all" reloads both in parallel).
func (c *Catalog) Refresh(ctx context.Context, name string) error {
	switch name {
	case NameVideos:
		c.Videos.Refresh(ctx)
	case NameArticles:
		c.Articles.Refresh(ctx)
	case NameAll:
		return c.each(ctx, func(ctx context.Context, d refresher) { d.refresh(ctx) })
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownDataset, name)
	}

	return nil
}

// Warm loads every dataset that is not cached yet. Load failures end up as
// snapshot notices; only context cancellation is returned.
func (c *Catalog) Warm(ctx context.Context) error {
	return c.each(ctx, func(ctx context.Context, d refresher) { d.get(ctx) })
}

type refresher interface {
	get(ctx context.Context)
	refresh(ctx context.Context)
}

type datasetRefresher[R dataset.Record] struct {
	d *Dataset[R]
}

func (r datasetRefresher[R]) get(ctx context.Context)     { r.d.Get(ctx) }
func (r datasetRefresher[R]) refresh(ctx context.Context) { r.d.Refresh(ctx) }

func (c *Catalog) each(ctx context.Context, fn func(context.Context, refresher)) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, r := range []refresher{datasetRefresher[domain.VideoRecord]{c.Videos}, datasetRefresher[domain.ArticleRecord]{c.Articles}} {
		g.Go(func() error {
			fn(gctx, r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// Status summarizes one dataset for the index page.
type Status struct {
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	Loaded   bool      `json:"loaded"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Notice   string    `json:"notice,omitempty"`
}

// Status reports the cached state of every dataset without triggering loads.
func (c *Catalog) Status() []Status {
	return []Status{statusOf(c.Videos), statusOf(c.Articles)}
}

func statusOf[R dataset.Record](d *Dataset[R]) Status {
	st := Status{Name: d.Name(), Source: d.Key().Source}

	snap, ok := d.Cached()
	if !ok {
		return st
	}

	st.Loaded = true
	st.Rows = snap.Table.Len()
	st.LoadedAt = snap.LoadedAt

	if snap.Notice != nil {
		st.Notice = snap.Notice.Error()
	}

	return st
}

// Unavailable is a Loader that always fails with err. It stands in for a
// dataset whose source could not be configured.
type Unavailable[R dataset.Record] struct {
	Err    error
	Source string
}

func (u Unavailable[R]) Load(context.Context) ([]R, error) {
	return nil, fmt.Errorf("%w: %w", apperrors.ErrDataUnavailable, u.Err)
}

func (u Unavailable[R]) Describe() string {
	if u.Source == "" {
		return "unconfigured"
	}

	return u.Source
}
