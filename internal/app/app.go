// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Serve mode: dashboard HTTP server with probes, metrics and the optional
//     periodic dataset refresher
//   - Warm mode: loads every dataset once, logs its status and exits
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lueurxax/media-dashboard/internal/catalog"
	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/dashboard"
	"github.com/lueurxax/media-dashboard/internal/ingest/news"
	"github.com/lueurxax/media-dashboard/internal/ingest/videos"
	"github.com/lueurxax/media-dashboard/internal/platform/config"
	"github.com/lueurxax/media-dashboard/internal/platform/observability"
	"github.com/lueurxax/media-dashboard/internal/platform/worker"
	db "github.com/lueurxax/media-dashboard/internal/storage"
)

const (
	refresherName      = "dataset-refresh"
	refreshStatusOK    = "success"
	refreshStatusError = "error"
	logFieldDataset    = "dataset"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	catalog  *catalog.Catalog
	logger   *zerolog.Logger
}

// New creates a new App. database may be nil when no warehouse is configured
// or reachable; the videos dashboard then reports the data as unavailable.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		catalog:  catalog.New(videoLoader(cfg, database), articleLoader(cfg, logger), cfg.DatasetLoadTimeout, logger),
		logger:   logger,
	}
}

// Catalog exposes the dataset cache.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

func videoLoader(cfg *config.Config, database *db.DB) catalog.Loader[domain.VideoRecord] {
	var repo videos.Repository
	if database != nil {
		repo = database
	}

	return videos.NewSource(repo, cfg.VideosTable)
}

func articleLoader(cfg *config.Config, logger *zerolog.Logger) catalog.Loader[domain.ArticleRecord] {
	src, err := news.NewSource(cfg.NewsSourceURI, news.Options{
		S3Endpoint:   cfg.S3Endpoint,
		S3Region:     cfg.S3Region,
		S3AccessKey:  cfg.S3AccessKey,
		S3SecretKey:  cfg.S3SecretKey,
		S3UseSSL:     cfg.S3UseSSL,
		FeedTimeout:  cfg.FeedFetchTimeout,
		FeedMaxItems: cfg.FeedMaxItems,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrSourceNotConfigured) {
			logger.Error().Err(err).Msg("news source rejected")
		}

		return catalog.Unavailable[domain.ArticleRecord]{Err: err, Source: cfg.NewsSourceURI}
	}

	return src
}

// Server builds the HTTP server used in serve mode.
func (a *App) Server() (*observability.Server, error) {
	handler, err := dashboard.NewHandler(a.cfg, a.catalog, a.logger)
	if err != nil {
		return nil, fmt.Errorf("dashboard handler init: %w", err)
	}

	var pinger observability.Pinger
	if a.database != nil {
		pinger = a.database
	}

	return observability.NewServer(pinger, a.cfg.HTTPPort, handler, a.logger), nil
}

// RunServer serves the dashboard until ctx is canceled. Datasets are warmed in
// the background so the first visitor does not pay for the initial load.
func (a *App) RunServer(ctx context.Context) error {
	srv, err := a.Server()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(gctx); err != nil {
			return fmt.Errorf("dashboard server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.logStatus(a.warm(gctx))

		return nil
	})

	if a.cfg.DatasetRefreshInterval > 0 {
		g.Go(func() error {
			return worker.SingleTickerLoop(gctx, worker.SingleTickerConfig{
				Name:     refresherName,
				Interval: a.cfg.DatasetRefreshInterval,
				OnTick:   a.refreshOnce,
				Logger:   a.logger,
			})
		})
	}

	return g.Wait()
}

// RunWarm loads every dataset once and reports what was found.
func (a *App) RunWarm(ctx context.Context) error {
	err := a.warm(ctx)
	a.logStatus(err)

	if err != nil {
		return err
	}

	for _, st := range a.catalog.Status() {
		if st.Notice != "" {
			return fmt.Errorf("%s: %w", st.Name, apperrors.ErrDataUnavailable)
		}
	}

	return nil
}

func (a *App) warm(ctx context.Context) error {
	if err := a.catalog.Warm(ctx); err != nil {
		return fmt.Errorf("warm datasets: %w", err)
	}

	return nil
}

func (a *App) refreshOnce(ctx context.Context) {
	if err := a.catalog.Refresh(ctx, catalog.NameAll); err != nil {
		observability.DatasetRefreshRuns.WithLabelValues(refreshStatusError).Inc()
		a.logger.Warn().Err(err).Msg("dataset refresh failed")

		return
	}

	observability.DatasetRefreshRuns.WithLabelValues(refreshStatusOK).Inc()
	a.logStatus(nil)
}

func (a *App) logStatus(err error) {
	if err != nil {
		a.logger.Warn().Err(err).Msg("dataset warm-up interrupted")

		return
	}

	for _, st := range a.catalog.Status() {
		evt := a.logger.Info()
		if st.Notice != "" {
			evt = a.logger.Warn().Str("notice", st.Notice)
		}

		evt.Str(logFieldDataset, st.Name).
			Str("source", st.Source).
			Int("rows", st.Rows).
			Msg("dataset status")
	}
}
