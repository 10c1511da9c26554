package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/platform/htmlutils"
)

const (
	defaultFeedTimeout     = 30 * time.Second
	maxDescriptionRunes    = 300
	maxParallelFeedFetches = 4
	headerUserAgent        = "User-Agent"
	feedUserAgent          = "media-dashboard/1.0 (+feed import)"
)

// FeedSource turns RSS/Atom feeds into article rows. Feed order is kept and
// each feed contributes at most MaxItems entries.
type FeedSource struct {
	URLs     []string
	MaxItems int

	httpClient *http.Client
}

// NewFeedSource creates a source for the given feed URLs.
func NewFeedSource(urls []string, timeout time.Duration, maxItems int) *FeedSource {
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}

	return &FeedSource{
		URLs:       urls,
		MaxItems:   maxItems,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func newFeedSourceFromURI(uri string, opts Options) (*FeedSource, error) {
	var urls []string

	for _, part := range strings.Split(uri, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.HasPrefix(part, feedPrefix) {
			return nil, fmt.Errorf("%w: mixed feed list entry %q", apperrors.ErrUnsupportedSource, part)
		}

		target := strings.TrimPrefix(part, feedPrefix)
		if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
			return nil, fmt.Errorf("%w: feed %q must be http(s)", apperrors.ErrUnsupportedSource, target)
		}

		urls = append(urls, target)
	}

	if len(urls) == 0 {
		return nil, apperrors.ErrSourceNotConfigured
	}

	return NewFeedSource(urls, opts.FeedTimeout, opts.FeedMaxItems), nil
}

func (s *FeedSource) Describe() string {
	return strings.Join(s.URLs, ", ")
}

func (s *FeedSource) Load(ctx context.Context) ([]domain.ArticleRecord, error) {
	results := make([][]domain.ArticleRecord, len(s.URLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFeedFetches)

	for i, feedURL := range s.URLs {
		g.Go(func() error {
			feed, err := s.fetchFeed(gctx, feedURL)
			if err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrDataUnavailable, err)
			}

			results[i] = s.articlesFromFeed(feed)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var articles []domain.ArticleRecord
	for _, r := range results {
		articles = append(articles, r...)
	}

	return articles, nil
}

// fetchFeed fetches and parses an RSS/Atom feed.
func (s *FeedSource) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	req.Header.Set(headerUserAgent, feedUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: status %d", feedURL, resp.StatusCode)
	}

	// gofeed.Parser caches its translators without locking, so each fetch gets its own.
	fp := gofeed.NewParser()

	feed, err := fp.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	return feed, nil
}

func (s *FeedSource) articlesFromFeed(feed *gofeed.Feed) []domain.ArticleRecord {
	items := feed.Items
	if s.MaxItems > 0 && len(items) > s.MaxItems {
		items = items[:s.MaxItems]
	}

	articles := make([]domain.ArticleRecord, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}

		articles = append(articles, articleFromItem(feed, item))
	}

	return articles
}

func articleFromItem(feed *gofeed.Feed, item *gofeed.Item) domain.ArticleRecord {
	category := strings.TrimSpace(feed.Title)
	if len(item.Categories) > 0 && strings.TrimSpace(item.Categories[0]) != "" {
		category = strings.TrimSpace(item.Categories[0])
	}

	var authors []string

	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			authors = append(authors, strings.TrimSpace(a.Name))
		}
	}

	return domain.ArticleRecord{
		Category:         category,
		Headline:         htmlutils.StripTags(item.Title),
		Authors:          strings.Join(authors, ", "),
		Link:             strings.TrimSpace(item.Link),
		ShortDescription: htmlutils.Truncate(htmlutils.StripTags(item.Description), maxDescriptionRunes),
		Date:             itemDate(item),
	}
}

func itemDate(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	case item.Published != "":
		return parseDate(item.Published)
	default:
		return parseDate(item.Updated)
	}
}
