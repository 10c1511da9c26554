package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/media-dashboard/internal/core/domain"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

type fakeLoader[R any] struct {
	rows    []R
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakeLoader[R]) Load(ctx context.Context) ([]R, error) {
	f.calls.Add(1)

	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return f.rows, f.err
}

func (f *fakeLoader[R]) Describe() string {
	return "fake"
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func articles(n int) []domain.ArticleRecord {
	rows := make([]domain.ArticleRecord, n)
	for i := range rows {
		rows[i] = domain.ArticleRecord{Headline: "h", Category: "C"}
	}

	return rows
}

func TestDataset_GetCachesSnapshot(t *testing.T) {
	loader := &fakeLoader[domain.ArticleRecord]{rows: articles(3)}
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	_, cached := d.Cached()
	assert.False(t, cached)

	first := d.Get(context.Background())
	second := d.Get(context.Background())

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.Equal(t, 3, first.Table.Len())
	assert.Equal(t, first.LoadedAt, second.LoadedAt)
	assert.Equal(t, Key{Name: NameArticles, Source: "fake"}, first.Key)
	assert.NoError(t, first.Notice)
}

func TestDataset_InvalidateReloads(t *testing.T) {
	loader := &fakeLoader[domain.ArticleRecord]{rows: articles(1)}
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	d.Get(context.Background())
	d.Invalidate()

	_, cached := d.Cached()
	assert.False(t, cached)

	loader.rows = articles(4)
	snap := d.Get(context.Background())

	assert.Equal(t, int32(2), loader.calls.Load())
	assert.Equal(t, 4, snap.Table.Len())
}

func TestDataset_RefreshReplacesSnapshot(t *testing.T) {
	loader := &fakeLoader[domain.ArticleRecord]{rows: articles(1)}
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	d.Get(context.Background())

	loader.rows = articles(2)
	snap := d.Refresh(context.Background())

	assert.Equal(t, 2, snap.Table.Len())

	cached, ok := d.Cached()
	require.True(t, ok)
	assert.Equal(t, 2, cached.Table.Len())
}

func TestDataset_FailedLoadIsCachedWithNotice(t *testing.T) {
	loadErr := errors.New("boom")
	loader := &fakeLoader[domain.VideoRecord]{err: loadErr}
	d := NewDataset[domain.VideoRecord](NameVideos, loader, time.Second, testLogger())

	snap := d.Get(context.Background())
	require.ErrorIs(t, snap.Notice, loadErr)
	assert.Equal(t, 0, snap.Table.Len())

	d.Get(context.Background())
	assert.Equal(t, int32(1), loader.calls.Load(), "failed snapshot stays cached until invalidated")
}

func TestDataset_ConcurrentGetsShareOneLoad(t *testing.T) {
	loader := &fakeLoader[domain.ArticleRecord]{rows: articles(2), release: make(chan struct{})}
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	const callers = 8

	var wg sync.WaitGroup

	results := make([]int, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i] = d.Get(context.Background()).Table.Len()
		}()
	}

	require.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())

	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

func TestDataset_LoadTimeout(t *testing.T) {
	loader := &fakeLoader[domain.ArticleRecord]{release: make(chan struct{})}
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, 10*time.Millisecond, testLogger())

	snap := d.Get(context.Background())
	require.ErrorIs(t, snap.Notice, context.DeadlineExceeded)
}

func TestCatalog_Invalidate(t *testing.T) {
	videos := &fakeLoader[domain.VideoRecord]{rows: []domain.VideoRecord{{ID: "v"}}}
	news := &fakeLoader[domain.ArticleRecord]{rows: articles(1)}
	c := New(videos, news, time.Second, testLogger())

	require.NoError(t, c.Warm(context.Background()))

	require.NoError(t, c.Invalidate(NameVideos))
	_, cached := c.Videos.Cached()
	assert.False(t, cached)
	_, cached = c.Articles.Cached()
	assert.True(t, cached)

	require.NoError(t, c.Invalidate(NameAll))
	_, cached = c.Articles.Cached()
	assert.False(t, cached)

	require.ErrorIs(t, c.Invalidate("podcasts"), apperrors.ErrUnknownDataset)
}

func TestCatalog_WarmAndStatus(t *testing.T) {
	videos := &fakeLoader[domain.VideoRecord]{err: apperrors.ErrDataUnavailable}
	news := &fakeLoader[domain.ArticleRecord]{rows: articles(5)}
	c := New(videos, news, time.Second, testLogger())

	before := c.Status()
	assert.False(t, before[0].Loaded)
	assert.False(t, before[1].Loaded)

	require.NoError(t, c.Warm(context.Background()))

	after := c.Status()
	require.Len(t, after, 2)

	assert.Equal(t, NameVideos, after[0].Name)
	assert.True(t, after[0].Loaded)
	assert.Equal(t, 0, after[0].Rows)
	assert.NotEmpty(t, after[0].Notice)

	assert.Equal(t, NameArticles, after[1].Name)
	assert.Equal(t, 5, after[1].Rows)
	assert.Empty(t, after[1].Notice)
}

func TestCatalog_Refresh(t *testing.T) {
	videos := &fakeLoader[domain.VideoRecord]{}
	news := &fakeLoader[domain.ArticleRecord]{rows: articles(1)}
	c := New(videos, news, time.Second, testLogger())

	require.NoError(t, c.Refresh(context.Background(), NameAll))
	require.NoError(t, c.Refresh(context.Background(), NameArticles))

	assert.Equal(t, int32(1), videos.calls.Load())
	assert.Equal(t, int32(2), news.calls.Load())
	require.ErrorIs(t, c.Refresh(context.Background(), "nope"), apperrors.ErrUnknownDataset)
}

func TestUnavailable(t *testing.T) {
	u := Unavailable[domain.ArticleRecord]{Err: apperrors.ErrSourceNotConfigured}

	_, err := u.Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrDataUnavailable)
	require.ErrorIs(t, err, apperrors.ErrSourceNotConfigured)
	assert.Equal(t, "unconfigured", u.Describe())
}

// versionedLoader blocks its first load on gate and returns whatever rows are
// current when a load finishes.
type versionedLoader struct {
	mu      sync.Mutex
	rows    []domain.ArticleRecord
	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
}

func newVersionedLoader(rows []domain.ArticleRecord) *versionedLoader {
	return &versionedLoader{rows: rows, started: make(chan struct{}), gate: make(chan struct{})}
}

func (l *versionedLoader) Load(context.Context) ([]domain.ArticleRecord, error) {
	l.mu.Lock()
	rows := l.rows
	l.mu.Unlock()

	if l.calls.Add(1) == 1 {
		close(l.started)
		<-l.gate
	}

	return rows, nil
}

func (l *versionedLoader) Describe() string {
	return "versioned"
}

func (l *versionedLoader) set(rows []domain.ArticleRecord) {
	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
}

func TestDataset_InvalidateDuringLoadDiscardsStaleSnapshot(t *testing.T) {
	loader := newVersionedLoader(articles(1))
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	stale := make(chan Snapshot[domain.ArticleRecord], 1)

	go func() { stale <- d.Get(context.Background()) }()

	<-loader.started
	loader.set(articles(2))
	d.Invalidate()
	close(loader.gate)

	assert.Equal(t, 1, (<-stale).Table.Len(), "the caller that started the old load still gets its result")

	_, cached := d.Cached()
	assert.False(t, cached, "a load started before Invalidate must not repopulate the cache")

	snap := d.Get(context.Background())
	assert.Equal(t, 2, snap.Table.Len())
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestDataset_InvalidateDuringLoadNotJoinedByNewCallers(t *testing.T) {
	loader := newVersionedLoader(articles(1))
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	go d.Get(context.Background())

	<-loader.started
	loader.set(articles(3))
	d.Invalidate()

	// The first load is still blocked; a fresh Get must start its own load.
	snap := d.Get(context.Background())
	assert.Equal(t, 3, snap.Table.Len())

	close(loader.gate)

	cached, ok := d.Cached()
	require.True(t, ok)
	assert.Equal(t, 3, cached.Table.Len())
}

func TestDataset_RefreshWinsOverOlderLoad(t *testing.T) {
	loader := newVersionedLoader(articles(1))
	d := NewDataset[domain.ArticleRecord](NameArticles, loader, time.Second, testLogger())

	done := make(chan struct{})

	go func() {
		defer close(done)
		d.Get(context.Background())
	}()

	<-loader.started
	loader.set(articles(5))
	assert.Equal(t, 5, d.Refresh(context.Background()).Table.Len())

	close(loader.gate)
	<-done

	cached, ok := d.Cached()
	require.True(t, ok)
	assert.Equal(t, 5, cached.Table.Len())
}
