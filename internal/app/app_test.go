package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/media-dashboard/internal/catalog"
	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
	"github.com/lueurxax/media-dashboard/internal/platform/config"
)

const testCSV = `category,headline,authors,link,short_description,date
WORLD,Summit opens,Ann Lee,https://example.com/1,Leaders meet,2022-09-23
TECH,New chips,Bob,https://example.com/2,Faster,2022-09-24
`

func testConfig(t *testing.T, newsURI string) *config.Config {
	t.Helper()

	return &config.Config{
		HTTPPort:           8080,
		NewsSourceURI:      newsURI,
		VideosTable:        "media_analytics.youtube_videos",
		DatasetLoadTimeout: 5 * time.Second,
		ArticlesPageSize:   100,
		VideoTopChannels:   10,
		ArticleTopAuthors:  5,
		PreviewCount:       5,
		VideoTableLimit:    500,
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
	}
}

func writeCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "news.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	return path
}

func statusByName(t *testing.T, c *catalog.Catalog) map[string]catalog.Status {
	t.Helper()

	out := make(map[string]catalog.Status)
	for _, st := range c.Status() {
		out[st.Name] = st
	}

	return out
}

func TestRunWarm_WithoutWarehouse(t *testing.T) {
	logger := zerolog.Nop()
	a := New(testConfig(t, writeCSV(t)), nil, &logger)

	err := a.RunWarm(context.Background())
	require.ErrorIs(t, err, apperrors.ErrDataUnavailable)

	st := statusByName(t, a.Catalog())
	assert.True(t, st[catalog.NameArticles].Loaded)
	assert.Equal(t, 2, st[catalog.NameArticles].Rows)
	assert.Empty(t, st[catalog.NameArticles].Notice)

	assert.True(t, st[catalog.NameVideos].Loaded)
	assert.Zero(t, st[catalog.NameVideos].Rows)
	assert.NotEmpty(t, st[catalog.NameVideos].Notice)
}

func TestNew_UnsupportedNewsSource(t *testing.T) {
	logger := zerolog.Nop()
	a := New(testConfig(t, "ftp://example.com/news.csv"), nil, &logger)

	require.Error(t, a.RunWarm(context.Background()))

	st := statusByName(t, a.Catalog())
	assert.Equal(t, "ftp://example.com/news.csv", st[catalog.NameArticles].Source)
	assert.Contains(t, st[catalog.NameArticles].Notice, apperrors.ErrUnsupportedSource.Error())
}

func TestServer_RoutesDashboardAndProbes(t *testing.T) {
	logger := zerolog.Nop()
	a := New(testConfig(t, writeCSV(t)), nil, &logger)

	srv, err := a.Server()
	require.NoError(t, err)

	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles?format=json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Page struct {
			TotalItems int `json:"total_items"`
		} `json:"page"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Page.TotalItems)
}

func TestRefreshOnce_ReloadsDatasets(t *testing.T) {
	logger := zerolog.Nop()
	path := writeCSV(t)
	a := New(testConfig(t, path), nil, &logger)

	require.Error(t, a.RunWarm(context.Background()))

	extra := testCSV + "SPORTS,Final,Dee,https://example.com/3,Recap,2022-09-25\n"
	require.NoError(t, os.WriteFile(path, []byte(extra), 0o600))

	a.refreshOnce(context.Background())

	assert.Equal(t, 3, statusByName(t, a.Catalog())[catalog.NameArticles].Rows)
}
