package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lueurxax/media-dashboard/internal/core/errors"
)

const objectCSV = "category,headline,authors,link,short_description,date\n" +
	"WORLD,Summit opens,Ann Lee,https://example.com/1,Leaders meet,2022-09-23\n"

func newObjectServer(t *testing.T, objects map[string]string) *ObjectSource {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")

		if r.Method == http.MethodHead {
			return
		}

		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	src, err := NewObjectSource("exports", "news.csv", Options{
		S3Endpoint:  u.Host,
		S3Region:    "us-east-1",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})
	require.NoError(t, err)

	return src
}

func TestObjectSource_Load(t *testing.T) {
	src := newObjectServer(t, map[string]string{"/exports/news.csv": objectCSV})

	assert.Equal(t, "s3://exports/news.csv", src.Describe())

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Summit opens", got[0].Headline)
}

func TestObjectSource_MissingObject(t *testing.T) {
	src := newObjectServer(t, nil)

	_, err := src.Load(context.Background())
	require.ErrorIs(t, err, apperrors.ErrDataUnavailable)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestNewObjectSource_RequiresBucketAndKey(t *testing.T) {
	_, err := NewObjectSource("", "news.csv", Options{S3Endpoint: "localhost:9000"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = NewObjectSource("exports", "", Options{S3Endpoint: "localhost:9000"})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
