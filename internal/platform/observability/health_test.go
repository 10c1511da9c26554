package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestServer_Probes(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name   string
		pinger Pinger
		path   string
		want   int
	}{
		{name: "healthz", path: "/healthz", want: http.StatusOK},
		{name: "readyz without warehouse", path: "/readyz", want: http.StatusOK},
		{name: "readyz healthy", pinger: stubPinger{}, path: "/readyz", want: http.StatusOK},
		{name: "readyz failing", pinger: stubPinger{err: errors.New("down")}, path: "/readyz", want: http.StatusServiceUnavailable},
		{name: "metrics", path: "/metrics", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(tt.pinger, 0, nil, &logger)

			rec := serve(t, srv.Handler(), tt.path)
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestServer_MountsAppHandler(t *testing.T) {
	logger := zerolog.Nop()
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("app:" + r.URL.Path))
	})

	h := NewServer(nil, 0, app, &logger).Handler()

	rec := serve(t, h, "/videos")
	if !strings.Contains(rec.Body.String(), "app:/videos") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	rec = serve(t, h, "/healthz")
	if rec.Body.String() != "OK" {
		t.Errorf("probe shadowed by app handler: %q", rec.Body.String())
	}
}
