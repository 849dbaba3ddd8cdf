package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pathway/internal/config"
	"github.com/vango-dev/pathway/pkg/history/remote"
)

func newTestServer(t *testing.T, content string) (*server, *httptest.Server) {
	t.Helper()
	cfg, err := config.Parse([]byte(content), ".yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s := newServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(s.handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func dialWindow(t *testing.T, srv *httptest.Server, href string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + config.DefaultWSPath
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	require.NoError(t, ws.WriteJSON(remote.Frame{Type: remote.FrameHello, Href: href, History: true}))
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) remote.Frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f remote.Frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func TestServeHealthAndMetrics(t *testing.T) {
	_, srv := newTestServer(t, testConfig)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// One navigation so the vectors have samples.
	ws := dialWindow(t, srv, "/about")
	readFrame(t, ws)

	resp, err = http.Get(srv.URL + config.DefaultMetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pathway_navigations_total")
}

func TestServeMountsAndFollowsPops(t *testing.T) {
	_, srv := newTestServer(t, testConfig)
	ws := dialWindow(t, srv, "/users/7?tab=a")

	f := readFrame(t, ws)
	assert.Equal(t, remote.FrameReplace, f.Type)
	assert.Equal(t, "/users/7?tab=a", f.Href)

	require.NoError(t, ws.WriteJSON(remote.Frame{Type: remote.FramePopState, Href: "/about"}))
	f = readFrame(t, ws)
	assert.Equal(t, remote.FrameReplace, f.Type)
	assert.Equal(t, "/about", f.Href)
}

func TestServeReloadUsesNewRoutes(t *testing.T) {
	s, srv := newTestServer(t, testConfig)

	next, err := config.Parse([]byte("routes:\n  - name: about\n    path: /about-us\n"), ".yaml")
	require.NoError(t, err)
	s.reload(next)

	// Routes without a component need a callback, which serve always sets.
	ws := dialWindow(t, srv, "/about-us")
	f := readFrame(t, ws)
	assert.Equal(t, "/about-us", f.Href)
}

func TestServeMetricsDisabled(t *testing.T) {
	_, srv := newTestServer(t, "serve:\n  metricsPath: \"-\"\n"+testConfig)

	resp, err := http.Get(srv.URL + config.DefaultMetricsPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
