package server

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SublimeIbanez/Overseer/internal/history"
	"github.com/SublimeIbanez/Overseer/internal/overseer"
	"github.com/SublimeIbanez/Overseer/internal/search"
	"github.com/SublimeIbanez/Overseer/internal/sse"
	"github.com/SublimeIbanez/Overseer/internal/walker"
	"github.com/SublimeIbanez/Overseer/internal/watcher"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestServer wires a server over a real temp directory with in-memory
// history and search.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()

	o, err := overseer.New(root, discard())
	require.NoError(t, err)

	hist, err := history.New("", discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = hist.Close() })

	index, err := search.New("", discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	manager := sse.NewManager(discard())
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)
	t.Cleanup(cancel)

	return New(o, hist, index, manager, walker.Sequential, discard()), root
}

func doRequest(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandleHealth(t *testing.T) {
	s, root := newTestServer(t)

	rec, env := doRequest(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, root, data["root"])
}

func TestHandleWalkThenTree(t *testing.T) {
	s, root := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	rec, env := doRequest(t, s, http.MethodPost, "/api/v1/walk")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	walkData, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, walkData["snapshot_id"])
	assert.EqualValues(t, 2, walkData["entries"])

	// Walk persisted a sidecar.
	assert.FileExists(t, filepath.Join(root, walker.SidecarName))

	rec, env = doRequest(t, s, http.MethodGet, "/api/v1/tree")
	require.Equal(t, http.StatusOK, rec.Code)

	treeData, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Base(root), treeData["root"])

	lines, ok := treeData["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Equal(t, "[˅]"+filepath.Base(root), lines[0])
	assert.Equal(t, " ╰── a.txt", lines[1])
}

func TestHandleSearch(t *testing.T) {
	s, root := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644))

	rec, _ := doRequest(t, s, http.MethodPost, "/api/v1/walk")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/search?q=readme")
	require.Equal(t, http.StatusOK, rec.Code)

	hits, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, hits, 1)
	hit := hits[0].(map[string]any)
	assert.Equal(t, "readme.md", hit["name"])
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	s, _ := newTestServer(t)

	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestHandleHistory(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.history.Append(watcher.Event{Kind: watcher.KindCreate, Name: "a", Time: time.Now()})
	require.NoError(t, err)
	_, err = s.history.Append(watcher.Event{Kind: watcher.KindModify, Name: "b", Time: time.Now().Add(time.Second)})
	require.NoError(t, err)

	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/history")
	require.Equal(t, http.StatusOK, rec.Code)

	records, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, records, 2)
	first := records[0].(map[string]any)
	assert.Equal(t, "Modify", first["kind"])
}

func TestHandleHistory_InvalidLimit(t *testing.T) {
	s, _ := newTestServer(t)

	rec, env := doRequest(t, s, http.MethodGet, "/api/v1/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestHandleEvents_StreamsChange(t *testing.T) {
	s, _ := newTestServer(t)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Give the handler time to register the client before emitting.
	require.Eventually(t, func() bool {
		return s.manager.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.manager.Emit(sse.NewChangeEvent("Create", "x.txt", "/root/x.txt"))

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	body := string(buf[:n])
	assert.Contains(t, body, "event: fs.change")
	assert.Contains(t, body, `"name":"x.txt"`)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, _ = io.Copy(io.Discard, rec.Body)
}
