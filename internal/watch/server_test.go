package watch

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	return NewServer(Options{Root: root, Host: "localhost", Port: 0, Logger: zap.NewNop()})
}

func TestServer_StatusEndpoint(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, dir, payload["root"])
	assert.NotEmpty(t, payload["session"])
}

func TestServer_RebuildEmitsTarget(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.sfn")
	require.NoError(t, os.WriteFile(source, []byte(`fn main() -> void { print.info("hi"); }`), 0o644))

	s := newTestServer(t, dir)
	require.NoError(t, s.rebuild([]string{source}))

	target := filepath.Join(dir, "main.py")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `print("hi")`)

	s.mu.RLock()
	last := s.lastEvent
	s.mu.RUnlock()
	require.NotNil(t, last)
	assert.Equal(t, "success", last.Type)
}

func TestServer_RebuildReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bad.sfn")
	require.NoError(t, os.WriteFile(source, []byte(`fn main( { }`), 0o644))

	s := newTestServer(t, dir)
	require.NoError(t, s.rebuild([]string{source}))

	s.mu.RLock()
	last := s.lastEvent
	s.mu.RUnlock()
	require.NotNil(t, last)
	assert.Equal(t, "error", last.Type)
	assert.NotEmpty(t, last.Errors)

	_, err := os.Stat(filepath.Join(dir, "bad.py"))
	assert.True(t, os.IsNotExist(err), "no target may be written for a failing compile")
}

func TestServer_WebSocketReceivesEvents(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "main.sfn")
	require.NoError(t, os.WriteFile(source, []byte(`fn main() -> void { }`), 0o644))

	s := newTestServer(t, dir)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the hub a beat to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, s.rebuild([]string{source}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got CompileEvent
	for {
		require.NoError(t, conn.ReadJSON(&got))
		if got.Type != "building" {
			break
		}
	}
	assert.Equal(t, "success", got.Type)
	assert.Equal(t, s.sessionID, got.Session)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.py")

	require.NoError(t, writeFileAtomic(path, []byte("one")))
	require.NoError(t, writeFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")
}
