package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kvnloughead/devops-demo/internal/config"
)

// newTestConfig returns the configuration produced by an empty environment,
// optionally modified by fn.
func newTestConfig(t *testing.T, fn func(*config.Config)) config.Config {
	t.Helper()

	cfg, err := config.Load(map[string]string{})
	require.NoError(t, err)

	if fn != nil {
		fn(&cfg)
	}
	return cfg
}

func newTestApplication(t *testing.T, cfg config.Config) *application {
	t.Helper()

	return &application{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		host:   "test-host",
	}
}

// lockedBuffer is a bytes.Buffer safe for concurrent writes from the server
// and reads from the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// get sends a GET request for urlPath and returns the status, headers and
// body of the response.
func (ts *testServer) get(t *testing.T, urlPath string) (int, http.Header, []byte) {
	t.Helper()

	client := ts.Client()
	client.Timeout = 5 * time.Second

	rs, err := client.Get(ts.URL + urlPath)
	require.NoError(t, err)
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, rs.Header, bytes.TrimSpace(body)
}
