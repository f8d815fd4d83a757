package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvnloughead/devops-demo/internal/config"
)

// startServer runs app.serveListener on a loopback port in the background and
// returns the base URL and a channel receiving its result.
func startServer(t *testing.T, ctx context.Context, app *application, h http.Handler) (string, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- app.serveListener(ctx, ln, h)
	}()

	return "http://" + ln.Addr().String(), done
}

func TestServeListenerDrainsInFlightRequests(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t, nil))

	started := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte("finished"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL, done := startServer(t, ctx, app, mux)

	type result struct {
		code int
		body string
		err  error
	}
	inFlight := make(chan result, 1)

	go func() {
		rs, err := http.Get(baseURL + "/slow")
		if err != nil {
			inFlight <- result{err: err}
			return
		}
		defer rs.Body.Close()
		body, err := io.ReadAll(rs.Body)
		inFlight <- result{code: rs.StatusCode, body: string(body), err: err}
	}()

	<-started
	cancel()

	// The listener closes while the slow request is still running.
	addr := strings.TrimPrefix(baseURL, "http://")
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return true
		}
		conn.Close()
		return false
	}, 2*time.Second, 10*time.Millisecond, "listener still accepting after shutdown")

	select {
	case err := <-done:
		t.Fatalf("server stopped before in-flight request completed: %v", err)
	default:
	}

	close(release)

	rs := <-inFlight
	require.NoError(t, rs.err)
	assert.Equal(t, http.StatusOK, rs.code)
	assert.Equal(t, "finished", rs.body)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after drain")
	}
}

func TestServeListenerDrainTimeout(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t, func(cfg *config.Config) {
		cfg.ShutdownTimeout = 50 * time.Millisecond
	}))

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	mux := http.NewServeMux()
	mux.HandleFunc("/stalled", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL, done := startServer(t, ctx, app, mux)

	go func() {
		rs, err := http.Get(baseURL + "/stalled")
		if err == nil {
			rs.Body.Close()
		}
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("drain was not bounded by the shutdown timeout")
	}
}

func TestServeEphemeralPort(t *testing.T) {
	var buf lockedBuffer

	cfg, err := config.Load(map[string]string{"PORT": "0"})
	require.NoError(t, err)

	app := newTestApplication(t, cfg)
	app.logger = slog.New(slog.NewTextHandler(&buf, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "starting server")
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotContains(t, buf.String(), "addr=[::]:0 ")

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Contains(t, buf.String(), "stopped server")
}

func TestServeBindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()

	port := occupied.Addr().(*net.TCPAddr).Port

	app := newTestApplication(t, newTestConfig(t, func(cfg *config.Config) {
		cfg.Port = config.Port(port)
	}))
	app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	err = app.serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
