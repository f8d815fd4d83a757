// Command healthcheck probes the local service's liveness endpoint and exits
// 0 when it answers 200 OK, 1 otherwise. It is meant for container
// HEALTHCHECK instructions, where no curl or wget is available.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kvnloughead/devops-demo/internal/config"
)

const probeTimeout = 2 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(nil)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Port)
	if err := probe(ctx, http.DefaultClient, url); err != nil {
		logger.Error("health probe failed", "url", url, "error", err)
		os.Exit(1)
	}
}

// probe sends a GET to url and returns an error unless the response is 200.
func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	rs, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", rs.StatusCode)
	}
	return nil
}
