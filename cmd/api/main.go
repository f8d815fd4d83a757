package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kvnloughead/devops-demo/internal/config"
	"github.com/kvnloughead/devops-demo/internal/telemetry"
)

const (
	version     = "1.0.0"
	serviceName = "devops-demo"
	message     = "Hello from the DevOps CI/CD Demo App!"
)

// The application struct is used for dependency injection. It is built once
// in main and never mutated afterwards.
type application struct {
	config config.Config
	logger *slog.Logger

	// host is the machine's network name, reported by the index route.
	host string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(nil)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// SIGTERM starts the drain; SIGINT does the same for local runs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, version, cfg.OTelEndpoint)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	app := newApplication(cfg, logger)

	err = app.serve(ctx)

	// The signal context is already cancelled here, so flush on a fresh one.
	if terr := shutdownTracing(context.Background()); terr != nil {
		logger.Warn("flush traces", "error", terr)
	}

	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// newApplication resolves the host name and assembles the dependencies.
func newApplication(cfg config.Config, logger *slog.Logger) *application {
	host, err := os.Hostname()
	if err != nil {
		logger.Warn("resolve hostname", "error", err)
		host = "unknown"
	}

	return &application{
		config: cfg,
		logger: logger,
		host:   host,
	}
}
