// Package app initializes and holds the long-lived services for a resolver
// run, acting as the composition root for configuration and logging.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/techcatalog/image-resolver/internal/config"
	"github.com/techcatalog/image-resolver/internal/logging"
	"github.com/techcatalog/image-resolver/internal/resolver"
)

// App holds the shared services for the resolver CLI. It is initialized once
// at startup and handed to the command layer.
type App struct {
	cfg           config.Config
	logger        *zap.Logger
	metricsServer *http.Server
}

// New loads configuration, builds the logger, and registers metrics. When a
// metrics listen address is configured, a Prometheus scrape endpoint runs for
// the lifetime of the App. New fails fast when any critical piece cannot be
// initialized.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	resolver.InitMetrics()

	a := &App{cfg: cfg, logger: logger}
	if addr := cfg.Metrics.ListenAddr; addr != "" {
		a.metricsServer = serveMetrics(addr, logger)
	}
	return a, nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", resolver.MetricsHandler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics endpoint failed", zap.Error(err))
		}
	}()
	return server
}

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config exposes the loaded configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Close stops the metrics endpoint and flushes buffered log entries.
func (a *App) Close() {
	if a.metricsServer != nil {
		_ = a.metricsServer.Close()
	}
	_ = a.logger.Sync() // best-effort flush
}
