// Command dashboard starts the specfuzzer web front end: an upload page with
// drag-and-drop and click-to-browse targets, backed by the analysis service.
//
// By default, the server binds to localhost only (127.0.0.1:8080) and is
// not exposed to the network. The page and its assets are embedded in the
// binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/dashboard"
	"github.com/specfuzzer/specfuzzer/internal/intake"
	"github.com/specfuzzer/specfuzzer/internal/logging"
	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/analysis"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", "", "listen address (default from config, localhost-only)")
	configPath := flag.String("config", "", "config file (default $"+config.EnvConfig+" or "+config.DefaultPath+")")
	backend := flag.String("backend", "", "analysis service base URL (default $"+config.EnvBackendURL+" or config)")
	staticDir := flag.String("static", "", "serve page assets from this directory instead of the embedded copy")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *backend, *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	fmt.Fprintf(os.Stderr, "%s\n", buildinfo.String())
	fmt.Fprintf(os.Stderr, "Starting dashboard server on %s\n", cfg.Dashboard.Addr)
	fmt.Fprintf(os.Stderr, "Dashboard is localhost-only by default. Use --addr 0.0.0.0:8080 to expose.\n")

	srv := newServer(cfg, *staticDir, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Open SSE streams end when their request contexts are cancelled.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}
}

// loadConfig resolves flag > environment > config file > default and
// validates the result.
func loadConfig(path, backend, addr string) (*config.Config, error) {
	cfg, err := config.Load(envOrFlag(path, config.EnvConfig))
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.BackendURL = backend
	}
	if addr != "" {
		cfg.Dashboard.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newServer(cfg *config.Config, staticDir string, logger *zap.Logger) *http.Server {
	opts := []analysis.Option{analysis.WithLogger(logger)}
	if cfg.TargetBaseURL != "" {
		opts = append(opts, analysis.WithTargetBaseURL(cfg.TargetBaseURL))
	}
	client := analysis.NewClient(cfg.BackendURL, opts...)

	ctrl := upload.NewController(upload.ControllerConfig{
		Submitter: client,
		Exclusive: cfg.Intake.ExclusiveUploads,
		Logger:    logger,
	})
	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Controller: ctrl,
		Intake:     intake.New(intake.WithLogger(logger)),
		Health:     client.Health,
		BackendURL: client.BaseURL(),
		StaticDir:  staticDir,
		Logger:     logger,
	})

	mux := http.NewServeMux()
	dashboard.RegisterRoutes(mux, handler)

	logger.Info("dashboard configured",
		zap.String("addr", cfg.Dashboard.Addr),
		zap.String("backend", client.BaseURL()),
		zap.Bool("exclusive_uploads", cfg.Intake.ExclusiveUploads))

	return &http.Server{
		Addr:              cfg.Dashboard.Addr,
		Handler:           dashboard.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func envOrFlag(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}
