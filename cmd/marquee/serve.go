package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/shapedtime/marquee/internal/api"
	"github.com/shapedtime/marquee/internal/catalog"
	"github.com/shapedtime/marquee/internal/config"
	"github.com/shapedtime/marquee/internal/credentials"
	"github.com/shapedtime/marquee/internal/logging"
	"github.com/shapedtime/marquee/internal/metrics"
	"github.com/shapedtime/marquee/internal/tmdb"
	"github.com/shapedtime/marquee/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the forwarding handler, catalog API and web front end",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP port (overrides config)",
			},
			&cli.StringFlag{
				Name:  "tmdb-api-key",
				Usage: "static TMDB API key; by default the key is read from the environment on every request",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if c.IsSet("port") {
				cfg.Server.HTTPPort = c.Int("port")
			}
			if c.IsSet("tmdb-api-key") {
				cfg.TMDB.APIKey = c.String("tmdb-api-key")
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	logger, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()
	slog.SetDefault(logger)

	slog.Info("Starting marquee", "port", cfg.Server.HTTPPort)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	keys := credentials.FromConfig(cfg.TMDB.APIKey, cfg.TMDB.APIKeyEnv)
	tmdbClient := tmdb.NewClient(keys,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithTimeout(time.Duration(cfg.TMDB.Timeout)*time.Second),
	)
	if cfg.TMDB.APIKey == "" && cfg.TMDB.WatchEnvFile && cfg.TMDB.EnvFile != "" {
		watcher, err := credentials.NewDotenvWatcher(cfg.TMDB.EnvFile)
		if err != nil {
			slog.Warn("Not watching dotenv file", "path", cfg.TMDB.EnvFile, "error", err)
		} else {
			go watcher.Run(ctx)
		}
	}
	if !tmdbClient.IsConfigured() {
		slog.Warn("TMDB API key not configured, forwarded requests will fail until it is set", "env", cfg.TMDB.APIKeyEnv)
	}

	catalogSvc := catalog.NewService(tmdbClient, catalog.Options{
		ImageBaseURL:  cfg.TMDB.ImageBaseURL,
		PlayerBaseURL: cfg.Player.BaseURL,
		Metrics:       m,
	})

	apiServer := api.NewServer(tmdbClient, catalogSvc, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Web:            web.FS(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Port > 0 {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, reg)
		if err := metricsServer.Listen(); err != nil {
			slog.Warn("Metrics disabled", "error", err)
			metricsServer = nil
		} else {
			go metricsServer.Start()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("marquee is ready",
		"web_url", fmt.Sprintf("http://localhost:%d/", cfg.Server.HTTPPort),
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort),
	)

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case serveErr = <-errCh:
		slog.Error("HTTP server error", "error", serveErr)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("Metrics server shutdown error", "error", err)
		}
	}

	slog.Info("marquee stopped")
	return serveErr
}
