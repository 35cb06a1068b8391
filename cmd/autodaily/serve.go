package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/af-corp/autodaily/internal/auth"
	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/gateway"
	"github.com/af-corp/autodaily/internal/ratelimit"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the autodaily HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			return runServe(configDir)
		},
	}
}

func runServe(configDir string) error {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	loader := config.NewLoader(configDir, bootLogger)
	if err := loader.Load(); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := loader.Config()

	logger := newLogger(os.Stdout, cfg.Telemetry)
	slog.SetDefault(logger)

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(loader, reg)
	if err != nil {
		return err
	}

	loader.OnReload(func() {
		if err := a.reload(); err != nil {
			logger.Error("reload failed, keeping previous sources", "error", err)
			return
		}
		logger.Info("pipeline reloaded", "providers", a.registry.Names(), "locale", a.locale.Tag.String())
	})

	rdb := connectRedis(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := ratelimit.NewLimiter(rdb)
	rpm := func() int {
		rl := loader.Config().RateLimit
		if !rl.Enabled {
			return 0
		}
		return rl.RequestsPerMinute
	}

	handler := gateway.NewHandler(a.orchestrator, a.fetcher, loader.Config, version)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(gateway.RequestID)

	r.Get("/health", handler.Health)
	if cfg.Telemetry.MetricsEnabled {
		r.Handle(cfg.Telemetry.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.Middleware())
		r.Get("/modes", handler.ListModes)
		r.With(ratelimit.Middleware(limiter, "reports", rpm, a.metrics)).Post("/reports", handler.Reports)
		r.With(ratelimit.Middleware(limiter, "commits", rpm, a.metrics)).Get("/commits", handler.Commits)
		r.With(ratelimit.Middleware(limiter, "time_entries", rpm, a.metrics)).Get("/time-entries", handler.TimeEntries)
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("autodaily starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("autodaily stopped")
	return nil
}

// connectRedis returns nil when no address is configured or the server is
// unreachable; the rate limiter then lets every request through.
func connectRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if len(cfg.Addresses) == 0 || cfg.Addresses[0] == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addresses[0],
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis not reachable (rate limiting disabled)", "error", err)
		rdb.Close()
		return nil
	}
	logger.Info("redis connected")
	return rdb
}
