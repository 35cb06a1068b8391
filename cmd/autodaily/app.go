package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/filter/injection"
	"github.com/af-corp/autodaily/internal/filter/secrets"
	"github.com/af-corp/autodaily/internal/llm"
	"github.com/af-corp/autodaily/internal/locale"
	"github.com/af-corp/autodaily/internal/report"
	"github.com/af-corp/autodaily/internal/sources"
	"github.com/af-corp/autodaily/internal/telemetry"
)

// app is the wired report pipeline shared by the serve and generate commands.
//
// reload rebuilds the provider registry, the source clients and the locale.
// The secrets filter switch and the server, redis and telemetry sections are
// read once at startup.
type app struct {
	loader       *config.Loader
	locale       locale.Locale
	registry     *llm.Registry
	metrics      *telemetry.Metrics
	fetcher      *sources.Fetcher
	generator    *llm.Generator
	orchestrator *report.Orchestrator
}

func newApp(loader *config.Loader, reg prometheus.Registerer) (*app, error) {
	cfg := loader.Config()

	azure, harvest, loc, err := buildSources(cfg)
	if err != nil {
		return nil, err
	}

	metrics := telemetry.NewMetrics(reg)

	fetcher := sources.NewFetcher(azure, harvest, metrics)

	registry := llm.BuildFromConfig(loader.Providers())
	generator := llm.NewGenerator(registry, func() config.GenerationConfig {
		return loader.Config().Generation
	}, metrics)

	var filters report.Filters
	if cfg.Filter.Secrets.Enabled {
		filters.Redactor = secrets.NewScanner()
	}
	filters.Screener = injection.NewScanner(func() config.InjectionFilterConfig {
		return loader.Config().Filter.Injection
	})

	orchestrator := report.New(fetcher, generator, filters, func() config.ReportConfig {
		return loader.Config().Report
	}, metrics)

	slog.Info("report pipeline ready",
		"providers", registry.Names(),
		"generation_provider", generator.Provider(),
		"generation_available", generator.Available(),
		"locale", loc.Tag.String(),
		"secrets_filter", cfg.Filter.Secrets.Enabled,
		"injection_filter", cfg.Filter.Injection.Enabled,
	)

	return &app{
		loader:       loader,
		locale:       loc,
		registry:     registry,
		metrics:      metrics,
		fetcher:      fetcher,
		generator:    generator,
		orchestrator: orchestrator,
	}, nil
}

// reload applies the loader's current configuration. On error the running
// sources are left in place.
func (a *app) reload() error {
	azure, harvest, loc, err := buildSources(a.loader.Config())
	if err != nil {
		return err
	}
	a.fetcher.Swap(azure, harvest)
	a.locale = loc
	a.registry.Replace(llm.BuildFromConfig(a.loader.Providers()))
	return nil
}

func buildSources(cfg *config.Config) (*sources.AzureDevOps, *sources.Harvest, locale.Locale, error) {
	loc, err := locale.New(cfg.Locale.Language, cfg.Locale.Timezone)
	if err != nil {
		return nil, nil, locale.Locale{}, fmt.Errorf("build locale: %w", err)
	}
	azure := sources.NewAzureDevOps(cfg.Sources.AzureDevOps,
		&http.Client{Timeout: cfg.Sources.AzureDevOps.Timeout}, loc)
	harvest := sources.NewHarvest(cfg.Sources.Harvest,
		&http.Client{Timeout: cfg.Sources.Harvest.Timeout}, loc)
	return azure, harvest, loc, nil
}

// newLogger builds the process logger from the telemetry settings.
func newLogger(w io.Writer, cfg config.TelemetryConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
