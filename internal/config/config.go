package config

import (
	"fmt"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	RateLimit  RateLimitConfig  `yaml:"ratelimit"`
	Sources    SourcesConfig    `yaml:"sources"`
	Locale     LocaleConfig     `yaml:"locale"`
	Generation GenerationConfig `yaml:"generation"`
	Report     ReportConfig     `yaml:"report"`
	Filter     FilterConfig     `yaml:"filter"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsPath    string `yaml:"metrics_path"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type SourcesConfig struct {
	AzureDevOps AzureDevOpsConfig `yaml:"azure_devops"`
	Harvest     HarvestConfig     `yaml:"harvest"`
}

type AzureDevOpsConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIVersion string        `yaml:"api_version"`
	PageSize   int           `yaml:"page_size"`
	Timeout    time.Duration `yaml:"timeout"`
}

type HarvestConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	PageSize  int           `yaml:"page_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

type LocaleConfig struct {
	Language string `yaml:"language"`
	Timezone string `yaml:"timezone"`
}

// GenerationConfig selects the text-generation provider from providers.yaml.
// An empty Model defers to the provider's own model setting.
type GenerationConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type ReportConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// PropagateSourceErrors surfaces the most specific adapter failure when
	// no data was collected. When false, failures collapse into no_data_found.
	PropagateSourceErrors bool `yaml:"propagate_source_errors"`
}

type FilterConfig struct {
	Secrets   SecretsFilterConfig   `yaml:"secrets"`
	Injection InjectionFilterConfig `yaml:"injection"`
}

type SecretsFilterConfig struct {
	Enabled bool `yaml:"enabled"`
}

// InjectionFilterConfig screens commit messages and notes for text that tries
// to steer the model. Records scoring at or above FlagThreshold are logged
// and counted; at or above NeutralizeThreshold the matched text is replaced
// before it reaches the prompt.
type InjectionFilterConfig struct {
	Enabled             bool    `yaml:"enabled"`
	FlagThreshold       float64 `yaml:"flag_threshold"`
	NeutralizeThreshold float64 `yaml:"neutralize_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Redis: RedisConfig{
			DB:       0,
			PoolSize: 10,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			LogFormat:      "json",
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
		},
		Sources: SourcesConfig{
			AzureDevOps: AzureDevOpsConfig{
				BaseURL:    "https://dev.azure.com",
				APIVersion: "7.1",
				PageSize:   100,
				Timeout:    15 * time.Second,
			},
			Harvest: HarvestConfig{
				BaseURL:   "https://api.harvestapp.com/v2",
				UserAgent: "autodaily (https://github.com/af-corp/autodaily)",
				PageSize:  100,
				Timeout:   15 * time.Second,
			},
		},
		Locale: LocaleConfig{
			Language: "en-US",
			Timezone: "Local",
		},
		Generation: GenerationConfig{
			Provider:  "gemini",
			MaxTokens: 4096,
		},
		Report: ReportConfig{
			Timeout:               90 * time.Second,
			PropagateSourceErrors: true,
		},
		Filter: FilterConfig{
			Secrets: SecretsFilterConfig{Enabled: true},
			Injection: InjectionFilterConfig{
				Enabled:             true,
				FlagThreshold:       0.7,
				NeutralizeThreshold: 0.9,
			},
		},
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	if ps := c.Sources.AzureDevOps.PageSize; ps <= 0 || ps > 100 {
		return fmt.Errorf("sources.azure_devops.page_size must be within 1..100, got %d", ps)
	}
	if ps := c.Sources.Harvest.PageSize; ps <= 0 || ps > 100 {
		return fmt.Errorf("sources.harvest.page_size must be within 1..100, got %d", ps)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("ratelimit.requests_per_minute must be positive when enabled")
	}
	if inj := c.Filter.Injection; inj.Enabled {
		if inj.FlagThreshold <= 0 || inj.NeutralizeThreshold > 1 || inj.FlagThreshold > inj.NeutralizeThreshold {
			return fmt.Errorf("filter.injection thresholds must satisfy 0 < flag_threshold <= neutralize_threshold <= 1")
		}
	}
	if c.Generation.Provider == "" {
		return fmt.Errorf("generation.provider is required")
	}
	return nil
}
