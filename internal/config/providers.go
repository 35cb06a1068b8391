package config

import "time"

// ProvidersConfig is the contents of providers.yaml: the text-generation
// backends a report can be sent to, keyed by the name generation.provider
// refers to.
type ProvidersConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes one text-generation backend.
type ProviderConfig struct {
	// Type selects the wire format: gemini, openai or anthropic. Unknown
	// types are treated as OpenAI-compatible.
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Model is used when generation.model is empty.
	Model         string            `yaml:"model"`
	APIVersion    string            `yaml:"api_version,omitempty"`
	MaxConcurrent int               `yaml:"max_concurrent"`
	Timeout       time.Duration     `yaml:"timeout"`
	Headers       map[string]string `yaml:"headers,omitempty"`
}

