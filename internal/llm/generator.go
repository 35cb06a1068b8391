package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/llm/adapters"
	"github.com/af-corp/autodaily/internal/telemetry"
	"github.com/af-corp/autodaily/internal/types"
)

// Generator sends prompts to the provider selected by the generation config.
// The provider is resolved on every call so registry and config reloads take
// effect without rebuilding the Generator.
type Generator struct {
	registry *Registry
	cfg      func() config.GenerationConfig
	metrics  *telemetry.Metrics
}

func NewGenerator(registry *Registry, cfg func() config.GenerationConfig, metrics *telemetry.Metrics) *Generator {
	return &Generator{registry: registry, cfg: cfg, metrics: metrics}
}

// Provider returns the configured provider name.
func (g *Generator) Provider() string { return g.cfg().Provider }

// Available reports whether the configured provider is registered, holds a
// credential and has a model to call.
func (g *Generator) Available() bool {
	cfg := g.cfg()
	adapter, ok := g.registry.Get(cfg.Provider)
	return ok && adapter.Configured() && modelFor(cfg, adapter) != ""
}

// modelFor prefers generation.model over the provider's own model.
func modelFor(cfg config.GenerationConfig, adapter adapters.ProviderAdapter) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return adapter.DefaultModel()
}

// Generate returns the provider's text for prompt. Failures are returned as
// *types.Error classified by Classify.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := g.cfg()
	adapter, ok := g.registry.Get(cfg.Provider)
	if !ok || !adapter.Configured() {
		return "", types.NewError(types.KindServiceUnavailable, "Generation service not configured",
			"no credential configured for provider "+cfg.Provider)
	}
	model := modelFor(cfg, adapter)
	if model == "" {
		return "", types.NewError(types.KindServiceUnavailable, "Generation service not configured",
			"no model configured for provider "+cfg.Provider)
	}

	start := time.Now()
	resp, err := g.call(ctx, adapter, &adapters.Request{
		Model:     model,
		Prompt:    prompt,
		MaxTokens: cfg.MaxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		classified := Classify(err)
		slog.Error("generation failed",
			"provider", adapter.Name(),
			"model", model,
			"kind", classified.Kind,
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		g.record(adapter.Name(), string(classified.Kind), duration)
		return "", classified
	}

	slog.Info("generation completed",
		"provider", resp.Provider,
		"model_served", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", duration.Milliseconds(),
	)
	g.record(adapter.Name(), "success", duration)
	return resp.Text, nil
}

func (g *Generator) call(ctx context.Context, adapter adapters.ProviderAdapter, req *adapters.Request) (*adapters.Response, error) {
	httpReq, err := adapter.TransformRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	httpResp, err := adapter.SendRequest(httpReq)
	if err != nil {
		return nil, err
	}
	return adapter.TransformResponse(ctx, httpResp)
}

func (g *Generator) record(provider, outcome string, d time.Duration) {
	if g.metrics != nil {
		g.metrics.RecordGeneration(provider, outcome, float64(d.Milliseconds()))
	}
}

// Classify maps a provider failure onto the error taxonomy: rejected
// credentials become invalid_service_key, exhausted quota becomes
// quota_exceeded, anything else generation_failed with the raw message.
func Classify(err error) *types.Error {
	if err == nil {
		return nil
	}

	var perr *adapters.ProviderError
	if errors.As(err, &perr) {
		switch {
		case perr.StatusCode == http.StatusUnauthorized,
			perr.StatusCode == http.StatusForbidden,
			containsAny(perr.Body, "API_KEY_INVALID", "API key not valid", "invalid_api_key", "authentication_error"):
			return types.NewError(types.KindInvalidServiceKey, "Invalid generation service key",
				"Check the API key configured for "+perr.Provider)
		case perr.StatusCode == http.StatusTooManyRequests,
			containsAny(perr.Body, "QUOTA_EXCEEDED", "RESOURCE_EXHAUSTED", "insufficient_quota", "rate_limit_error"):
			return types.NewError(types.KindQuotaExceeded, "Generation service quota exceeded",
				"Wait a few minutes and try again")
		}
		return types.NewError(types.KindGenerationFailed, "Failed to generate report", perr.Error())
	}

	msg := err.Error()
	switch {
	case containsAny(msg, "API_KEY_INVALID", "API key not valid"):
		return types.NewError(types.KindInvalidServiceKey, "Invalid generation service key", msg)
	case containsAny(msg, "QUOTA_EXCEEDED", "RESOURCE_EXHAUSTED"):
		return types.NewError(types.KindQuotaExceeded, "Generation service quota exceeded", msg)
	}
	return types.NewError(types.KindGenerationFailed, "Failed to generate report", msg)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
