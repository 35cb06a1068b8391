package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/af-corp/autodaily/internal/config"
	"github.com/af-corp/autodaily/internal/llm/adapters"
	"github.com/af-corp/autodaily/internal/telemetry"
	"github.com/af-corp/autodaily/internal/types"
)

func geminiGenerator(t *testing.T, handler http.HandlerFunc, apiKey string) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	registry := NewRegistry()
	registry.Register("gemini", adapters.NewGeminiAdapter(config.ProviderConfig{
		Type:    "gemini",
		BaseURL: srv.URL,
		APIKey:  apiKey,
	}, srv.Client()))

	genCfg := config.GenerationConfig{Provider: "gemini", Model: "gemini-2.5-flash", MaxTokens: 1024}
	return NewGenerator(registry, func() config.GenerationConfig { return genCfg }, telemetry.NewMetrics(prometheus.NewRegistry()))
}

func TestGenerator_Success(t *testing.T) {
	g := geminiGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Daily report"}]}}]}`)
	}, "secret")

	if !g.Available() {
		t.Fatal("generator with API key should be available")
	}
	text, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Daily report" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestGenerator_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   types.ErrorKind
	}{
		{"invalid key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"reason":"API_KEY_INVALID"}]}}`, types.KindInvalidServiceKey},
		{"forbidden", http.StatusForbidden, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`, types.KindInvalidServiceKey},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`, types.KindQuotaExceeded},
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"status":"INTERNAL"}}`, types.KindGenerationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := geminiGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, "secret")

			_, err := g.Generate(context.Background(), "prompt")
			if kind := types.KindOf(err); kind != tt.want {
				t.Errorf("expected %q, got %q (%v)", tt.want, kind, err)
			}
		})
	}
}

func TestGenerator_GenerationFailedKeepsRawMessage(t *testing.T) {
	g := geminiGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "backend exploded")
	}, "secret")

	_, err := g.Generate(context.Background(), "prompt")
	e := types.AsError(err)
	if e == nil || e.Kind != types.KindGenerationFailed {
		t.Fatalf("expected generation_failed, got %v", err)
	}
	if e.Details == "" || !containsAny(e.Details, "backend exploded") {
		t.Errorf("expected raw message in details, got %q", e.Details)
	}
}

func TestGenerator_Unavailable(t *testing.T) {
	called := false
	g := geminiGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	if g.Available() {
		t.Error("generator without API key should not be available")
	}
	_, err := g.Generate(context.Background(), "prompt")
	if kind := types.KindOf(err); kind != types.KindServiceUnavailable {
		t.Errorf("expected service_unavailable, got %q", kind)
	}
	if called {
		t.Error("provider should not be called without a credential")
	}
}

func TestGenerator_UnknownProvider(t *testing.T) {
	genCfg := config.GenerationConfig{Provider: "missing"}
	g := NewGenerator(NewRegistry(), func() config.GenerationConfig { return genCfg }, nil)
	if g.Available() {
		t.Error("unregistered provider should not be available")
	}
	if g.Provider() != "missing" {
		t.Errorf("unexpected provider %q", g.Provider())
	}
}

func TestClassify_PlainErrors(t *testing.T) {
	tests := []struct {
		err  error
		want types.ErrorKind
	}{
		{errors.New("googleapi: API_KEY_INVALID"), types.KindInvalidServiceKey},
		{errors.New("QUOTA_EXCEEDED for project"), types.KindQuotaExceeded},
		{errors.New("dial tcp: connection refused"), types.KindGenerationFailed},
		{&adapters.ProviderError{Provider: "openai", StatusCode: 400, Body: `{"error":{"code":"invalid_api_key"}}`}, types.KindInvalidServiceKey},
		{&adapters.ProviderError{Provider: "openai", StatusCode: 400, Body: `{"error":{"type":"insufficient_quota"}}`}, types.KindQuotaExceeded},
	}
	for _, tt := range tests {
		if got := Classify(tt.err).Kind; got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestGenerator_ModelResolution(t *testing.T) {
	tests := []struct {
		name          string
		generation    string
		provider      string
		wantAvailable bool
		wantPath      string
	}{
		{"generation model wins", "gemini-2.5-pro", "gemini-2.5-flash", true, "/models/gemini-2.5-pro:generateContent"},
		{"provider model as fallback", "", "gemini-2.5-flash", true, "/models/gemini-2.5-flash:generateContent"},
		{"no model anywhere", "", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
			}))
			defer srv.Close()

			registry := NewRegistry()
			registry.Register("gemini", adapters.NewGeminiAdapter(config.ProviderConfig{
				Type:    "gemini",
				BaseURL: srv.URL,
				APIKey:  "secret",
				Model:   tt.provider,
			}, srv.Client()))
			genCfg := config.GenerationConfig{Provider: "gemini", Model: tt.generation}
			g := NewGenerator(registry, func() config.GenerationConfig { return genCfg }, nil)

			if g.Available() != tt.wantAvailable {
				t.Fatalf("Available() = %v, want %v", g.Available(), tt.wantAvailable)
			}
			_, err := g.Generate(context.Background(), "prompt")
			if !tt.wantAvailable {
				if kind := types.KindOf(err); kind != types.KindServiceUnavailable {
					t.Errorf("expected service_unavailable, got %q", kind)
				}
				if gotPath != "" {
					t.Error("provider should not be called without a model")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}
