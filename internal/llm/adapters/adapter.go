package adapters

import (
	"context"
	"fmt"
	"net/http"
)

// Request is a single-prompt text-generation call.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Response is the generated text plus token accounting when the provider
// reports it.
type Response struct {
	Text     string
	Model    string
	Provider string
	Usage    Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ProviderAdapter transforms requests/responses between a plain prompt and
// provider-specific API formats.
type ProviderAdapter interface {
	Name() string
	// Configured reports whether the adapter holds a credential to call with.
	Configured() bool
	// DefaultModel is the provider's configured model, possibly empty.
	DefaultModel() string
	TransformRequest(ctx context.Context, req *Request) (*http.Request, error)
	TransformResponse(ctx context.Context, resp *http.Response) (*Response, error)
	// SendRequest sends an HTTP request using the provider's configured client.
	SendRequest(req *http.Request) (*http.Response, error)
}

// ProviderError is returned by TransformResponse when the provider answers
// with a non-200 status. Body holds the raw payload for classification.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
}
