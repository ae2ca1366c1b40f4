// Package adapter provides implementations for external AI provider integrations.
// It uses the Adapter pattern to abstract provider-specific APIs behind a common interface.
package adapter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sanjeev23oct/moodle-augment-2/internal/apperr"
	"github.com/sanjeev23oct/moodle-augment-2/internal/domain"
)

// DefaultTimeout is the HTTP client timeout used when no client is injected.
const DefaultTimeout = 30 * time.Second

// ChatProvider defines the interface for chat-capable provider adapters.
// All chat provider implementations must satisfy this interface.
type ChatProvider interface {
	// ChatCompletion sends the prompt upstream and returns the canonical
	// chat payload. Each invocation performs exactly one outbound HTTP call.
	ChatCompletion(ctx context.Context, prompt string) (ChatResponse, error)

	// Type returns the provider's identifier.
	Type() domain.ProviderType

	// Available reports whether the adapter has the credentials it needs.
	Available() bool
}

// QuestionProvider defines the interface for question-generating provider adapters.
type QuestionProvider interface {
	// GenerateQuestions sends the assembled prompt upstream and returns the
	// model's raw text output for downstream parsing.
	GenerateQuestions(ctx context.Context, prompt string) (string, error)

	// Type returns the provider's identifier.
	Type() domain.ProviderType

	// Model returns the upstream model name reported in responses.
	Model() string

	// Available reports whether the adapter has the credentials it needs.
	Available() bool
}

// ChatResponse is the canonical payload returned to chat plugin clients.
type ChatResponse struct {
	// Response is the assistant text extracted from the provider reply.
	Response string `json:"response"`

	// Provider is the identifier of the backend that produced the response.
	Provider string `json:"provider"`

	// Model is the upstream model name, when the provider reports one.
	Model string `json:"model,omitempty"`

	// Usage carries the provider's token accounting verbatim.
	Usage map[string]any `json:"usage,omitempty"`
}

// options holds construction settings shared by all adapters.
type options struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option is a functional option for configuring adapters.
type Option func(*options)

// WithBaseURL sets a custom API base URL, overriding the configured endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient injects a shared HTTP client. The caller keeps ownership of
// the client and its timeout; adapters never mutate an injected client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets the timeout of the adapter-owned HTTP client.
// It has no effect when a client is injected with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// resolveOptions applies opts and materializes an HTTP client when none was injected.
func resolveOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	return o
}

// notConfigured returns the service-unavailable error reported when a
// provider is missing credentials.
func notConfigured(t domain.ProviderType) *apperr.Error {
	if t == domain.ProviderSnowflake {
		return apperr.Unavailable("Snowflake Cortex credentials not configured")
	}
	return apperr.Unavailable(t.DisplayName() + " API key not configured")
}
