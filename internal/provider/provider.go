// Package provider defines the text-generation backend contract and its
// implementations: remote OpenAI-compatible HTTP providers and local mock
// providers for the demo models.
package provider

import (
	"context"

	"promptdeck/internal/domain/models"
)

// GenerateRequest carries one prompt and its generation parameters.
type GenerateRequest struct {
	Prompt string
	Model  string
	Params models.ParameterProfile

	// Edited marks the prompt as a resubmission of an edited message, and
	// Note carries an optional context line (e.g. an attachment summary).
	// Remote providers ignore both; mock providers surface them in the
	// synthesized reply.
	Edited bool
	Note   string
}

// GenerateResponse is a single completed text generation.
type GenerateResponse struct {
	Content string
	Model   string
}

// Provider is a text-generation backend: accept a prompt and parameters,
// return text or fail. Implementations must be safe for concurrent use.
type Provider interface {
	// Name returns the provider name, e.g. "groq" or "mock".
	Name() string

	// SupportsModel reports whether this provider serves the given model id.
	SupportsModel(model string) bool

	// Generate produces one complete response. It never retries; transient
	// failure handling is a caller decision.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// Registry resolves model ids to providers, in registration order.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// ProviderFor returns the first provider that supports the model.
func (r *Registry) ProviderFor(model string) (Provider, bool) {
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, true
		}
	}
	return nil, false
}

// Providers returns the registered providers in order.
func (r *Registry) Providers() []Provider {
	return r.providers
}
