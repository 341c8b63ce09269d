package provider

import (
	"log/slog"

	"promptdeck/internal/config"
)

// Setup builds the provider registry from configuration. Remote providers
// are always registered; a missing API key surfaces as a CredentialError at
// dispatch time, which is a configuration error distinct from upstream
// failures.
func Setup(cfg *config.Config, logger *slog.Logger) *Registry {
	registry := NewRegistry(
		NewGroqProvider(cfg.GroqAPIKey),
		NewTogetherProvider(cfg.TogetherAPIKey),
		NewMockProvider(),
	)

	names := make([]string, 0, len(registry.Providers()))
	for _, p := range registry.Providers() {
		names = append(names, p.Name())
	}
	logger.Info("completion providers registered",
		"providers", names,
		"groq_key_set", cfg.GroqAPIKey != "",
		"together_key_set", cfg.TogetherAPIKey != "",
	)

	return registry
}
