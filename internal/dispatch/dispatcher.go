// Package dispatch routes completion requests to the provider serving the
// requested model.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"promptdeck/internal/domain"
	"promptdeck/internal/provider"
)

// Dispatcher resolves the model on each request and delegates generation to
// the matching provider.
type Dispatcher struct {
	registry *provider.Registry
	logger   *slog.Logger
}

// New creates a dispatcher over the given provider registry.
func New(registry *provider.Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch generates one completion for the request. An unknown model is a
// validation error; provider failures pass through unchanged so callers can
// distinguish credential, upstream and transport problems.
func (d *Dispatcher) Dispatch(ctx context.Context, req *provider.GenerateRequest) (string, error) {
	p, ok := d.registry.ProviderFor(req.Model)
	if !ok {
		return "", fmt.Errorf("%w: unknown model %q", domain.ErrValidation, req.Model)
	}

	start := time.Now()
	resp, err := p.Generate(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		d.logger.Error("completion failed",
			"provider", p.Name(),
			"model", req.Model,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", err
	}

	d.logger.Info("completion generated",
		"provider", p.Name(),
		"model", req.Model,
		"duration_ms", elapsed.Milliseconds(),
		"content_length", len(resp.Content),
	)
	return resp.Content, nil
}
