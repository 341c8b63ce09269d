// Package catalog serves the model list and the prompt template library
// from an embedded YAML file.
package catalog

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"promptdeck/internal/domain"
)

//go:embed config/catalog.yaml
var configFiles embed.FS

// Registry holds the model and template catalogs loaded at startup.
type Registry struct {
	models    []ModelInfo
	templates []Template
	mu        sync.RWMutex
}

// NewRegistry loads the embedded catalog file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("catalog defines no models")
	}

	return &Registry{
		models:    file.Models,
		templates: file.Templates,
	}, nil
}

// Models returns all models in catalog order.
func (r *Registry) Models() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ModelInfo, len(r.models))
	copy(out, r.models)
	return out
}

// Model returns the model with the given id.
func (r *Registry) Model(id string) (ModelInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.models {
		if m.ID == id {
			return m, nil
		}
	}
	return ModelInfo{}, fmt.Errorf("%w: unknown model %q", domain.ErrNotFound, id)
}

// Templates returns all prompt templates in catalog order.
func (r *Registry) Templates() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Template returns the template with the given id.
func (r *Registry) Template(id string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: unknown template %q", domain.ErrNotFound, id)
}
