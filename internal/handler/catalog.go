package handler

import (
	"log/slog"
	"net/http"

	"promptdeck/internal/catalog"
	"promptdeck/internal/httputil"
)

// CatalogHandler serves the model list and the prompt template library
type CatalogHandler struct {
	registry *catalog.Registry
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(registry *catalog.Registry, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListModels returns the selectable models
// GET /api/models
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"models": h.registry.Models(),
	})
}

// ListTemplates returns the prompt template library
// GET /api/templates
func (h *CatalogHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"templates": h.registry.Templates(),
	})
}
