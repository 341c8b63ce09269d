package handler

import (
	"log/slog"
	"net/http"

	"promptdeck/internal/domain/models"
	"promptdeck/internal/httputil"
	"promptdeck/internal/params"
	"promptdeck/internal/service/workspace"
)

// ParamsHandler handles generation-parameter HTTP requests
type ParamsHandler struct {
	workspaces *workspace.Manager
	logger     *slog.Logger
}

// NewParamsHandler creates a new parameters handler
func NewParamsHandler(workspaces *workspace.Manager, logger *slog.Logger) *ParamsHandler {
	return &ParamsHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// PresetRequest names the preset to apply
type PresetRequest struct {
	Name string `json:"name"`
}

// GetParameters returns the workspace's parameter profile and the preset names
// GET /api/parameters
func (h *ParamsHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"parameters": ws.Params.Profile(),
		"presets":    params.PresetNames(),
	})
}

// UpdateParameters merges a partial update into the profile, clamping each
// provided field to its bounds
// PATCH /api/parameters
func (h *ParamsHandler) UpdateParameters(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var patch models.ParameterPatch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := ws.Params.Update(patch)
	httputil.RespondJSON(w, http.StatusOK, profile)
}

// ApplyPreset replaces the profile with a named preset
// POST /api/parameters/preset
func (h *ParamsHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req PresetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := ws.Params.ApplyPreset(req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}
