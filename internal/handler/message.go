package handler

import (
	"log/slog"
	"net/http"

	"promptdeck/internal/domain/models"
	"promptdeck/internal/httputil"
	"promptdeck/internal/service/workspace"
)

// MessageHandler handles message-level HTTP requests on the current session
type MessageHandler struct {
	workspaces *workspace.Manager
	logger     *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(workspaces *workspace.Manager, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// AddMessageRequest carries a message to append to the current session
type AddMessageRequest struct {
	Role    models.Role `json:"role"`
	Content string      `json:"content"`
}

// UpdateMessageRequest carries replacement content for a message
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// AddMessage appends a message to the current session
// POST /api/messages
func (h *MessageHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req AddMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Role.Valid() {
		httputil.RespondError(w, http.StatusBadRequest, "role must be \"user\" or \"assistant\"")
		return
	}
	if req.Content == "" {
		httputil.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	id, err := ws.Store.AddMessage(req.Role, req.Content)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// ClearMessages empties the current session
// DELETE /api/messages
func (h *MessageHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	if err := ws.Store.ClearMessages(); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateMessage replaces a message's content in place
// PATCH /api/messages/{id}
func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req UpdateMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !ws.Store.UpdateMessageContent(r.PathValue("id"), req.Content) {
		httputil.RespondError(w, http.StatusNotFound, "message not found in current session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartEditing snapshots a user message for editing
// POST /api/messages/{id}/edit
func (h *MessageHandler) StartEditing(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	state := ws.Store.StartEditing(r.PathValue("id"))
	if state == nil {
		httputil.RespondError(w, http.StatusNotFound, "no editable user message with that id")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, state)
}

// CancelEditing discards any active editing state
// DELETE /api/messages/edit
func (h *MessageHandler) CancelEditing(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	ws.Store.CancelEditing()
	w.WriteHeader(http.StatusNoContent)
}
