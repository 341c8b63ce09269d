package handler

import (
	"log/slog"
	"net/http"

	"promptdeck/internal/httputil"
	"promptdeck/internal/service/workspace"
)

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	workspaces *workspace.Manager
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(workspaces *workspace.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// CreateSessionRequest carries the optional model for a new session
type CreateSessionRequest struct {
	Model string `json:"model"`
}

// RenameSessionRequest carries the new title for a session
type RenameSessionRequest struct {
	Title string `json:"title"`
}

// ListSessions returns all sessions plus the current-session pointer
// GET /api/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions":   ws.Store.Sessions(),
		"current_id": ws.Store.CurrentID(),
	})
}

// CreateSession creates a new session and makes it current
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req CreateSessionRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	sess := ws.Store.CreateSession(req.Model)
	httputil.RespondJSON(w, http.StatusCreated, sess)
}

// GetSession returns one session by id
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	sess, ok := ws.Store.Session(r.PathValue("id"))
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sess)
}

// RenameSession replaces a session's title
// PATCH /api/sessions/{id}
func (h *SessionHandler) RenameSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req RenameSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := ws.Store.RenameSession(id, req.Title); err != nil {
		handleError(w, err)
		return
	}

	sess, _ := ws.Store.Session(id)
	httputil.RespondJSON(w, http.StatusOK, sess)
}

// DeleteSession removes a session; unknown ids are a no-op
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	ws.Store.DeleteSession(r.PathValue("id"))
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"current_id": ws.Store.CurrentID(),
	})
}

// ActivateSession switches the current-session pointer
// POST /api/sessions/{id}/activate
func (h *SessionHandler) ActivateSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	id := r.PathValue("id")
	if err := ws.Store.SetCurrentSession(id); err != nil {
		handleError(w, err)
		return
	}

	sess, _ := ws.Store.Session(id)
	httputil.RespondJSON(w, http.StatusOK, sess)
}
