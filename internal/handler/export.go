package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"promptdeck/internal/export"
	"promptdeck/internal/httputil"
	"promptdeck/internal/service/workspace"
)

// ExportHandler serves session downloads as JSON or markdown
type ExportHandler struct {
	workspaces *workspace.Manager
	logger     *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(workspaces *workspace.Manager, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// ExportSession downloads one session
// GET /api/sessions/{id}/export?format=json|markdown
func (h *ExportHandler) ExportSession(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	sess, ok := ws.Store.Session(r.PathValue("id"))
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	now := time.Now()

	switch format {
	case "json":
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(sess, "json")))
		httputil.RespondJSON(w, http.StatusOK, export.ToRecord(sess, now))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(sess, "md")))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(export.ToTranscript(sess, now)))
	default:
		httputil.RespondError(w, http.StatusBadRequest, "format must be \"json\" or \"markdown\"")
	}
}
