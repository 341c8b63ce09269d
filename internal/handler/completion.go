package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"promptdeck/internal/config"
	"promptdeck/internal/dispatch"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/httputil"
	"promptdeck/internal/provider"
	"promptdeck/internal/service/workspace"
)

// CompletionHandler handles the send-prompt flow: record the user message,
// generate a reply, reconcile it into the session
type CompletionHandler struct {
	workspaces *workspace.Manager
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewCompletionHandler creates a new completion handler
func NewCompletionHandler(workspaces *workspace.Manager, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{
		workspaces: workspaces,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CompleteRequest carries one prompt submission. MessageID marks a
// resubmission of an edited user message; Attachments reference files
// already stored via the upload endpoint.
type CompleteRequest struct {
	Prompt      string            `json:"prompt"`
	Model       string            `json:"model"`
	MessageID   string            `json:"message_id"`
	Attachments []models.FileMeta `json:"attachments"`
}

// Complete runs one prompt through a provider.
// POST /api/complete
//
// The user message is recorded before dispatch and stays in the session even
// when generation fails, so a retry resubmits rather than retypes. On the
// edit path the assistant reply is reconciled in place; a reconciliation
// miss (message no longer present) falls back to appending.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ws := h.workspaces.Get(httputil.GetUserID(r))

	var req CompleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && len(req.Attachments) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if len(prompt) > config.MaxPromptLength {
		httputil.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("prompt exceeds %d characters", config.MaxPromptLength))
		return
	}

	model := req.Model
	if model == "" {
		if cur, ok := ws.Store.CurrentSession(); ok {
			model = cur.Model
		}
	}

	content := prompt
	if content == "" {
		content = "(sent with attachments)"
	}

	edited := req.MessageID != ""
	targetID := req.MessageID
	if edited {
		if ws.Store.UpdateMessageContent(req.MessageID, content) {
			ws.Store.CancelEditing()
		} else {
			// Stale edit target: record as a fresh message instead.
			edited = false
			targetID = ""
		}
	}
	if targetID == "" {
		id, err := ws.Store.AddMessage(models.RoleUser, content)
		if err != nil {
			handleError(w, err)
			return
		}
		targetID = id
	}

	note := attachmentNote(req.Attachments)
	reply, err := h.dispatcher.Dispatch(r.Context(), &provider.GenerateRequest{
		Prompt: prompt,
		Model:  model,
		Params: ws.Params.Profile(),
		Edited: edited,
		Note:   note,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	if !ws.Store.UpsertAssistantResponse(targetID, reply) {
		if _, err := ws.Store.AddMessage(models.RoleAssistant, reply); err != nil {
			handleError(w, err)
			return
		}
	}

	sess, ok := ws.Store.CurrentSession()
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sess)
}

func attachmentNote(attachments []models.FileMeta) string {
	if len(attachments) == 0 {
		return ""
	}
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.Name)
	}
	return fmt.Sprintf("Attachments received: %s", strings.Join(names, ", "))
}
