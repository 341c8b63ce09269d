package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptdeck/internal/dispatch"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/httputil"
	"promptdeck/internal/provider"
	"promptdeck/internal/service/workspace"
)

type scriptedProvider struct {
	reply string
	err   error
	// last request seen, for assertions
	last *provider.GenerateRequest
}

func (s *scriptedProvider) Name() string                { return "scripted" }
func (s *scriptedProvider) SupportsModel(m string) bool { return m == "gpt-4" }
func (s *scriptedProvider) Generate(_ context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &provider.GenerateResponse{Content: s.reply, Model: req.Model}, nil
}

type completionEnv struct {
	workspaces *workspace.Manager
	handler    *CompletionHandler
	provider   *scriptedProvider
}

func newCompletionEnv(t *testing.T) *completionEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := &scriptedProvider{reply: "generated reply"}
	workspaces := workspace.NewManager("gpt-4", logger)
	dispatcher := dispatch.New(provider.NewRegistry(p), logger)
	return &completionEnv{
		workspaces: workspaces,
		handler:    NewCompletionHandler(workspaces, dispatcher, logger),
		provider:   p,
	}
}

func (e *completionEnv) complete(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/complete", strings.NewReader(body))
	req = httputil.WithUserID(req, "user-1")
	rec := httptest.NewRecorder()
	e.handler.Complete(rec, req)
	return rec
}

func TestCompleteAppendsUserAndAssistantMessages(t *testing.T) {
	env := newCompletionEnv(t)

	rec := env.complete(t, `{"prompt":"Explain goroutines to me"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var sess models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("response is not a session: %v", err)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(sess.Messages))
	}
	if sess.Messages[0].Role != models.RoleUser || sess.Messages[0].Content != "Explain goroutines to me" {
		t.Errorf("first message = %+v, want the user prompt", sess.Messages[0])
	}
	if sess.Messages[1].Role != models.RoleAssistant || sess.Messages[1].Content != "generated reply" {
		t.Errorf("second message = %+v, want the generated reply", sess.Messages[1])
	}
	if sess.Title != "Explain goroutines to me" {
		t.Errorf("title = %q, want it derived from the first prompt", sess.Title)
	}
}

func TestCompleteEditOverwritesReplyInPlace(t *testing.T) {
	env := newCompletionEnv(t)

	// First exchange.
	if rec := env.complete(t, `{"prompt":"original question"}`); rec.Code != http.StatusOK {
		t.Fatalf("seed completion failed: %d %s", rec.Code, rec.Body.String())
	}
	before, _ := env.workspaces.Get("user-1").Store.CurrentSession()
	userID := before.Messages[0].ID
	replyID := before.Messages[1].ID

	// Resubmit the edited user message.
	env.provider.reply = "revised reply"
	rec := env.complete(t, `{"prompt":"revised question","message_id":"`+userID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var sess models.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("response is not a session: %v", err)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages after edit, want 2 (reply overwritten, not appended)", len(sess.Messages))
	}
	if sess.Messages[0].ID != userID || sess.Messages[0].Content != "revised question" {
		t.Errorf("user message = %+v, want same id with new content", sess.Messages[0])
	}
	if sess.Messages[1].ID != replyID || sess.Messages[1].Content != "revised reply" {
		t.Errorf("assistant message = %+v, want same id with new content", sess.Messages[1])
	}
	if env.provider.last == nil || !env.provider.last.Edited {
		t.Error("provider should see the request marked as edited")
	}
}

func TestCompleteDispatchFailureKeepsUserMessage(t *testing.T) {
	env := newCompletionEnv(t)
	env.provider.err = &provider.UpstreamError{Provider: "scripted", Status: 500, Body: "boom"}

	rec := env.complete(t, `{"prompt":"doomed prompt"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	sess, ok := env.workspaces.Get("user-1").Store.CurrentSession()
	if !ok {
		t.Fatal("current session missing")
	}
	if len(sess.Messages) != 1 {
		t.Fatalf("got %d messages, want the user message kept", len(sess.Messages))
	}
	if sess.Messages[0].Role != models.RoleUser || sess.Messages[0].Content != "doomed prompt" {
		t.Errorf("surviving message = %+v, want the user prompt", sess.Messages[0])
	}
}

func TestCompleteUnknownModel(t *testing.T) {
	env := newCompletionEnv(t)

	rec := env.complete(t, `{"prompt":"hi","model":"no-such-model"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	env := newCompletionEnv(t)

	rec := env.complete(t, `{"prompt":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCompleteAttachmentsWithoutPrompt(t *testing.T) {
	env := newCompletionEnv(t)

	rec := env.complete(t, `{"attachments":[{"id":"file-1","name":"notes.txt","size":5,"type":"text/plain"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	sess, _ := env.workspaces.Get("user-1").Store.CurrentSession()
	if sess.Messages[0].Content != "(sent with attachments)" {
		t.Errorf("user message content = %q, want the attachment placeholder", sess.Messages[0].Content)
	}
	if env.provider.last == nil || !strings.Contains(env.provider.last.Note, "notes.txt") {
		t.Error("provider note should mention the attachment")
	}
}

func TestCompleteStaleEditFallsBackToAppend(t *testing.T) {
	env := newCompletionEnv(t)

	rec := env.complete(t, `{"prompt":"hello","message_id":"no-such-message"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	sess, _ := env.workspaces.Get("user-1").Store.CurrentSession()
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want 2 (fresh append on stale edit)", len(sess.Messages))
	}
	if env.provider.last.Edited {
		t.Error("stale edit should dispatch as a fresh submission")
	}
}

func TestWorkspaceIsolationAcrossUsers(t *testing.T) {
	env := newCompletionEnv(t)

	if rec := env.complete(t, `{"prompt":"user one prompt"}`); rec.Code != http.StatusOK {
		t.Fatalf("completion failed: %d", rec.Code)
	}

	other, ok := env.workspaces.Get("user-2").Store.CurrentSession()
	if !ok {
		t.Fatal("user-2 should get an auto-created session")
	}
	if len(other.Messages) != 0 {
		t.Errorf("user-2 session has %d messages, want 0", len(other.Messages))
	}
}
