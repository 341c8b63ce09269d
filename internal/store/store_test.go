package store

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

func newTestStore() *Store {
	return New("gpt-4", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewStoreStartsWithOneCurrentSession(t *testing.T) {
	s := newTestStore()

	sessions := s.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 auto-created session, got %d", len(sessions))
	}
	if sessions[0].Title != "New Chat 1" {
		t.Errorf("title = %q, want %q", sessions[0].Title, "New Chat 1")
	}
	if sessions[0].Model != "gpt-4" {
		t.Errorf("model = %q, want %q", sessions[0].Model, "gpt-4")
	}
	if s.CurrentID() != sessions[0].ID {
		t.Errorf("current = %q, want %q", s.CurrentID(), sessions[0].ID)
	}
}

func TestCreateSessionPrependsAndBecomesCurrent(t *testing.T) {
	s := newTestStore()

	second := s.CreateSession("claude-opus")
	sessions := s.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != second.ID {
		t.Errorf("new session should be first in store order")
	}
	if second.Title != "New Chat 2" {
		t.Errorf("title = %q, want %q", second.Title, "New Chat 2")
	}
	if s.CurrentID() != second.ID {
		t.Errorf("new session should be current")
	}
}

func TestTitleCounterSurvivesDeletes(t *testing.T) {
	s := newTestStore()
	second := s.CreateSession("")
	s.DeleteSession(second.ID)

	third := s.CreateSession("")
	if third.Title != "New Chat 3" {
		t.Errorf("title = %q, want %q (counter must not reuse numbers)", third.Title, "New Chat 3")
	}
}

// P1: message ids are pairwise distinct, even within the same millisecond.
func TestMessageIDUniqueness(t *testing.T) {
	s := newTestStore()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := s.AddMessage(models.RoleUser, fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate message id %q at iteration %d", id, i)
		}
		seen[id] = true
	}
}

// P2: messages added while session A is current never appear in session B.
func TestSessionIsolation(t *testing.T) {
	s := newTestStore()
	a := s.CurrentID()
	b := s.CreateSession("").ID

	if _, err := s.AddMessage(models.RoleUser, "for B"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	if err := s.SetCurrentSession(a); err != nil {
		t.Fatalf("SetCurrentSession: %v", err)
	}
	if _, err := s.AddMessage(models.RoleUser, "for A"); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	sessA, _ := s.Session(a)
	sessB, _ := s.Session(b)
	if len(sessA.Messages) != 1 || sessA.Messages[0].Content != "for A" {
		t.Errorf("session A messages = %+v", sessA.Messages)
	}
	if len(sessB.Messages) != 1 || sessB.Messages[0].Content != "for B" {
		t.Errorf("session B messages = %+v", sessB.Messages)
	}
}

func TestSetCurrentSessionUnknownID(t *testing.T) {
	s := newTestStore()
	before := s.CurrentID()

	err := s.SetCurrentSession("no-such-session")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if err != domain.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if s.CurrentID() != before {
		t.Errorf("current session changed on failed switch")
	}
}

func TestAddMessageWithoutCurrentSession(t *testing.T) {
	s := newTestStore()
	s.DeleteSession(s.CurrentID())

	if _, err := s.AddMessage(models.RoleUser, "hello"); err != domain.ErrNoSession {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

// Scenario A: upsert after a user message with no reply inserts one.
func TestUpsertInsertsReply(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "Hello")

	if !s.UpsertAssistantResponse(m1, "Hi there") {
		t.Fatal("upsert should succeed")
	}

	cur, _ := s.CurrentSession()
	if len(cur.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(cur.Messages))
	}
	if cur.Messages[0].ID != m1 || cur.Messages[0].Content != "Hello" {
		t.Errorf("user message mutated: %+v", cur.Messages[0])
	}
	if cur.Messages[1].Role != models.RoleAssistant || cur.Messages[1].Content != "Hi there" {
		t.Errorf("reply = %+v", cur.Messages[1])
	}
}

// Scenario B: edit, update, resubmit - the reply is overwritten in place.
func TestEditResubmitOverwritesReply(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "Hello")
	s.UpsertAssistantResponse(m1, "Hi there")

	cur, _ := s.CurrentSession()
	replyID := cur.Messages[1].ID

	editing := s.StartEditing(m1)
	if editing == nil || editing.MessageID != m1 || editing.Content != "Hello" {
		t.Fatalf("editing state = %+v", editing)
	}

	if !s.UpdateMessageContent(m1, "Hello again") {
		t.Fatal("UpdateMessageContent should find the message")
	}
	if s.Editing() != nil {
		t.Error("editing state should be cleared by UpdateMessageContent")
	}

	if !s.UpsertAssistantResponse(m1, "Hi again") {
		t.Fatal("upsert should succeed")
	}

	cur, _ = s.CurrentSession()
	if len(cur.Messages) != 2 {
		t.Fatalf("expected 2 messages after resubmit, got %d", len(cur.Messages))
	}
	if cur.Messages[0].Content != "Hello again" {
		t.Errorf("user content = %q", cur.Messages[0].Content)
	}
	if cur.Messages[1].ID != replyID {
		t.Errorf("reply id changed on overwrite")
	}
	if cur.Messages[1].Content != "Hi again" {
		t.Errorf("reply content = %q", cur.Messages[1].Content)
	}
}

// P3: two upserts in direct succession leave exactly one reply.
func TestUpsertIdempotentOnRepeatEdits(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "question")

	s.UpsertAssistantResponse(m1, "first answer")
	s.UpsertAssistantResponse(m1, "second answer")

	cur, _ := s.CurrentSession()
	if len(cur.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(cur.Messages))
	}
	if cur.Messages[1].Content != "second answer" {
		t.Errorf("reply = %q, want %q", cur.Messages[1].Content, "second answer")
	}
}

// P4: insertion shifts later messages by one, otherwise unchanged.
func TestUpsertInsertShiftsLaterMessages(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "first")
	m2, _ := s.AddMessage(models.RoleUser, "second")
	s.UpsertAssistantResponse(m2, "answer to second")

	if !s.UpsertAssistantResponse(m1, "answer to first") {
		t.Fatal("upsert should succeed")
	}

	cur, _ := s.CurrentSession()
	want := []struct {
		id      string
		role    models.Role
		content string
	}{
		{m1, models.RoleUser, "first"},
		{"", models.RoleAssistant, "answer to first"},
		{m2, models.RoleUser, "second"},
		{"", models.RoleAssistant, "answer to second"},
	}
	if len(cur.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(cur.Messages))
	}
	for i, w := range want {
		got := cur.Messages[i]
		if w.id != "" && got.ID != w.id {
			t.Errorf("messages[%d].ID = %q, want %q", i, got.ID, w.id)
		}
		if got.Role != w.role || got.Content != w.content {
			t.Errorf("messages[%d] = {%s %q}, want {%s %q}", i, got.Role, got.Content, w.role, w.content)
		}
	}
}

// The reconciliation scan is bounded: an assistant message that belongs to a
// later exchange must not be mistaken for the reply to an earlier message.
func TestUpsertScanStopsAtNextUserMessage(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "unanswered")
	m2, _ := s.AddMessage(models.RoleUser, "answered")
	s.UpsertAssistantResponse(m2, "reply to second")

	if !s.UpsertAssistantResponse(m1, "late reply to first") {
		t.Fatal("upsert should succeed")
	}

	cur, _ := s.CurrentSession()
	if len(cur.Messages) != 4 {
		t.Fatalf("expected insertion (4 messages), got %d", len(cur.Messages))
	}
	if cur.Messages[1].Content != "late reply to first" {
		t.Errorf("messages[1] = %q, want the inserted reply", cur.Messages[1].Content)
	}
	if cur.Messages[3].Content != "reply to second" {
		t.Errorf("unrelated reply was overwritten: %q", cur.Messages[3].Content)
	}
}

func TestUpsertUnknownTargetFails(t *testing.T) {
	s := newTestStore()
	s.AddMessage(models.RoleUser, "hello")

	if s.UpsertAssistantResponse("missing-id", "reply") {
		t.Error("upsert against a missing target must return false")
	}
	cur, _ := s.CurrentSession()
	if len(cur.Messages) != 1 {
		t.Errorf("store mutated on failed upsert")
	}
}

// P5: editing an assistant message leaves editing state unchanged.
func TestStartEditingRejectsAssistantMessages(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "hello")
	s.UpsertAssistantResponse(m1, "hi")
	cur, _ := s.CurrentSession()
	replyID := cur.Messages[1].ID

	if got := s.StartEditing(replyID); got != nil {
		t.Errorf("StartEditing(assistant) = %+v, want nil", got)
	}
	if s.Editing() != nil {
		t.Error("editing state should remain nil")
	}

	if got := s.StartEditing("unknown-id"); got != nil {
		t.Errorf("StartEditing(unknown) = %+v, want nil", got)
	}
}

func TestCancelEditing(t *testing.T) {
	s := newTestStore()
	m1, _ := s.AddMessage(models.RoleUser, "hello")
	s.StartEditing(m1)
	s.CancelEditing()

	if s.Editing() != nil {
		t.Error("editing state should be cleared")
	}
}

func TestEditingStateDiscardedOnSessionSwitch(t *testing.T) {
	s := newTestStore()
	a := s.CurrentID()
	m1, _ := s.AddMessage(models.RoleUser, "hello")
	s.StartEditing(m1)

	s.CreateSession("")
	if s.Editing() != nil {
		t.Error("editing state should not survive a session switch")
	}

	s.SetCurrentSession(a)
	if s.Editing() != nil {
		t.Error("editing state should not reappear")
	}
}

// Scenario C: deleting the only session leaves no current session; a new
// session can still be created and becomes current.
func TestDeleteLastSession(t *testing.T) {
	s := newTestStore()
	s.DeleteSession(s.CurrentID())

	if s.CurrentID() != "" {
		t.Errorf("current = %q, want none", s.CurrentID())
	}
	if len(s.Sessions()) != 0 {
		t.Errorf("expected empty store")
	}

	created := s.CreateSession("")
	if s.CurrentID() != created.ID {
		t.Error("newly created session should become current")
	}
}

func TestDeleteCurrentPromotesFirstRemaining(t *testing.T) {
	s := newTestStore()
	first := s.CurrentID()
	second := s.CreateSession("").ID
	third := s.CreateSession("").ID // store order: third, second, first

	s.DeleteSession(third)
	if s.CurrentID() != second {
		t.Errorf("current = %q, want first remaining %q", s.CurrentID(), second)
	}

	// Deleting a non-current session leaves the pointer alone.
	s.DeleteSession(first)
	if s.CurrentID() != second {
		t.Errorf("current = %q, want %q", s.CurrentID(), second)
	}
}

func TestDeleteSessionUnknownIDIsNoop(t *testing.T) {
	s := newTestStore()
	s.DeleteSession("no-such-session")

	if len(s.Sessions()) != 1 {
		t.Error("unknown-id delete must not remove anything")
	}
}

func TestClearMessagesKeepsSession(t *testing.T) {
	s := newTestStore()
	id := s.CurrentID()
	s.AddMessage(models.RoleUser, "one")
	s.AddMessage(models.RoleAssistant, "two")

	if err := s.ClearMessages(); err != nil {
		t.Fatalf("ClearMessages: %v", err)
	}

	cur, ok := s.CurrentSession()
	if !ok || cur.ID != id {
		t.Fatal("session should survive ClearMessages")
	}
	if len(cur.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(cur.Messages))
	}
}

func TestUpdateMessageContentUnknownID(t *testing.T) {
	s := newTestStore()
	s.AddMessage(models.RoleUser, "hello")

	if s.UpdateMessageContent("missing", "new") {
		t.Error("update of a missing message must report false")
	}
}

func TestFirstUserMessageDerivesTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short prompt", "Explain goroutines", "Explain goroutines"},
		{"trimmed", "  padded prompt  ", "padded prompt"},
		{
			"long prompt cut at 40 runes",
			strings.Repeat("a", 50),
			strings.Repeat("a", 40) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.AddMessage(models.RoleUser, tt.content)
			cur, _ := s.CurrentSession()
			if cur.Title != tt.want {
				t.Errorf("title = %q, want %q", cur.Title, tt.want)
			}
		})
	}
}

func TestRenamedSessionKeepsTitle(t *testing.T) {
	s := newTestStore()
	if err := s.RenameSession(s.CurrentID(), "My research"); err != nil {
		t.Fatalf("RenameSession: %v", err)
	}

	s.AddMessage(models.RoleUser, "first prompt")
	cur, _ := s.CurrentSession()
	if cur.Title != "My research" {
		t.Errorf("title = %q, want the explicit rename to win", cur.Title)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := newTestStore()
	s.AddMessage(models.RoleUser, "original")

	cur, _ := s.CurrentSession()
	cur.Messages[0].Content = "mutated"

	again, _ := s.CurrentSession()
	if again.Messages[0].Content != "original" {
		t.Error("snapshot mutation leaked into the store")
	}
}
