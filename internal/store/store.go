package store

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptdeck/internal/config"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// Store owns the canonical list of chat sessions for one workspace, the
// current-session pointer and the transient editing state. It is the single
// source of truth consumed by dispatch, export and the HTTP layer; no other
// component mutates sessions directly.
//
// Sessions are kept most-recent-first (display order). Every public
// operation is atomic under one mutex, so no two mutations interleave
// mid-operation. A new store starts with exactly one auto-created session.
type Store struct {
	mu           sync.Mutex
	sessions     []*models.Session
	currentID    string
	editing      *models.EditingState
	titleSeq     int
	defaultModel string
	logger       *slog.Logger
}

// New creates a store holding one auto-created current session bound to
// defaultModel.
func New(defaultModel string, logger *slog.Logger) *Store {
	s := &Store{
		defaultModel: defaultModel,
		logger:       logger,
	}
	s.mu.Lock()
	s.createSessionLocked(defaultModel)
	s.mu.Unlock()
	return s
}

// CreateSession creates a new session bound to model (the store default when
// empty), prepends it to the session list and makes it current.
func (s *Store) CreateSession(model string) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.createSessionLocked(model)
	s.logger.Info("session created",
		"id", sess.ID,
		"title", sess.Title,
		"model", sess.Model,
	)
	return copySession(sess)
}

func (s *Store) createSessionLocked(model string) *models.Session {
	if model == "" {
		model = s.defaultModel
	}

	s.titleSeq++
	sess := &models.Session{
		ID:        uuid.NewString(),
		Title:     fmt.Sprintf("New Chat %d", s.titleSeq),
		Messages:  []models.Message{},
		CreatedAt: time.Now(),
		Model:     model,
	}

	s.sessions = append([]*models.Session{sess}, s.sessions...)
	s.currentID = sess.ID
	s.editing = nil
	return sess
}

// DeleteSession removes the session. Deleting an unknown id is a no-op.
// If the deleted session was current, the first remaining session becomes
// current, or none when the store empties.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.currentID == id {
		s.currentID = ""
		s.editing = nil
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		}
	}

	s.logger.Info("session deleted", "id", id, "current", s.currentID)
}

// SetCurrentSession switches the current-session pointer. An unknown id is
// an explicit error (mapped to 404 upstream), never a silent success.
// Switching sessions discards any active editing state, which is scoped to
// the session it started in.
func (s *Store) SetCurrentSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return domain.ErrNotFound
	}
	if s.currentID != id {
		s.editing = nil
	}
	s.currentID = id
	return nil
}

// RenameSession replaces a session's display title.
func (s *Store) RenameSession(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > config.MaxSessionTitleLength {
		return fmt.Errorf("%w: title must be 1-%d characters", domain.ErrValidation, config.MaxSessionTitleLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	s.sessions[idx].Title = title
	return nil
}

// AddMessage appends a message with a fresh unique id and current timestamp
// to the current session. The first user message also titles a session that
// still carries its placeholder title.
func (s *Store) AddMessage(role models.Role, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return "", domain.ErrNoSession
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	cur.Messages = append(cur.Messages, msg)

	if role == models.RoleUser && len(cur.Messages) == 1 && isPlaceholderTitle(cur.Title) {
		if derived := DeriveTitle(content); derived != "" {
			cur.Title = derived
		}
	}

	return msg.ID, nil
}

// ClearMessages empties the current session's message sequence without
// deleting the session. Any active editing state is discarded with them.
func (s *Store) ClearMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return domain.ErrNoSession
	}
	cur.Messages = []models.Message{}
	s.editing = nil
	return nil
}

// UpdateMessageContent replaces the content of a message in the current
// session and refreshes its timestamp, preserving id, role and position.
// If an editing state was active for that id it is cleared as a side
// effect. Returns false when no such message exists (stale client state,
// not a fault).
func (s *Store) UpdateMessageContent(id, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return false
	}

	for i := range cur.Messages {
		if cur.Messages[i].ID != id {
			continue
		}
		cur.Messages[i].Content = content
		cur.Messages[i].Timestamp = time.Now()
		if s.editing != nil && s.editing.MessageID == id {
			s.editing = nil
		}
		return true
	}
	return false
}

// StartEditing enters editing state for a user-role message in the current
// session, snapshotting its content. Any other id is silently ignored:
// assistant messages and unknown ids indicate stale client state, not a
// fault. Returns the new editing state, or nil when ignored.
func (s *Store) StartEditing(id string) *models.EditingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return nil
	}

	for i := range cur.Messages {
		if cur.Messages[i].ID == id && cur.Messages[i].Role == models.RoleUser {
			s.editing = &models.EditingState{
				MessageID: cur.Messages[i].ID,
				Content:   cur.Messages[i].Content,
			}
			snapshot := *s.editing
			return &snapshot
		}
	}
	return nil
}

// CancelEditing clears the editing state unconditionally.
func (s *Store) CancelEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// Editing returns a copy of the active editing state, or nil.
func (s *Store) Editing() *models.EditingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return nil
	}
	snapshot := *s.editing
	return &snapshot
}

// UpsertAssistantResponse reconciles newly generated assistant content with
// the current session after a (re)submission of the user message
// afterMessageID:
//
//  1. If that user message is not in the current session, nothing is
//     mutated and false is returned; the caller falls back to AddMessage.
//  2. Otherwise the first assistant message after it - scanning no further
//     than the next user-role message, since anything beyond belongs to a
//     different exchange - is overwritten in place, keeping its id and
//     position.
//  3. With no such reply, a new assistant message is inserted immediately
//     after the user message.
func (s *Store) UpsertAssistantResponse(afterMessageID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return false
	}

	userIdx := -1
	for i := range cur.Messages {
		if cur.Messages[i].ID == afterMessageID {
			userIdx = i
			break
		}
	}
	if userIdx < 0 {
		return false
	}

	replyIdx := -1
	for i := userIdx + 1; i < len(cur.Messages); i++ {
		if cur.Messages[i].Role == models.RoleUser {
			break
		}
		if cur.Messages[i].Role == models.RoleAssistant {
			replyIdx = i
			break
		}
	}

	if replyIdx >= 0 {
		cur.Messages[replyIdx].Content = content
		cur.Messages[replyIdx].Timestamp = time.Now()
		return true
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
	cur.Messages = append(cur.Messages, models.Message{})
	copy(cur.Messages[userIdx+2:], cur.Messages[userIdx+1:])
	cur.Messages[userIdx+1] = msg
	return true
}

// Sessions returns snapshots of all sessions, most-recent-first.
func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, copySession(sess))
	}
	return out
}

// Session returns a snapshot of the session with the given id.
func (s *Store) Session(id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Session{}, false
	}
	return copySession(s.sessions[idx]), true
}

// CurrentSession returns a snapshot of the current session, if any.
func (s *Store) CurrentSession() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentLocked()
	if cur == nil {
		return models.Session{}, false
	}
	return copySession(cur), true
}

// CurrentID returns the current session id, or "" when the store is empty.
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

func (s *Store) currentLocked() *models.Session {
	if s.currentID == "" {
		return nil
	}
	if idx := s.indexLocked(s.currentID); idx >= 0 {
		return s.sessions[idx]
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, sess := range s.sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func copySession(sess *models.Session) models.Session {
	out := *sess
	out.Messages = make([]models.Message, len(sess.Messages))
	copy(out.Messages, sess.Messages)
	return out
}

// DeriveTitle builds a session title from the first prompt: trimmed, cut at
// MaxDerivedTitleLength runes with an ellipsis.
func DeriveTitle(firstMessage string) string {
	cleaned := strings.TrimSpace(firstMessage)
	runes := []rune(cleaned)
	if len(runes) <= config.MaxDerivedTitleLength {
		return cleaned
	}
	return string(runes[:config.MaxDerivedTitleLength]) + "..."
}

// isPlaceholderTitle reports whether title is an auto-generated "New Chat N"
// placeholder rather than something the user chose.
func isPlaceholderTitle(title string) bool {
	rest, ok := strings.CutPrefix(title, "New Chat ")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
