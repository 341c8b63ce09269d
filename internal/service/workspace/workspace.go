// Package workspace ties each authenticated user to their own session store
// and parameter profile.
package workspace

import (
	"log/slog"
	"sync"

	"promptdeck/internal/params"
	"promptdeck/internal/store"
)

// Workspace is one user's chat state: sessions plus generation parameters.
type Workspace struct {
	Store  *store.Store
	Params *params.Manager
}

// Manager creates and hands out workspaces keyed by user id. A user's first
// request lazily creates their workspace; state lives for the process
// lifetime.
type Manager struct {
	mu           sync.Mutex
	workspaces   map[string]*Workspace
	defaultModel string
	logger       *slog.Logger
}

// NewManager creates an empty workspace manager.
func NewManager(defaultModel string, logger *slog.Logger) *Manager {
	return &Manager{
		workspaces:   make(map[string]*Workspace),
		defaultModel: defaultModel,
		logger:       logger,
	}
}

// Get returns the workspace for the user, creating it on first use.
func (m *Manager) Get(userID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.workspaces[userID]
	if !ok {
		ws = &Workspace{
			Store:  store.New(m.defaultModel, m.logger.With("user_id", userID)),
			Params: params.NewManager(),
		}
		m.workspaces[userID] = ws
		m.logger.Info("workspace created", "user_id", userID)
	}
	return ws
}
