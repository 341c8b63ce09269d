// Package memory provides in-process repository implementations used when no
// database is configured.
package memory

import (
	"context"
	"strings"
	"sync"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// UserRepository keeps accounts in process memory, indexed by id, email and
// username. All state is lost on restart.
type UserRepository struct {
	mu       sync.RWMutex
	byID     map[string]*models.User
	byEmail  map[string]string
	byName   map[string]string
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

// Create stores a new account. Duplicate email or username fails with a
// ConflictError naming the colliding field; email is the one reported when
// both collide.
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return &domain.ConflictError{Field: "email"}
	}
	if _, exists := r.byName[user.Username]; exists {
		return &domain.ConflictError{Field: "username"}
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[email] = user.ID
	r.byName[user.Username] = user.ID
	return nil
}

// GetByEmail looks up an account by email, case-insensitively.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := *r.byID[id]
	return &user, nil
}

// GetByID looks up an account by id.
func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := *stored
	return &user, nil
}
