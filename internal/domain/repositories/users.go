package repositories

import (
	"context"

	"promptdeck/internal/domain/models"
)

// UserRepository stores account records. Create returns a
// *domain.ConflictError naming the colliding field ("email" or "username")
// on duplicates; lookups return domain.ErrNotFound for unknown keys.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
