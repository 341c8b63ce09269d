package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// UserRepository stores accounts in the users table. The table carries
// unique indexes on email and username; violations surface as
// ConflictErrors naming the colliding field.
type UserRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewUserRepository creates a postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		pool:   pool,
		logger: logger,
	}
}

// Create inserts a new account record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password, image, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.Password,
		user.Image,
		user.Confirmed,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{Field: DuplicateField(err)}
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByEmail looks up an account by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password, image, confirmed, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID looks up an account by id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, username, password, image, confirmed, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Image,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
