package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"promptdeck/internal/config"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
)

// RegisterRequest carries the signup form fields.
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Image           string `json:"image"`
}

// Validate checks the signup fields.
func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(config.MinUsernameLength, config.MaxUsernameLength),
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, 0).Error(
				fmt.Sprintf("must be at least %d characters", config.MinPasswordLength)),
		),
	)
}

// LoginRequest carries the signin form fields.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the signin fields.
func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

// Result is a successful authentication: the signed token plus the account
// profile to show in the client.
type Result struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// Service implements account registration and login over a user repository.
type Service struct {
	users  repositories.UserRepository
	issuer *Issuer
	logger *slog.Logger
}

// NewService creates the auth service.
func NewService(users repositories.UserRepository, issuer *Issuer, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// Register creates an account and signs a token for it. Duplicate email or
// username surfaces as a *domain.ConflictError naming the colliding field.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     strings.ToLower(req.Email),
		Username:  req.Username,
		Password:  string(hash),
		Image:     req.Image,
		Confirmed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return &Result{Token: token, User: user.Profile()}, nil
}

// Login verifies credentials and signs a token. Wrong email and wrong
// password produce the same error so the response does not reveal which
// accounts exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	token, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &Result{Token: token, User: user.Profile()}, nil
}
