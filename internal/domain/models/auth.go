package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is an account record. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Image     string    `json:"image,omitempty"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the user shape returned to clients after register/login.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Image     string `json:"image,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// Profile strips the credential fields from a user record.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Image:     u.Image,
		Confirmed: u.Confirmed,
	}
}

// Claims is the JWT claims set carried by bearer tokens. Locally issued
// tokens set sub to the user id and email to the account email; externally
// issued tokens (JWKS mode) must provide at least the subject.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
