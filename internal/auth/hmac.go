package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// Issuer signs access tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates a token issuer over the shared secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue signs a token carrying the user id and email.
func (i *Issuer) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// HMACVerifier validates tokens signed by an Issuer with the same secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier over the shared secret.
func NewHMACVerifier(secret string, logger *slog.Logger) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		logger: logger,
	}
}

// VerifyToken validates a token and extracts its claims.
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; HMAC verification holds no external resources.
func (v *HMACVerifier) Close() error {
	return nil
}
