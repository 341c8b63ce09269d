package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"promptdeck/internal/auth"
	"promptdeck/internal/httputil"
)

// AuthHandler handles account registration, login and token verification
type AuthHandler struct {
	service  *auth.Service
	verifier auth.TokenVerifier
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *auth.Service, verifier auth.TokenVerifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

// Register creates an account
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// Login signs in an existing account
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Verify reports whether the presented token is valid
// GET /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		httputil.RespondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	claims, err := h.verifier.VerifyToken(token)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"valid":  true,
		"userId": claims.GetUserID(),
		"email":  claims.Email,
	})
}
