package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"promptdeck/internal/auth"
	"promptdeck/internal/httputil"
)

// Auth middleware validates bearer tokens and stores the user id in the
// request context. Auth endpoints and health checks pass through so clients
// can sign in without a token.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized - Please sign in to continue")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized - Invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func isPublicPath(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	if r.URL.Path == "/health" {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/auth/")
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
