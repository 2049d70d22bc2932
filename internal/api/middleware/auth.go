package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/CuteLittleSky/LimboAuth/internal/api/apierr"
)

// Auth creates admin-token authentication middleware. The admin API is an
// operator surface, so a single static bearer token is enough; an empty
// configured token disables the API entirely rather than leaving it open.
func Auth(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if adminToken == "" || token == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
