package middleware

import (
	"net/http"
	"strings"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
)

type tokenVerifier interface {
	ValidateAccessToken(token string) (auth.Identity, error)
}

// Auth verifies the bearer token and stores the resulting identity in the
// request context. Requests without a token pass through anonymous; requests
// with a bad token are refused outright.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			ident, err := verifier.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := auth.WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
