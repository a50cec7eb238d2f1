package middleware

import (
	"context"
	"net/http"
	"strings"

	"kiranakart/internal/auth"

	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthRequired validates the Bearer token and stores its claims in the
// request context. The health check endpoint is left open.
func AuthRequired(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing authorization header")
				unauthorised(w, "Missing authorization header.")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				unauthorised(w, "Authorization header must be a Bearer token.")
				return
			}

			claims, err := auth.ParseToken(jwtSecret, token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid token")
				unauthorised(w, "Invalid or expired token.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects requests whose claims do not carry the admin role. It
// must run after AuthRequired.
func AdminOnly(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				unauthorised(w, "Authentication required.")
				return
			}

			if !claims.IsAdmin() {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("user_id", claims.UserID.String()).
					Msg("admin route denied")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success": false, "message": "Admin access required."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext retrieves the authenticated claims stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims returns a context carrying claims. Used by tests to call
// handlers without running the full middleware chain.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func unauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success": false, "message": "` + message + `"}`))
}
