package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openpool/purseledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AccountKey is the context key for the authenticated account name.
	AccountKey contextKey = "account"
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "user_id"
)

// GetAccount extracts the caller's account name from the context.
// Returns empty string if not found.
func GetAccount(ctx context.Context) string {
	account, _ := ctx.Value(AccountKey).(string)
	return account
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// RequireAuth returns middleware that validates JWT bearer tokens and
// requires authentication. It extracts the token from the Authorization
// header, validates it, and adds the account name and user ID to the
// request context.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, auth.ErrMissingToken)
				return
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, auth.ErrInvalidToken)
				return
			}
			tokenString := parts[1]

			// Validate token
			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			// Add caller identity to context
			ctx := context.WithValue(r.Context(), AccountKey, claims.Account)
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
