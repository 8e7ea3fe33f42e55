package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const userIDKey contextKey = iota

// UserID returns the authenticated user for a request that passed Middleware.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// BearerToken extracts the token from the Authorization header, falling back
// to the "token" query parameter for websocket upgrades where browsers cannot
// set headers.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

func Middleware(tokens *TokenService, revoker Revoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := BearerToken(r)
			if tokenString == "" {
				http.Error(w, "missing authorization token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				http.Error(w, "invalid authorization token", http.StatusUnauthorized)
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("error checking token revocation", "error", err)
				http.Error(w, "error verifying token", http.StatusInternalServerError)
				return
			}
			if revoked {
				http.Error(w, "token has been revoked", http.StatusUnauthorized)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				http.Error(w, "invalid authorization token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// RevocationTTL is how long a revoked token ID must stay on the denylist.
func (c *Claims) RevocationTTL() time.Duration {
	if c.ExpiresAt == nil {
		return time.Hour
	}
	return time.Until(c.ExpiresAt.Time) + time.Minute
}
