package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/auth"
)

type ctxKey int

const userKey ctxKey = iota

// Auth validates the Bearer token and puts the authenticated user into the
// request context.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user := domain.User{
				ID:       claims.UserID,
				Username: claims.Username,
				Role:     domain.Role(claims.Role),
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// UserFromContext returns the user injected by Auth.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userKey).(domain.User)
	return u, ok
}
