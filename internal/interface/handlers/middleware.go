package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userID"

// Authenticator validates a bearer token and returns the user ID it
// belongs to.
type Authenticator interface {
	Authenticate(authHeader string) (string, error)
}

// RequireAuth resolves the user from the Authorization header and stores
// the user ID on the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdminToken guards maintenance endpoints with a shared service
// credential passed in the X-Admin-Token header. An empty configured token
// disables the endpoints entirely; user session tokens never qualify.
func RequireAdminToken(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				writeError(w, http.StatusForbidden, "admin interface is disabled")
				return
			}
			if subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Admin-Token")), []byte(adminToken)) != 1 {
				writeError(w, http.StatusForbidden, "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
