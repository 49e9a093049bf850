package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/warbler-social/warbler/internal/warbler"
)

// The header carrying the caller's key, matching the original client contract.
const apiKeyHeader = "Api-Key"

type contextKey string

const userContextKey contextKey = "user"

// requireAPIKeyMiddleware resolves the Api-Key header to a user and rejects
// the request outright when it can't. Handlers behind it always have a
// caller identity; they never authenticate themselves.
func requireAPIKeyMiddleware(users warbler.UserService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				http.Error(w, "Unauthenticated", http.StatusUnauthorized)
				return
			}

			usr, err := users.UserByAPIKey(r.Context(), key)
			if errors.Is(err, warbler.ErrNotFound) {
				http.Error(w, "Unauthenticated", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, usr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestUser pulls the authenticated caller off the request context.
func requestUser(r *http.Request) warbler.User {
	usr, _ := r.Context().Value(userContextKey).(warbler.User)
	return usr
}
