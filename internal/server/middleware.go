package server

import (
	"context"
	"errors"
	"net/http"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionMiddleware resolves the bearer token to a hunt session and stores
// it in the request context.
func sessionMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokenFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			sess, err := store.SessionByToken(r.Context(), hashToken(token))
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) Session {
	return r.Context().Value(ctxKeySession).(Session)
}
