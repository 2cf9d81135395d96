package web

import (
	"context"
	"net/http"

	"github.com/fjod/evermarket/internal/auth"
)

type contextKey string

const userContextKey contextKey = "user"

const SessionCookieName = "session_id"

// SessionAuth resolves the session cookie into a user and stores it in
// the request context. Requests without a valid session get 401.
func SessionAuth(sessions *auth.SessionManager, users auth.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
				return
			}

			userID, err := sessions.UserID(r.Context(), cookie.Value)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid session")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "unknown user")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFromContext(ctx context.Context) *auth.User {
	if user, ok := ctx.Value(userContextKey).(*auth.User); ok {
		return user
	}
	return nil
}
