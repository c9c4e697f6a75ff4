package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/fjod/go_shop/internal/session"
	"github.com/google/uuid"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	userIDKey    contextKey = "user_id"
)

const sessionCookieName = "go_shop_session"

// SessionMiddleware attaches a session to every request: it reads the
// session cookie (minting a fresh id when absent), loads or creates the
// session and puts its id and user id on the request context.
func SessionMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(30 * 24 * time.Hour),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess, err := sessions.Load(r.Context(), sessionID)
			if err != nil {
				log.Printf("failed to load session %s: %v", sessionID, err)
				respondError(w, http.StatusInternalServerError, "session_unavailable", "could not load session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			ctx = context.WithValue(ctx, userIDKey, sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// getUserID returns zero for anonymous sessions.
func getUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}
