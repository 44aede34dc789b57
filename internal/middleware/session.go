package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/parlor/internal/auth"
	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/session"
)

const SessionCookieName = "session_id"

// StatusSessionExpired tells the front end that its cookie names a session
// that no longer exists. The room passwords it had entered are gone with it.
const StatusSessionExpired = 419

// Session resolves the session cookie before any handler runs.
//
// Without a cookie a new session is issued and its cookie set. With a
// cookie that no longer resolves, the request is refused with
// StatusSessionExpired and the cookie cleared; no session is issued, so the
// client learns its room access was lost. A resolved session is kept alive.
func Session(manager *session.Manager, secureCookie bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				sess, err := manager.IssueNew(ctx)
				if err != nil {
					logger.Error("issue session", "error", err)
					writeError(w, http.StatusInternalServerError, "could not start a session")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				AddLogAttrs(ctx, slog.String("session", "new"))
				next.ServeHTTP(w, r.WithContext(auth.WithSession(ctx, auth.FromSession(sess, true))))
				return
			}

			sess, err := manager.Resolve(ctx, cookie.Value)
			if errors.Is(err, session.ErrSessionNotFound) {
				metrics.SessionsExpired.Inc()
				AddLogAttrs(ctx, slog.String("session", "expired"))
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				writeError(w, StatusSessionExpired, "session expired")
				return
			}
			if err != nil {
				logger.Error("resolve session", "error", err)
				writeError(w, http.StatusInternalServerError, "could not load your session")
				return
			}

			AddLogAttrs(ctx, slog.String("session", "resumed"), slog.Bool("admin", sess.IsAdmin))
			if err := manager.KeepAlive(ctx, sess); err != nil {
				logger.Warn("keep session alive", "error", err)
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(ctx, auth.FromSession(sess, false))))
		})
	}
}

// RequireAdmin checks that the session has been elevated to admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "you do not have permission to access this page")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
