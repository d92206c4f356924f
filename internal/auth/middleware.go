package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CookieName holds the session token.
const CookieName = "wagewise_session"

type contextKey string

const sessionKey contextKey = "session"

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the signed-in session, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok && s.UserID != ""
}

// UserID returns the signed-in user's id or "".
func UserID(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.UserID
}

// Middleware resolves the session cookie into the request context. Requests
// without a valid cookie pass through anonymously.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err == nil && c.Value != "" {
				if s, err := issuer.Verify(c.Value); err == nil {
					r = r.WithContext(WithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require rejects anonymous requests. Page requests are redirected to the
// login form; HTMX and JSON callers get 401.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodGet && r.Header.Get("HX-Request") == "" &&
			!strings.Contains(r.Header.Get("Accept"), "application/json") {
			http.Redirect(w, r, "/login?reason=expired", http.StatusSeeOther)
			return
		}
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	})
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
