// Package session identifies browser sessions with a signed cookie.
//
// Panel state itself stays in the browser; the session id only scopes
// request cancellation to one tab set.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "reportviewer"

const idKey = "sid"

type ctxKey struct{}

// NewStore creates the cookie store used for session ids.
func NewStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 7) // 7 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// ID returns the session id for r, issuing a new one when the request has
// none. It must run before anything is written to w.
func ID(w http.ResponseWriter, r *http.Request, store sessions.Store) (string, error) {
	if sid := FromContext(r.Context()); sid != "" {
		return sid, nil
	}

	// A cookie signed with an old secret yields an error and a fresh session;
	// the fresh session is what we want.
	sess, _ := store.Get(r, CookieName)

	if sid, ok := sess.Values[idKey].(string); ok && sid != "" {
		return sid, nil
	}

	sid := uuid.NewString()
	sess.Values[idKey] = sid
	if err := sess.Save(r, w); err != nil {
		return sid, err
	}
	return sid, nil
}

// FromContext returns the session id stored by Middleware, if any.
func FromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}

// Middleware makes sure every request carries a session id cookie and
// stores the id in the request context.
func Middleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, _ := ID(w, r, store)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sid)))
		})
	}
}
