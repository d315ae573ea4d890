package web

import (
	"net/http"

	"github.com/jaminalder/tictactoe-timetravel/internal/app"
)

// ensureSessionCookie returns the caller's session id, issuing a new cookie
// when it is missing or malformed.
func ensureSessionCookie(w http.ResponseWriter, r *http.Request, name string) string {
	if id, ok := sessionFromCookie(r, name); ok {
		return id
	}
	c := newSessionCookie(name)
	http.SetCookie(w, c)
	return c.Value
}

func sessionFromCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || !app.ValidSessionID(c.Value) {
		return "", false
	}
	return c.Value, true
}

func newSessionCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    app.NewSessionID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
