package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CookieName    = "session_id"
	DefaultMaxAge = 30 * time.Minute
)

// ReadID returns the session id carried by the request cookie, or uuid.Nil if
// the cookie is absent or does not hold a valid id.
func ReadID(r *http.Request) uuid.UUID {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func WriteID(w http.ResponseWriter, id uuid.UUID, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
