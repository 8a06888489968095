package auth

import (
	"net/http"
	"time"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

// CreateSession issues a token and stores it in the session cookie. The
// cookie expires together with the token.
func (a *Authority) CreateSession(w http.ResponseWriter, subject, role string) (Session, error) {
	token, s, err := a.Issue(subject, role)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// DestroySession removes the session cookie.
func (a *Authority) DestroySession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest returns the valid session carried by r, if any.
func (a *Authority) SessionFromRequest(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	return a.Valid(c.Value)
}

// IsAuthenticated reports whether r carries a valid, unexpired session.
// Every failure reads as false.
func (a *Authority) IsAuthenticated(r *http.Request) bool {
	_, ok := a.SessionFromRequest(r)
	return ok
}
