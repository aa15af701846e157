package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/splax/userscout/pkg/crypto"
)

const sessionTTL = 12 * time.Hour

// sessionManager keeps the EnsembleData API token between searches, sealed
// inside a cookie so the form does not need to resubmit it. The token is
// always handed to the search service as an explicit parameter.
type sessionManager struct {
	secret     string
	cookieName string
	secure     bool
}

func newSessionManager(secret, cookieName string, secure bool) (*sessionManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if strings.TrimSpace(cookieName) == "" {
		cookieName = "userscout_session"
	}
	return &sessionManager{secret: secret, cookieName: cookieName, secure: secure}, nil
}

// makeCookie seals the API token into a session cookie.
func (m *sessionManager) makeCookie(token string) (*http.Cookie, error) {
	sealed, err := crypto.SealString(m.secret, token)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    sealed,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// tokenFromRequest recovers the API token from the session cookie. It
// returns http.ErrNoCookie when no session exists.
func (m *sessionManager) tokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", err
	}
	token, err := crypto.OpenString(m.secret, cookie.Value)
	if err != nil {
		return "", err
	}
	return token, nil
}

// expireCookie clears the session.
func (m *sessionManager) expireCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
