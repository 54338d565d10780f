package middleware

import (
	"net/http"
	"strings"
	"time"
)

// ConsentCookie persists the cookie banner decision.
const ConsentCookie = "cookie-consent"

// Consent is the visitor's cookie choice.
type Consent string

const (
	ConsentUndecided Consent = ""
	ConsentAccepted  Consent = "accepted"
	ConsentNecessary Consent = "necessary"
)

// ParseConsent accepts only the two stored values.
func ParseConsent(v string) (Consent, bool) {
	switch Consent(strings.ToLower(strings.TrimSpace(v))) {
	case ConsentAccepted:
		return ConsentAccepted, true
	case ConsentNecessary:
		return ConsentNecessary, true
	}
	return ConsentUndecided, false
}

// Analytics reports whether statistics cookies may be used.
func (c Consent) Analytics() bool { return c == ConsentAccepted }

// ConsentState loads the cookie-consent flag into the request context.
func ConsentState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := ConsentUndecided
		if ck, err := r.Cookie(ConsentCookie); err == nil {
			c, _ = ParseConsent(ck.Value)
		}
		next.ServeHTTP(w, r.WithContext(WithConsent(r.Context(), c)))
	})
}

// SetConsentCookie persists c for a year.
func SetConsentCookie(w http.ResponseWriter, c Consent, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ConsentCookie,
		Value:    string(c),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}
