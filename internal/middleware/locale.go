package middleware

import (
	"net/http"
	"strings"
	"time"

	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/nav"
)

// LanguageCookie persists the language preference.
const LanguageCookie = "language"

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// append to existing Vary if any
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}

// Locale resolves the request language: a localized path alias wins, then the
// hl query override, then the language cookie, then Accept-Language.
func Locale(bundle *i18n.Bundle, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := resolveLang(w, r, bundle, secure)
			w.Header().Set("Content-Language", string(lang))
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

func resolveLang(w http.ResponseWriter, r *http.Request, bundle *i18n.Bundle, secure bool) nav.Language {
	if lang, ok := PathLanguage(r.URL.Path); ok {
		return lang
	}
	if q := bundle.Normalize(r.URL.Query().Get("hl")); q != "" {
		lang, _ := nav.ParseLanguage(q)
		SetLanguageCookie(w, lang, secure)
		return lang
	}
	if c, err := r.Cookie(LanguageCookie); err == nil {
		if lang, ok := nav.ParseLanguage(c.Value); ok {
			return lang
		}
	}
	lang, ok := nav.ParseLanguage(bundle.Resolve(r.Header.Get("Accept-Language")))
	if !ok {
		return nav.DefaultLanguage
	}
	return lang
}

// PathLanguage reports the language implied by a localized path. Shared
// paths such as "/" imply nothing.
func PathLanguage(p string) (nav.Language, bool) {
	if _, lang, ok := nav.Resolve(p); ok && lang != "" {
		return lang, true
	}
	for _, lang := range nav.Languages {
		if strings.HasPrefix(p, nav.ReferencePathFor("", lang)) {
			return lang, true
		}
	}
	return "", false
}

// SetLanguageCookie persists lang for a year.
func SetLanguageCookie(w http.ResponseWriter, lang nav.Language, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookie,
		Value:    string(lang),
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
}
