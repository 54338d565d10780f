package middleware

import (
	"context"

	"dobosdev.hu/web/internal/nav"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyRequestID ctxKey = "req_id"
	ctxKeyIsHTMX    ctxKey = "is_htmx"
	ctxKeySession   ctxKey = "session"
	ctxKeyLang      ctxKey = "lang"
	ctxKeyConsent   ctxKey = "consent"
)

// WithRequestID stores request id in context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestID gets request id from context
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyRequestID).(string)
	return v, ok
}

// WithHTMX marks request as HTMX
func WithHTMX(ctx context.Context, is bool) context.Context {
	return context.WithValue(ctx, ctxKeyIsHTMX, is)
}

// IsHTMX returns whether this is an htmx request
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(ctxKeyIsHTMX).(bool)
	return v
}

// WithLang stores the resolved language.
func WithLang(ctx context.Context, lang nav.Language) context.Context {
	return context.WithValue(ctx, ctxKeyLang, lang)
}

// LangFromContext returns the resolved language or the default language.
func LangFromContext(ctx context.Context) nav.Language {
	if v, ok := ctx.Value(ctxKeyLang).(nav.Language); ok && v != "" {
		return v
	}
	return nav.DefaultLanguage
}

// WithConsent stores the cookie consent choice ("" when undecided).
func WithConsent(ctx context.Context, c Consent) context.Context {
	return context.WithValue(ctx, ctxKeyConsent, c)
}

// ConsentFromContext returns the cookie consent choice.
func ConsentFromContext(ctx context.Context) Consent {
	v, _ := ctx.Value(ctxKeyConsent).(Consent)
	return v
}
