// Package contact validates quote requests and forwards them to the form relay.
package contact

import (
	"errors"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// Form field names shared by the rendered form and FromValues.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldService = "service"
	FieldMessage = "message"
	FieldConsent = "privacyConsent"
	FieldToken   = "h-captcha-response"
)

const (
	maxNameLen    = 120
	maxMessageLen = 5000
)

// ServiceOptions are the selectable service categories, in display order.
var ServiceOptions = []string{"website", "redesign", "landing", "maintenance", "seo", "other"}

var (
	ErrConsentRequired = errors.New("contact: privacy consent required")
	ErrTokenRequired   = errors.New("contact: anti-automation token required")
	ErrRateLimited     = errors.New("contact: too many attempts")
)

// Form is one contact submission.
type Form struct {
	Name    string
	Email   string
	Service string
	Message string
	Consent bool
	Token   string
}

// FromValues reads a submitted form.
func FromValues(v url.Values) Form {
	return Form{
		Name:    strings.TrimSpace(v.Get(FieldName)),
		Email:   strings.TrimSpace(v.Get(FieldEmail)),
		Service: strings.TrimSpace(v.Get(FieldService)),
		Message: strings.TrimSpace(v.Get(FieldMessage)),
		Consent: checked(v.Get(FieldConsent)),
		Token:   strings.TrimSpace(v.Get(FieldToken)),
	}
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// FieldErrors maps a field name to the i18n key of its error message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "contact: invalid fields: " + strings.Join(keys, ", ")
}

// Validate checks the gating conditions first: consent, then the token. Field
// problems come back as FieldErrors.
func (f Form) Validate() error {
	if !f.Consent {
		return ErrConsentRequired
	}
	if strings.TrimSpace(f.Token) == "" {
		return ErrTokenRequired
	}
	fe := FieldErrors{}
	switch {
	case f.Name == "":
		fe[FieldName] = "contact.form.required"
	case utf8.RuneCountInString(f.Name) > maxNameLen:
		fe[FieldName] = "contact.form.tooLong"
	}
	if f.Email == "" {
		fe[FieldEmail] = "contact.form.required"
	} else if !validEmail(f.Email) {
		fe[FieldEmail] = "contact.form.invalidEmail"
	}
	if f.Service == "" {
		fe[FieldService] = "contact.form.required"
	} else if !IsServiceOption(f.Service) {
		fe[FieldService] = "contact.form.invalidService"
	}
	switch {
	case f.Message == "":
		fe[FieldMessage] = "contact.form.required"
	case utf8.RuneCountInString(f.Message) > maxMessageLen:
		fe[FieldMessage] = "contact.form.tooLong"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// IsServiceOption reports whether s is a known service category.
func IsServiceOption(s string) bool {
	for _, o := range ServiceOptions {
		if o == s {
			return true
		}
	}
	return false
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// reject "Name <x@y>" forms; only the bare address is accepted
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}
