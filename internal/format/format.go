package format

import (
	"fmt"
	"strings"
	"time"
)

// Price formats a whole forint amount for lang.
// Example: Price(150000, "hu") => "150 000 Ft", Price(150000, "en") => "HUF 150,000"
func Price(amount int64, lang string) string {
	switch normalize(lang) {
	case "en":
		return "HUF " + thousandSep(amount, ",")
	default:
		return thousandSep(amount, " ") + " Ft"
	}
}

func thousandSep(n int64, sep string) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Date formats t in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch normalize(lang) {
	case "en":
		return t.Format("Jan 2, 2006")
	default:
		return t.Format("2006. 01. 02.")
	}
}

// ISODate is the machine-readable form used in datetime attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
