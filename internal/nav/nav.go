package nav

import (
	"path"
	"strings"
)

// Target names a section of the one-page layout. The value doubles as the
// in-page anchor id, so it never changes with the language.
type Target string

const (
	Home       Target = "home"
	Services   Target = "services"
	Process    Target = "process"
	Pricing    Target = "pricing"
	References Target = "references"
	FAQ        Target = "faq"
	Contact    Target = "contact"
)

// Targets lists every section in top-to-bottom document order.
var Targets = []Target{Home, Services, Process, Pricing, References, FAQ, Contact}

// Language is a supported site language.
type Language string

const (
	Hungarian Language = "hu"
	English   Language = "en"
)

// DefaultLanguage is served when nothing else decides.
const DefaultLanguage = Hungarian

// Languages lists supported languages, default first.
var Languages = []Language{Hungarian, English}

// aliases maps each non-home target to its path segment per language.
var aliases = map[Target]map[Language]string{
	Services:   {English: "services", Hungarian: "szolgaltatasok"},
	Process:    {English: "process", Hungarian: "folyamat"},
	Pricing:    {English: "pricing", Hungarian: "arak"},
	References: {English: "references", Hungarian: "referenciak"},
	FAQ:        {English: "faq", Hungarian: "gyik"},
	Contact:    {English: "contact", Hungarian: "kapcsolat"},
}

// reverse is derived from aliases at init so both directions always agree.
var reverse = map[string]alias{}

type alias struct {
	target Target
	lang   Language
}

func init() {
	for t, byLang := range aliases {
		for l, seg := range byLang {
			reverse[seg] = alias{target: t, lang: l}
		}
	}
}

// ParseLanguage returns the supported language for s, or false.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Hungarian:
		return Hungarian, true
	case English:
		return English, true
	}
	return "", false
}

// Other returns the language a toggle switches to.
func (l Language) Other() Language {
	if l == English {
		return Hungarian
	}
	return English
}

// Valid reports whether t is one of the known targets.
func (t Target) Valid() bool {
	for _, known := range Targets {
		if known == t {
			return true
		}
	}
	return false
}

// Path returns the localized URL path for target in lang. Home is always "/".
func Path(t Target, lang Language) string {
	if t == Home {
		return "/"
	}
	byLang, ok := aliases[t]
	if !ok {
		return "/"
	}
	seg, ok := byLang[lang]
	if !ok {
		seg = byLang[DefaultLanguage]
	}
	return "/" + seg
}

// Resolve maps a URL path (or hash) back to its target. The returned language
// is the one the alias belongs to; it is empty for "/" which is shared.
func Resolve(p string) (Target, Language, bool) {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "#")
	if p == "" || p == "/" {
		return Home, "", true
	}
	clean := path.Clean("/" + strings.TrimPrefix(p, "/"))
	seg := strings.TrimPrefix(clean, "/")
	if seg == string(Home) {
		return Home, "", true
	}
	if a, ok := reverse[seg]; ok {
		return a.target, a.lang, true
	}
	return "", "", false
}

// Paths returns every routable section path, both languages, home first.
func Paths() []string {
	out := []string{"/"}
	for _, t := range Targets {
		if t == Home {
			continue
		}
		for _, l := range Languages {
			out = append(out, Path(t, l))
		}
	}
	return out
}

// LabelKey is the i18n key holding the display label of t.
func LabelKey(t Target) string { return "nav." + string(t) }

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Target   Target
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main lists the targets shown in the header; home is reached through the logo.
var Main = []Target{Services, Process, Pricing, References, FAQ, Contact}

// Footer lists the targets shown in the footer quick links.
var Footer = []Target{Home, Services, Process, Pricing, FAQ, Contact}

// Build renders navigation items for lang with active marking the current section.
func Build(items []Target, active Target, lang Language) []RenderedItem {
	out := make([]RenderedItem, 0, len(items))
	for _, t := range items {
		out = append(out, RenderedItem{
			Target:   t,
			Href:     Path(t, lang),
			LabelKey: LabelKey(t),
			Active:   t == active,
		})
	}
	return out
}

var referenceSegments = map[Language]string{
	English:   "reference",
	Hungarian: "referencia",
}

// ReferencePath is the canonical detail route for a reference item.
func ReferencePath(id string) string {
	return ReferencePathFor(id, English)
}

// ReferencePathFor is the detail route in lang. Both forms are routable.
func ReferencePathFor(id string, lang Language) string {
	seg, ok := referenceSegments[lang]
	if !ok {
		seg = referenceSegments[English]
	}
	return "/" + seg + "/" + strings.Trim(id, "/")
}

// Breadcrumbs builds home → references → title for a reference detail page.
func Breadcrumbs(lang Language, id, title string) []Crumb {
	crumbs := []Crumb{
		{Href: "/", LabelKey: LabelKey(Home)},
		{Href: Path(References, lang), LabelKey: LabelKey(References)},
	}
	if id == "" {
		crumbs[len(crumbs)-1].Active = true
		return crumbs
	}
	label := title
	if label == "" {
		label = titleFromSegment(id)
	}
	return append(crumbs, Crumb{Href: ReferencePathFor(id, lang), Label: label, Active: true})
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	r[0] = toUpper(r[0])
	return string(r)
}

func toUpper(r rune) rune {
	// ASCII only is sufficient for slugs here
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
