package seo

import (
	"strings"

	"dobosdev.hu/web/internal/nav"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// Absolute joins baseURL and p.
func Absolute(baseURL, p string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if p == "" {
		p = "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return baseURL + p
}

// SectionAlternates lists the localized addresses of target plus x-default,
// which points at the default language.
func SectionAlternates(baseURL string, target nav.Target) []Alternate {
	out := make([]Alternate, 0, len(nav.Languages)+1)
	for _, lang := range nav.Languages {
		out = append(out, Alternate{Href: Absolute(baseURL, nav.Path(target, lang)), Hreflang: string(lang)})
	}
	out = append(out, Alternate{Href: Absolute(baseURL, nav.Path(target, nav.DefaultLanguage)), Hreflang: "x-default"})
	return out
}

// OGLocale maps a language to the OpenGraph locale.
func OGLocale(lang nav.Language) string {
	if lang == nav.English {
		return "en_US"
	}
	return "hu_HU"
}

// NewMeta fills the common fields shared by every page.
func NewMeta(baseURL, siteName, title, description, path string, lang nav.Language) Meta {
	canonical := Absolute(baseURL, path)
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       Absolute(baseURL, "/assets/img/og.png"),
			Type:        "website",
			URL:         canonical,
			SiteName:    siteName,
			Locale:      OGLocale(lang),
		},
		Twitter: Twitter{
			Card:  "summary_large_image",
			Image: Absolute(baseURL, "/assets/img/og.png"),
		},
	}
}
