package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"dobosdev.hu/web/internal/nav"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Sitemap renders sitemap.xml for every section path in both languages plus
// the given reference ids.
func Sitemap(baseURL string, referenceIDs []string, lastMod time.Time) ([]byte, error) {
	set := urlset{XMLNS: sitemapNS}
	mod := ""
	if !lastMod.IsZero() {
		mod = lastMod.UTC().Format("2006-01-02")
	}
	for _, p := range nav.Paths() {
		priority := "0.8"
		if p == "/" {
			priority = "1.0"
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: Absolute(baseURL, p), LastMod: mod, Priority: priority})
	}
	for _, id := range referenceIDs {
		set.URLs = append(set.URLs, sitemapURL{Loc: Absolute(baseURL, nav.ReferencePath(id)), LastMod: mod, Priority: "0.5"})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string, allow bool) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if allow {
		b.WriteString("Allow: /\n")
		b.WriteString("Disallow: /prefs/\n")
	} else {
		b.WriteString("Disallow: /\n")
	}
	b.WriteString("\nSitemap: " + Absolute(baseURL, "/sitemap.xml") + "\n")
	return b.String()
}
