package seo

import (
	"encoding/json"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Business describes the studio for structured data.
type Business struct {
	Name      string
	URL       string
	Email     string
	Telephone string
	Locality  string
	Country   string
	Logo      string
	Services  []string
}

// ProfessionalService returns the schema.org node for the business.
func ProfessionalService(b Business) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "ProfessionalService",
		"name":     b.Name,
	}
	if b.URL != "" {
		m["url"] = b.URL
	}
	if b.Logo != "" {
		m["logo"] = b.Logo
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if b.Telephone != "" {
		m["telephone"] = b.Telephone
	}
	if b.Locality != "" || b.Country != "" {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"addressLocality": b.Locality,
			"addressCountry":  b.Country,
		}
	}
	if len(b.Services) > 0 {
		offers := make([]map[string]any, 0, len(b.Services))
		for _, s := range b.Services {
			offers = append(offers, map[string]any{
				"@type":       "Offer",
				"itemOffered": map[string]any{"@type": "Service", "name": s},
			})
		}
		m["hasOfferCatalog"] = map[string]any{
			"@type":           "OfferCatalog",
			"name":            b.Name,
			"itemListElement": offers,
		}
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// QA is one FAQ entry.
type QA struct {
	Question string
	Answer   string
}

// FAQPage returns the schema.org FAQPage for the FAQ section.
func FAQPage(items []QA) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for _, it := range items {
		el = append(el, map[string]any{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": el,
	}
}

// CreativeWork describes a portfolio reference.
func CreativeWork(name, description, url, imageURL string, year int) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if year > 0 {
		m["dateCreated"] = year
	}
	return m
}
