package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a content record cannot be located.
var ErrNotFound = errors.New("content: not found")

// Data is the bundled content tree: <lang>/site.yaml and legal/<lang>/<kind>.md.
//
//go:embed data
var Data embed.FS

const defaultDataDir = "data"

// Site is the structured, localized content of the one-page layout.
type Site struct {
	Lang          string        `yaml:"lang"`
	Hero          Hero          `yaml:"hero"`
	Services      []Service     `yaml:"services"`
	Process       []ProcessStep `yaml:"process"`
	Pricing       Pricing       `yaml:"pricing"`
	About         About         `yaml:"about"`
	References    []Reference   `yaml:"references"`
	NextReference NextReference `yaml:"nextReference"`
	FAQ           []FAQ         `yaml:"faq"`
	Contact       ContactInfo   `yaml:"contact"`
}

// Hero holds the highlight lists shown next to the headline.
type Hero struct {
	ForWho         []string `yaml:"forWho"`
	WhatYouGet     []string `yaml:"whatYouGet"`
	WhatsDifferent []string `yaml:"whatsDifferent"`
}

// Service is one offered service card.
type Service struct {
	ID          string   `yaml:"id"`
	Icon        string   `yaml:"icon"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Timeframe   string   `yaml:"timeframe"`
	PriceFrom   int64    `yaml:"priceFrom"`
}

// ProcessStep is one step of the collaboration process.
type ProcessStep struct {
	ID          string `yaml:"id"`
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Pricing groups the packages with the hourly rate and disclaimer.
type Pricing struct {
	Packages   []PricingPackage `yaml:"packages"`
	HourlyRate HourlyRate       `yaml:"hourlyRate"`
	Disclaimer string           `yaml:"disclaimer"`
}

// PricingPackage is one price card.
type PricingPackage struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       int64    `yaml:"price"`
	PriceFrom   bool     `yaml:"priceFrom"`
	Features    []string `yaml:"features"`
	Popular     bool     `yaml:"popular"`
}

// HourlyRate describes ad-hoc work billing.
type HourlyRate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
}

// About is the short introduction next to the references.
type About struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Highlights  []string `yaml:"highlights"`
}

// Reference is a portfolio item. It has no mutation path.
type Reference struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Description        string   `yaml:"description"`
	Category           string   `yaml:"category"`
	Image              string   `yaml:"image"`
	ScrollAnimationURL string   `yaml:"scrollAnimationUrl"`
	GalleryImages      []string `yaml:"galleryImages"`
	URL                string   `yaml:"url"`
	Stack              []string `yaml:"stack"`
	Year               int      `yaml:"year"`
}

// NextReference is the call-to-action card closing the references grid.
type NextReference struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	CTA         string `yaml:"cta"`
}

// FAQ is a question with its answer.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// ContactInfo lists the public contact channels.
type ContactInfo struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

// Store serves localized content from an fs.FS, caching parsed documents.
type Store struct {
	fsys     fs.FS
	dir      string
	fallback string
	markdown *renderer

	mu    sync.RWMutex
	sites map[string]*Site
	legal map[string]LegalPage
}

// NewStore reads content from dir inside fsys. Missing languages fall back to fallback.
func NewStore(fsys fs.FS, dir, fallback string) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDataDir
	}
	return &Store{
		fsys:     fsys,
		dir:      dir,
		fallback: fallback,
		markdown: newRenderer(),
		sites:    map[string]*Site{},
		legal:    map[string]LegalPage{},
	}
}

// NewDefaultStore serves the bundled content with Hungarian as fallback.
func NewDefaultStore() *Store {
	return NewStore(Data, defaultDataDir, "hu")
}

// Site returns the site content for lang.
func (s *Store) Site(lang string) (*Site, error) {
	lang = normalizeLang(lang)
	s.mu.RLock()
	site, ok := s.sites[lang]
	s.mu.RUnlock()
	if ok {
		return site, nil
	}

	site, err := s.readSite(lang)
	if errors.Is(err, ErrNotFound) && lang != s.fallback {
		site, err = s.readSite(s.fallback)
	}
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sites[lang] = site
	s.mu.Unlock()
	return site, nil
}

// Reference looks up one reference by id. Unknown ids yield ErrNotFound.
func (s *Store) Reference(lang, id string) (Reference, error) {
	id = sanitizeSlug(id)
	if id == "" {
		return Reference{}, ErrNotFound
	}
	site, err := s.Site(lang)
	if err != nil {
		return Reference{}, err
	}
	for _, ref := range site.References {
		if ref.ID == id {
			return cloneReference(ref), nil
		}
	}
	return Reference{}, fmt.Errorf("reference %q: %w", id, ErrNotFound)
}

// Adjacent returns the references before and after id, wrapping around.
func (s *Store) Adjacent(lang, id string) (prev, next Reference, err error) {
	site, err := s.Site(lang)
	if err != nil {
		return Reference{}, Reference{}, err
	}
	refs := site.References
	for i, ref := range refs {
		if ref.ID != id {
			continue
		}
		if len(refs) < 2 {
			return Reference{}, Reference{}, nil
		}
		p := refs[(i-1+len(refs))%len(refs)]
		n := refs[(i+1)%len(refs)]
		return cloneReference(p), cloneReference(n), nil
	}
	return Reference{}, Reference{}, fmt.Errorf("reference %q: %w", id, ErrNotFound)
}

func (s *Store) readSite(lang string) (*Site, error) {
	file := path.Join(s.dir, lang, "site.yaml")
	raw, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", file, err)
	}
	if site.Lang == "" {
		site.Lang = lang
	}
	return &site, nil
}

// Validate checks that every language carries the same service, package and
// reference ids and that reference ids are unique and routable.
func (s *Store) Validate(langs []string) error {
	var problems []string
	var base *Site
	var baseLang string
	for _, lang := range langs {
		site, err := s.readSite(normalizeLang(lang))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", lang, err))
			continue
		}
		seen := map[string]bool{}
		for _, ref := range site.References {
			if sanitizeSlug(ref.ID) != ref.ID || ref.ID == "" {
				problems = append(problems, fmt.Sprintf("%s: reference id %q is not a valid slug", lang, ref.ID))
			}
			if seen[ref.ID] {
				problems = append(problems, fmt.Sprintf("%s: duplicate reference id %q", lang, ref.ID))
			}
			seen[ref.ID] = true
		}
		for _, kind := range LegalKinds {
			if _, err := s.readLegal(lang, kind); err != nil {
				problems = append(problems, fmt.Sprintf("%s: legal %s: %v", lang, kind, err))
			}
		}
		if base == nil {
			base, baseLang = site, lang
			continue
		}
		problems = append(problems, diffIDs(baseLang, lang, "service", serviceIDs(base), serviceIDs(site))...)
		problems = append(problems, diffIDs(baseLang, lang, "package", packageIDs(base), packageIDs(site))...)
		problems = append(problems, diffIDs(baseLang, lang, "reference", referenceIDs(base), referenceIDs(site))...)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError lists content inconsistencies.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "content validation failed: " + strings.Join(e.Problems, "; ")
}

func diffIDs(baseLang, lang, kind string, want, got []string) []string {
	if strings.Join(want, ",") == strings.Join(got, ",") {
		return nil
	}
	return []string{fmt.Sprintf("%s ids differ between %s [%s] and %s [%s]",
		kind, baseLang, strings.Join(want, ","), lang, strings.Join(got, ","))}
}

func serviceIDs(s *Site) []string {
	out := make([]string, 0, len(s.Services))
	for _, v := range s.Services {
		out = append(out, v.ID)
	}
	return out
}

func packageIDs(s *Site) []string {
	out := make([]string, 0, len(s.Pricing.Packages))
	for _, v := range s.Pricing.Packages {
		out = append(out, v.ID)
	}
	return out
}

func referenceIDs(s *Site) []string {
	out := make([]string, 0, len(s.References))
	for _, v := range s.References {
		out = append(out, v.ID)
	}
	return out
}

func cloneReference(src Reference) Reference {
	cp := src
	cp.GalleryImages = append([]string(nil), src.GalleryImages...)
	cp.Stack = append([]string(nil), src.Stack...)
	return cp
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}
	if strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}
