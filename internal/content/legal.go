package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// Legal document kinds shown as dialogs.
const (
	LegalPrivacy   = "privacy"
	LegalImpressum = "impressum"
)

// LegalKinds lists every legal document the site must carry.
var LegalKinds = []string{LegalPrivacy, LegalImpressum}

// LegalPage is a rendered, sanitized legal document.
type LegalPage struct {
	Kind      string
	Lang      string
	Title     string
	Subtitle  string
	UpdatedAt time.Time
	HTML      template.HTML
}

type legalFrontMatter struct {
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
}

// IsLegalKind reports whether kind names a known legal document.
func IsLegalKind(kind string) bool {
	for _, k := range LegalKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Legal returns the legal document kind in lang, falling back to the default language.
func (s *Store) Legal(lang, kind string) (LegalPage, error) {
	kind = sanitizeSlug(kind)
	if !IsLegalKind(kind) {
		return LegalPage{}, ErrNotFound
	}
	lang = normalizeLang(lang)
	cacheKey := lang + "|" + kind

	s.mu.RLock()
	page, ok := s.legal[cacheKey]
	s.mu.RUnlock()
	if ok {
		return page, nil
	}

	page, err := s.readLegal(lang, kind)
	if errors.Is(err, ErrNotFound) && lang != s.fallback {
		page, err = s.readLegal(s.fallback, kind)
	}
	if err != nil {
		return LegalPage{}, err
	}
	s.mu.Lock()
	s.legal[cacheKey] = page
	s.mu.Unlock()
	return page, nil
}

func (s *Store) readLegal(lang, kind string) (LegalPage, error) {
	file := path.Join(s.dir, "legal", lang, kind+".md")
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LegalPage{}, ErrNotFound
		}
		return LegalPage{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := legalFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return LegalPage{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	html, err := s.markdown.render(body)
	if err != nil {
		return LegalPage{}, fmt.Errorf("content: render %s: %w", file, err)
	}
	page := LegalPage{
		Kind:      kind,
		Lang:      firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:     strings.TrimSpace(front.Title),
		Subtitle:  strings.TrimSpace(front.Subtitle),
		UpdatedAt: parseContentDate(front.UpdatedAt),
		HTML:      html,
	}
	if page.Title == "" {
		page.Title = prettifySlug(kind)
	}
	return page, nil
}

// renderer turns markdown into sanitized HTML.
type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newRenderer() *renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "section", "table", "td", "th")
	policy.AllowAttrs("id").OnElements("h2", "h3")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: policy,
	}
}

func (r *renderer) render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\uFEFF")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006. 01. 02.",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
