package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Locales holds the bundled translation tables, one flat JSON object per language.
//
//go:embed locales/*.json
var Locales embed.FS

type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
	tags      []language.Tag
	bases     []string
	matcher   language.Matcher
}

// Load reads <lang>.json for every supported language from dir inside fsys.
func Load(fsys fs.FS, dir string, fallback string, supported []string) (*Bundle, error) {
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
	}
	if len(supported) == 0 {
		supported = []string{"hu", "en"}
	}
	// matcher defaults to its first tag, so the fallback goes first
	ordered := append([]string{fallback}, supported...)
	for _, l := range ordered {
		if _, dup := b.supported[l]; dup {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", l, err)
		}
		b.supported[l] = struct{}{}
		b.tags = append(b.tags, tag)
		b.bases = append(b.bases, l)

		raw, err := fs.ReadFile(fsys, path.Join(dir, l+".json"))
		if err != nil {
			// allow missing file for non-default locales
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// LoadDefault loads the embedded tables with Hungarian as fallback.
func LoadDefault() (*Bundle, error) {
	return Load(Locales, "locales", "hu", []string{"hu", "en"})
}

func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.supported))
	for k := range b.supported {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a table.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.supported[lang]
	return ok
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if v, ok := b.lookup(lang, key); ok {
		return v
	}
	return key
}

// Tf formats the translation of key with args.
func (b *Bundle) Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Has reports whether key resolves in lang or the fallback.
func (b *Bundle) Has(lang, key string) bool {
	_, ok := b.lookup(lang, key)
	return ok
}

// Keys returns the sorted key set of lang's own table.
func (b *Bundle) Keys(lang string) []string {
	m := b.dict[lang]
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (b *Bundle) lookup(lang, key string) (string, bool) {
	if lang != "" {
		if m, ok := b.dict[lang]; ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Resolve chooses best language from Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	acceptLang = strings.TrimSpace(acceptLang)
	if acceptLang == "" {
		return b.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(desired) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(b.bases) {
		return b.fallback
	}
	return b.bases[idx]
}

// Normalize canonicalises tag to a supported base language, or "" when unsupported.
func (b *Bundle) Normalize(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return ""
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, _ := parsed.Base()
	if b.IsSupported(base.String()) {
		return base.String()
	}
	return ""
}
