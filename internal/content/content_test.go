package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestBundledContentIsConsistent(t *testing.T) {
	store := NewDefaultStore()
	require.NoError(t, store.Validate([]string{"hu", "en"}))
}

func TestSiteLoadsBothLanguages(t *testing.T) {
	store := NewDefaultStore()

	hu, err := store.Site("hu")
	require.NoError(t, err)
	require.Equal(t, "hu", hu.Lang)
	require.Len(t, hu.Services, 6)
	require.Len(t, hu.Process, 4)
	require.Len(t, hu.Pricing.Packages, 4)
	require.Equal(t, "info@dobosdev.hu", hu.Contact.Email)

	en, err := store.Site("en-GB")
	require.NoError(t, err)
	require.Equal(t, "en", en.Lang)
	require.Equal(t, serviceIDs(hu), serviceIDs(en))
}

func TestSiteFallsBackToDefaultLanguage(t *testing.T) {
	store := NewDefaultStore()
	site, err := store.Site("de")
	require.NoError(t, err)
	require.Equal(t, "hu", site.Lang)
}

func TestReferenceUnknownIDIsNotFound(t *testing.T) {
	store := NewDefaultStore()

	ref, err := store.Reference("en", "kavezo")
	require.NoError(t, err)
	require.Equal(t, "kavezo", ref.ID)
	require.NotEmpty(t, ref.GalleryImages)

	for _, id := range []string{"does-not-exist", "", "../hu/site", "a/b"} {
		_, err := store.Reference("en", id)
		require.Truef(t, errors.Is(err, ErrNotFound), "id %q: %v", id, err)
	}
}

func TestReferenceReturnsCopy(t *testing.T) {
	store := NewDefaultStore()
	ref, err := store.Reference("hu", "kavezo")
	require.NoError(t, err)
	ref.GalleryImages[0] = "mutated"

	again, err := store.Reference("hu", "kavezo")
	require.NoError(t, err)
	require.NotEqual(t, "mutated", again.GalleryImages[0])
}

func TestAdjacentWrapsAround(t *testing.T) {
	store := NewDefaultStore()
	prev, next, err := store.Adjacent("hu", "kavezo")
	require.NoError(t, err)
	require.Equal(t, "asztalos", prev.ID)
	require.Equal(t, "asztalos", next.ID)

	_, _, err = store.Adjacent("hu", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLegalRendersSanitizedMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		"data/hu/site.yaml": {Data: []byte("lang: hu\n")},
		"data/legal/hu/privacy.md": {Data: []byte(strings.Join([]string{
			"---",
			"title: Adatkezelés",
			"updated_at: 2025-01-12",
			"---",
			"",
			"## Sütik",
			"",
			"<script>alert(1)</script>",
			"[link](https://example.com)",
		}, "\n"))},
	}
	store := NewStore(fsys, "data", "hu")

	page, err := store.Legal("en", LegalPrivacy)
	require.NoError(t, err)
	require.Equal(t, "Adatkezelés", page.Title)
	require.Equal(t, "hu", page.Lang)
	require.Equal(t, 2025, page.UpdatedAt.Year())
	html := string(page.HTML)
	require.Contains(t, html, "<h2")
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, `rel="nofollow`)
}

func TestLegalUnknownKind(t *testing.T) {
	store := NewDefaultStore()
	_, err := store.Legal("hu", "terms")
	require.ErrorIs(t, err, ErrNotFound)

	page, err := store.Legal("en", LegalImpressum)
	require.NoError(t, err)
	require.Equal(t, "Legal notice", page.Title)
	require.Contains(t, string(page.HTML), "info@dobosdev.hu")
}

func TestValidateReportsMismatchedIDs(t *testing.T) {
	legal := func(lang string) fstest.MapFS {
		return fstest.MapFS{
			"data/legal/" + lang + "/privacy.md":   {Data: []byte("# p")},
			"data/legal/" + lang + "/impressum.md": {Data: []byte("# i")},
		}
	}
	fsys := fstest.MapFS{
		"data/hu/site.yaml": {Data: []byte("references:\n  - id: a\n  - id: a\n")},
		"data/en/site.yaml": {Data: []byte("references:\n  - id: b\n")},
	}
	for k, v := range legal("hu") {
		fsys[k] = v
	}
	for k, v := range legal("en") {
		fsys[k] = v
	}

	err := NewStore(fsys, "data", "hu").Validate([]string{"hu", "en"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 2)
	require.Contains(t, verr.Problems[0], `duplicate reference id "a"`)
	require.Contains(t, verr.Problems[1], "reference ids differ")
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body := splitFrontMatter("---\ntitle: x\n---\n\nbody")
	require.Equal(t, "title: x", fm)
	require.Equal(t, "body", body)

	fm, body = splitFrontMatter("no front matter")
	require.Empty(t, fm)
	require.Equal(t, "no front matter", body)
}
