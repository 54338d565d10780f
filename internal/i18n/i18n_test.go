package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := LoadDefault()
	require.NoError(t, err)

	require.Equal(t, "en", b.Resolve("hu;q=0.8, en;q=0.9"))
	require.Equal(t, "hu", b.Resolve("hu-HU,hu;q=0.9,en;q=0.5"))
	require.Equal(t, "en", b.Resolve("en-GB"))
}

func TestResolveFallsBackToHungarian(t *testing.T) {
	b, err := LoadDefault()
	require.NoError(t, err)

	require.Equal(t, "hu", b.Resolve(""))
	require.Equal(t, "hu", b.Resolve("ja"))
	require.Equal(t, "hu", b.Resolve(";;;"))
}

func TestTranslationFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"l/hu.json": {Data: []byte(`{"a":"alma","b":"körte"}`)},
		"l/en.json": {Data: []byte(`{"a":"apple"}`)},
	}
	b, err := Load(fsys, "l", "hu", []string{"hu", "en"})
	require.NoError(t, err)

	require.Equal(t, "apple", b.T("en", "a"))
	require.Equal(t, "körte", b.T("en", "b"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.True(t, b.Has("en", "b"))
	require.False(t, b.Has("en", "c"))
	require.Equal(t, []string{"en", "hu"}, b.Supported())
}

func TestLoadRequiresFallbackTable(t *testing.T) {
	fsys := fstest.MapFS{"l/en.json": {Data: []byte(`{}`)}}
	_, err := Load(fsys, "l", "hu", []string{"hu", "en"})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	b, err := LoadDefault()
	require.NoError(t, err)

	require.Equal(t, "en", b.Normalize("en_US"))
	require.Equal(t, "hu", b.Normalize("HU"))
	require.Equal(t, "", b.Normalize("de"))
	require.Equal(t, "", b.Normalize(""))
}

func TestBundledTablesShareKeys(t *testing.T) {
	b, err := LoadDefault()
	require.NoError(t, err)
	require.Equal(t, b.Keys("hu"), b.Keys("en"))
	require.Equal(t, "© 2025 DobosDev. All rights reserved.", b.Tf("en", "footer.rights", 2025, "DobosDev"))
	require.Equal(t, "Árak", b.T("hu", "nav.pricing"))
	require.Equal(t, "Pricing", b.T("en", "nav.pricing"))
}
