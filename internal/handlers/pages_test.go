package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"dobosdev.hu/web/internal/config"
	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	bundle, err := i18n.LoadDefault()
	require.NoError(t, err)
	return &Builder{Bundle: bundle, Store: content.NewDefaultStore(), BaseURL: "https://dobosdev.hu/"}
}

func requestIn(target string, lang nav.Language) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(middleware.WithLang(r.Context(), lang))
}

func TestHomeInvalidTargetFallsBackToHome(t *testing.T) {
	pd, err := newBuilder(t).Home(requestIn("/", nav.English), nav.Target("nope"))
	require.NoError(t, err)
	require.Equal(t, nav.Home, pd.Active)
	require.Equal(t, "/", pd.AltPath)
	require.Equal(t, "https://dobosdev.hu/", pd.SEO.Canonical)
	require.Equal(t, "en_US", pd.SEO.OG.Locale)
	require.True(t, pd.ShowCookieBanner)
	require.Equal(t, "/contact", pd.Contact.Action)
}

func TestHomeAltPathPointsAtOtherLanguage(t *testing.T) {
	pd, err := newBuilder(t).Home(requestIn("/gyik", nav.Hungarian), nav.FAQ)
	require.NoError(t, err)
	require.Equal(t, "/faq", pd.AltPath)
	require.Len(t, pd.SEO.Alternates, 3)
	for _, item := range pd.Nav {
		require.Equal(t, item.Target == nav.FAQ, item.Active)
	}
}

func TestReferenceMissingKeepsLayoutData(t *testing.T) {
	pd, err := newBuilder(t).Reference(requestIn("/reference/ghost", nav.English), "ghost")
	require.ErrorIs(t, err, content.ErrNotFound)
	require.True(t, pd.ReferenceMissing)
	require.NotNil(t, pd.Site)
	require.Equal(t, "/referenciak", pd.AltPath)
}

func TestReferenceCanonicalAndAlternates(t *testing.T) {
	pd, err := newBuilder(t).Reference(requestIn("/referencia/kavezo", nav.Hungarian), "kavezo")
	require.NoError(t, err)
	require.Equal(t, "https://dobosdev.hu/referencia/kavezo", pd.SEO.Canonical)
	require.Equal(t, "/reference/kavezo", pd.AltPath)
	require.Empty(t, pd.Active)
	require.Equal(t, "https://dobosdev.hu/reference/kavezo", pd.SEO.Alternates[1].Href)
	require.Len(t, pd.SEO.JSONLD, 2)
	require.Contains(t, pd.SEO.JSONLD[1], "BreadcrumbList")
}

func TestAnalyticsAllowedOnlyWithConsentAndID(t *testing.T) {
	cfg := &config.Config{}
	cfg.Analytics.GA4MeasurementID = "G-1"
	a := AnalyticsFromConfig(cfg)

	require.True(t, a.Allowed(middleware.ConsentAccepted))
	require.False(t, a.Allowed(middleware.ConsentNecessary))
	require.False(t, Analytics{}.Allowed(middleware.ConsentAccepted))
	require.Equal(t, Analytics{}, AnalyticsFromConfig(nil))
}
