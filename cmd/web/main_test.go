package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dobosdev.hu/web/internal/config"
	mw "dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/relay"
)

// relayStub records what the form relay receives.
type relayStub struct {
	mu       sync.Mutex
	payloads []map[string]string
	status   int
}

func (s *relayStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.payloads = append(s.payloads, body)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if s.status >= 400 {
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(`{"success":false,"message":"relay down"}`))
		return
	}
	_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
}

func (s *relayStub) calls() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.payloads...)
}

type testServer struct {
	handler http.Handler
	relay   *relayStub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.HTTP.BaseURL = "https://dobosdev.hu"

	stub := &relayStub{}
	upstream := httptest.NewServer(stub)
	t.Cleanup(upstream.Close)

	a, err := newApp(cfg, zap.NewNop(), appOptions{
		relay:  relay.NewClient(upstream.URL, "test-access-key"),
		assets: fstest.MapFS{"css/site.css": {Data: []byte("body{}")}},
		now:    func() time.Time { return time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return &testServer{handler: a.routes(), relay: stub}
}

func (s *testServer) get(target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// visit loads the home page and returns the cookies and CSRF token a browser
// would hold afterwards.
func (s *testServer) visit(t *testing.T) ([]*http.Cookie, string) {
	t.Helper()
	rec := s.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	token := doc.Find("form#contact-form input[name=" + mw.CSRFFormField + "]").AttrOr("value", "")
	require.NotEmpty(t, token)
	return rec.Result().Cookies(), token
}

func (s *testServer) post(t *testing.T, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	cookies, token := s.visit(t)
	form.Set(mw.CSRFFormField, token)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func validForm() url.Values {
	return url.Values{
		"name":               {"Kiss Anna"},
		"email":              {"anna@example.com"},
		"service":            {"website"},
		"message":            {"Szeretnék egy új weboldalt."},
		"privacyConsent":     {"on"},
		"h-captcha-response": {"token-123"},
	}
}

func TestHealthzOK(t *testing.T) {
	rec := newTestServer(t).get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", strings.TrimSpace(rec.Body.String()))
}

func TestSectionAliasesRenderShellInPathLanguage(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		path   string
		lang   string
		target nav.Target
	}{
		{"/", "hu", nav.Home},
		{"/arak", "hu", nav.Pricing},
		{"/pricing", "en", nav.Pricing},
		{"/kapcsolat", "hu", nav.Contact},
		{"/faq", "en", nav.FAQ},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := s.get(tc.path)
			require.Equal(t, http.StatusOK, rec.Code)
			doc := parse(t, rec)
			require.Equal(t, tc.lang, doc.Find("html").AttrOr("lang", ""))
			require.Equal(t, string(tc.target), doc.Find("body").AttrOr("data-active-section", ""))
			require.Equal(t, len(nav.Targets), doc.Find("section[data-section]").Length())
			if tc.target != nav.Home {
				require.Equal(t, string(tc.target), doc.Find(".nav-desktop a[aria-current=true]").AttrOr("data-nav-target", ""))
			}
		})
	}
}

func TestAcceptLanguagePicksEnglishOnSharedPath(t *testing.T) {
	rec := newTestServer(t).get("/", "Accept-Language", "en-GB,en;q=0.9")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "en", rec.Header().Get("Content-Language"))
	require.Contains(t, rec.Header().Values("Vary"), "Accept-Language")
}

func TestReferenceDetailAndUnknown(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/referencia/kavezo")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	require.Equal(t, "hu", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "kavezo", doc.Find("article.reference-detail").AttrOr("data-reference", ""))
	_, marked := doc.Find("body").Attr("data-active-section")
	require.False(t, marked)
	require.Zero(t, doc.Find(".nav-desktop a[aria-current]").Length())

	rec = s.get("/reference/unknown")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc = parse(t, rec)
	require.Equal(t, "reference", doc.Find("[data-not-found]").AttrOr("data-not-found", ""))
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	rec := newTestServer(t).get("/nincs-ilyen-oldal")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := parse(t, rec)
	require.Equal(t, "page", doc.Find("[data-not-found]").AttrOr("data-not-found", ""))
	_, marked := doc.Find("body").Attr("data-active-section")
	require.False(t, marked)
	require.Equal(t, "/", doc.Find(".not-found a.btn").AttrOr("href", ""))
}

func TestContactWithoutConsentNeverReachesRelay(t *testing.T) {
	s := newTestServer(t)
	form := validForm()
	form.Del("privacyConsent")

	rec := s.post(t, "/kapcsolat", form, false)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, s.relay.calls())

	doc := parse(t, rec)
	require.Equal(t, "idle", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Equal(t, "Kiss Anna", doc.Find("#contact-form input[name=name]").AttrOr("value", ""))
	require.Equal(t, 1, doc.Find("#contact-form .alert").Length())
}

func TestContactWithoutTokenNeverReachesRelay(t *testing.T) {
	s := newTestServer(t)
	form := validForm()
	form.Del("h-captcha-response")

	rec := s.post(t, "/contact", form, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, s.relay.calls())

	doc := parse(t, rec)
	require.Equal(t, "error", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Zero(t, doc.Find("section#home").Length())
}

func TestContactSuccessRelaysOnceAndResets(t *testing.T) {
	s := newTestServer(t)

	rec := s.post(t, "/kapcsolat", validForm(), true)
	require.Equal(t, http.StatusOK, rec.Code)

	calls := s.relay.calls()
	require.Len(t, calls, 1)
	require.Equal(t, "test-access-key", calls[0]["access_key"])
	require.Equal(t, "Új ajánlatkérés: website", calls[0]["subject"])
	require.Equal(t, "token-123", calls[0]["h-captcha-response"])
	require.Equal(t, "anna@example.com", calls[0]["email"])

	doc := parse(t, rec)
	require.Equal(t, "success", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Equal(t, 1, doc.Find(".alert-success").Length())
	require.Empty(t, doc.Find("#contact-form input[name=name]").AttrOr("value", "x"))
	_, checked := doc.Find("input[name=privacyConsent]").Attr("checked")
	require.False(t, checked)
}

func TestContactRelayFailureKeepsValues(t *testing.T) {
	s := newTestServer(t)
	s.relay.status = http.StatusInternalServerError

	rec := s.post(t, "/contact", validForm(), false)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Len(t, s.relay.calls(), 1)

	doc := parse(t, rec)
	require.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	require.Equal(t, "error", doc.Find("#contact-form").AttrOr("data-status", ""))
	require.Equal(t, "anna@example.com", doc.Find("#contact-form input[name=email]").AttrOr("value", ""))
	require.Equal(t, "website", doc.Find("select[name=service] option[selected]").AttrOr("value", ""))
	_, checked := doc.Find("input[name=privacyConsent]").Attr("checked")
	require.True(t, checked)
}

func TestPostWithoutCSRFIsRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, s.relay.calls())
}

func TestLanguageToggleRedirectsToEquivalentAlias(t *testing.T) {
	s := newTestServer(t)
	rec := s.post(t, "/prefs/language", url.Values{"lang": {"en"}, "return": {"/arak"}}, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/pricing", rec.Header().Get("Location"))

	var lang string
	for _, c := range rec.Result().Cookies() {
		if c.Name == mw.LanguageCookie {
			lang = c.Value
		}
	}
	require.Equal(t, "en", lang)

	rec = s.post(t, "/prefs/language", url.Values{"lang": {"de"}, "return": {"/"}}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEquivalentPath(t *testing.T) {
	require.Equal(t, "/szolgaltatasok", equivalentPath("/services", nav.Hungarian))
	require.Equal(t, "/", equivalentPath("/", nav.English))
	require.Equal(t, "/reference/kavezo", equivalentPath("/referencia/kavezo", nav.English))
	require.Equal(t, "/", equivalentPath("//evil.example", nav.English))
	require.Equal(t, "/", equivalentPath("/unknown/page", nav.English))
}

func TestConsentHTMXRemovesBanner(t *testing.T) {
	s := newTestServer(t)
	rec := s.post(t, "/prefs/consent", url.Values{"consent": {"necessary"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())

	var consent string
	for _, c := range rec.Result().Cookies() {
		if c.Name == mw.ConsentCookie {
			consent = c.Value
		}
	}
	require.Equal(t, "necessary", consent)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: mw.ConsentCookie, Value: consent})
	page := httptest.NewRecorder()
	s.handler.ServeHTTP(page, req)
	require.Zero(t, parse(t, page).Find("#cookie-banner").Length())
}

func TestLegalFragmentAndFullPage(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/legal/privacy", "HX-Request", "true", "Accept-Language", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	require.Equal(t, "Privacy policy", strings.TrimSpace(doc.Find("#legal-dialog-title").Text()))
	require.Zero(t, doc.Find("header.site-header").Length())

	rec = s.get("/legal/impressum")
	require.Equal(t, http.StatusOK, rec.Code)
	_, open := parse(t, rec).Find("dialog#legal-dialog").Attr("open")
	require.True(t, open)

	rec = s.get("/legal/terms")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSitemapAndRobots(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Equal(t, 13+2, strings.Count(body, "<loc>"))
	require.Contains(t, body, "<loc>https://dobosdev.hu/kapcsolat</loc>")
	require.Contains(t, body, "<lastmod>2025-01-12</lastmod>")

	rec = s.get("/robots.txt")
	require.Contains(t, rec.Body.String(), "Disallow: /")
	require.Contains(t, rec.Body.String(), "Sitemap: https://dobosdev.hu/sitemap.xml")
}

func TestAssetsAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/assets/css/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("ETag"))

	s.get("/arak")
	rec = s.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `site_http_requests_total{method="GET",route="/arak",status="200"}`)
}

func TestRoutesCommandPrintsTable(t *testing.T) {
	var out bytes.Buffer
	cmd := routesCommand()
	cmd.SetOut(&out)
	require.NoError(t, cmd.RunE(cmd, nil))
	require.Contains(t, out.String(), "/arak")
	require.Contains(t, out.String(), "/referencia/{id}")
}
