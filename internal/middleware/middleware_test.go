package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/metrics"
	"dobosdev.hu/web/internal/nav"
)

func langHandler(got *nav.Language) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = LangFromContext(r.Context())
	})
}

func TestLocaleResolutionOrder(t *testing.T) {
	bundle, err := i18n.LoadDefault()
	require.NoError(t, err)
	mw := Locale(bundle, false)

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   nav.Language
	}{
		{"hungarian alias wins over cookie", "/arak", "en", "en", nav.Hungarian},
		{"english alias wins over cookie", "/pricing", "hu", "hu", nav.English},
		{"localized reference path", "/referencia/kavezo", "en", "", nav.Hungarian},
		{"english reference path", "/reference/kavezo", "hu", "", nav.English},
		{"query override", "/?hl=en", "hu", "hu", nav.English},
		{"cookie on shared path", "/", "en", "hu", nav.English},
		{"accept-language", "/", "", "en-GB,en;q=0.9", nav.English},
		{"default", "/", "", "", nav.Hungarian},
		{"garbage cookie ignored", "/", "klingon", "", nav.Hungarian},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got nav.Language
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookie, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rec := httptest.NewRecorder()
			mw(langHandler(&got)).ServeHTTP(rec, req)
			require.Equal(t, tc.want, got)
			require.Equal(t, string(tc.want), rec.Header().Get("Content-Language"))
		})
	}
}

func TestLocaleQueryOverridePersists(t *testing.T) {
	bundle, err := i18n.LoadDefault()
	require.NoError(t, err)
	var got nav.Language
	rec := httptest.NewRecorder()
	Locale(bundle, false)(langHandler(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?hl=en-US", nil))

	require.Equal(t, nav.English, got)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, LanguageCookie, cookies[0].Name)
	require.Equal(t, "en", cookies[0].Value)
}

func sessionCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	return rec.Result().Cookies()
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	sessions := NewSessions("0123456789abcdef0123456789abcdef", false, nil)
	h := sessions.Middleware(CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("name=x")))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFAcceptsFormFieldAndHeader(t *testing.T) {
	sessions := NewSessions("0123456789abcdef0123456789abcdef", false, nil)
	var token string
	h := sessions.Middleware(CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFToken(r)
		w.WriteHeader(http.StatusNoContent)
	})))

	// first visit issues session and csrf cookies
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, token)
	cookies := sessionCookies(rec)
	require.Len(t, cookies, 2)

	post := func(body url.Values, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(CSRFHeader, header)
		}
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, post(url.Values{CSRFFormField: {token}}, ""))
	require.Equal(t, http.StatusNoContent, post(url.Values{}, token))
	require.Equal(t, http.StatusForbidden, post(url.Values{CSRFFormField: {"forged"}}, ""))
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	a := NewSessions("0123456789abcdef0123456789abcdef", false, nil)
	b := NewSessions("fedcba9876543210fedcba9876543210", false, nil)
	sd := &SessionData{ID: "abc", CSRFToken: "tok"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: a.Encode(sd)})
	got, ok := a.read(req)
	require.True(t, ok)
	require.Equal(t, "tok", got.CSRFToken)

	_, ok = b.read(req)
	require.False(t, ok)

	_, err := a.Decode("no-separator")
	require.ErrorIs(t, err, errMalformedSession)
	_, err = b.Decode(a.Encode(sd))
	require.ErrorIs(t, err, errSessionSignature)
}

func TestConsentState(t *testing.T) {
	var got Consent
	h := ConsentState(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ConsentFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ConsentCookie, Value: "accepted"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, ConsentAccepted, got)
	require.True(t, got.Analytics())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ConsentCookie, Value: "maybe"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, ConsentUndecided, got)
	require.False(t, got.Analytics())
}

func TestAssetsWithCacheETag(t *testing.T) {
	h := http.StripPrefix("/assets", AssetsWithCache(fstest.MapFS{
		"css/site.css":  {Data: []byte("body{margin:0}")},
		"img/logo.svg":  {Data: []byte("<svg/>")},
		"wasm/spy.wasm": {Data: []byte("\x00asm")},
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", `W/"stale", `+etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/img/logo.svg", nil))
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/wasm/spy.wasm", nil))
	require.Equal(t, "application/wasm", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestLoggerAndRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(RequestLogger(zap.New(core), m))
	r.Use(Recoverer)
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })
	r.Get("/ok/{id}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	panics := logs.FilterMessage("panic recovered").All()
	require.Len(t, panics, 1)
	done := logs.FilterMessage("request completed").All()
	require.Len(t, done, 2)
	require.Equal(t, int64(500), done[0].ContextMap()["status"])
	require.Equal(t, "/ok/{id}", done[1].ContextMap()["route"])
	require.Equal(t, int64(2), done[1].ContextMap()["bytes"])
}

func TestResponseRecorderRunsHookOnce(t *testing.T) {
	calls := 0
	rw := NewResponseRecorder(httptest.NewRecorder())
	rw.SetBeforeWrite(func(http.ResponseWriter) { calls++ })
	_, _ = rw.Write([]byte("a"))
	_, _ = rw.Write([]byte("b"))
	rw.WriteHeader(http.StatusTeapot)
	require.Equal(t, 1, calls)
	require.Equal(t, http.StatusOK, rw.Status())
	require.Equal(t, int64(2), rw.BytesWritten())
	require.Same(t, rw, NewResponseRecorder(rw))
}

func TestWriteErrorTriggersEventForHTMX(t *testing.T) {
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusForbidden, "invalid CSRF token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	require.JSONEq(t, `{"site:error":{"status":403,"message":"invalid CSRF token"}}`, rec.Header().Get("HX-Trigger"))
	require.Contains(t, rec.Header().Values("Vary"), "HX-Request")

	req = httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-History-Restore-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("HX-Trigger"))
	require.Contains(t, rec.Body.String(), "invalid CSRF token")
}
