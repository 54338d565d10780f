package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"dobosdev.hu/web/internal/contact"
	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/handlers"
	"dobosdev.hu/web/internal/logging"
	mw "dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/seo"
)

// render writes node as HTML with status.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", zap.Error(err))
	}
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("page build failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// home serves the one-page shell with target selected on first paint.
func (a *app) home(target nav.Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pd, err := a.builder.Home(r, target)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.render(w, r, http.StatusOK, a.views.Page(pd))
	}
}

func (a *app) reference(w http.ResponseWriter, r *http.Request) {
	pd, err := a.builder.Reference(r, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, content.ErrNotFound):
		a.render(w, r, http.StatusNotFound, a.views.Page(pd))
	case err != nil:
		a.fail(w, r, err)
	default:
		a.render(w, r, http.StatusOK, a.views.Page(pd))
	}
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	pd, err := a.builder.NotFound(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.render(w, r, http.StatusNotFound, a.views.Page(pd))
}

// submitContact validates and relays a quote request. HTMX callers get the
// form fragment back; plain posts get the page scrolled to the contact section.
func (a *app) submitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.LangFromContext(r.Context())
	form := contact.FromValues(r.PostForm)
	ctx := logging.WithFields(r.Context(), zap.String("lang", string(lang)), zap.String("service", form.Service))
	res, err := a.contact.Submit(ctx, mw.ClientIP(r), form)
	if err != nil {
		logging.FromContext(ctx).Debug("contact submission not relayed", zap.Error(err), zap.String("status", string(res.Status)))
	}

	pd, buildErr := a.builder.Home(r, nav.Contact)
	if buildErr != nil {
		a.fail(w, r, buildErr)
		return
	}
	pd.Contact = handlers.ContactFromResult(res, lang)

	if mw.IsHTMX(r.Context()) {
		a.render(w, r, http.StatusOK, a.views.ContactFragment(pd))
		return
	}
	a.render(w, r, contactStatus(err), a.views.Page(pd))
}

func contactStatus(err error) int {
	var fe contact.FieldErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, contact.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, contact.ErrConsentRequired), errors.Is(err, contact.ErrTokenRequired), errors.As(err, &fe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// legal serves a legal document: the dialog body for HTMX, otherwise the home
// page with the dialog open.
func (a *app) legal(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !content.IsLegalKind(kind) {
		a.notFound(w, r)
		return
	}
	pd, err := a.builder.Home(r, nav.Home)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if mw.IsHTMX(r.Context()) {
		page, err := a.store.Legal(string(pd.Lang), kind)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.render(w, r, http.StatusOK, a.views.LegalFragment(pd, page))
		return
	}
	pd, err = a.builder.WithLegal(pd, kind)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	pd.SEO.Robots = "noindex"
	a.render(w, r, http.StatusOK, a.views.Page(pd))
}

// setLanguage stores the language and redirects to the equivalent address.
func (a *app) setLanguage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang, ok := nav.ParseLanguage(r.PostForm.Get("lang"))
	if !ok {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}
	mw.SetLanguageCookie(w, lang, a.sessions.Secure())
	http.Redirect(w, r, equivalentPath(r.PostForm.Get("return"), lang), http.StatusSeeOther)
}

// equivalentPath maps a local path to the same page in lang. Anything it
// does not recognize goes home.
func equivalentPath(p string, lang nav.Language) string {
	if !localPath(p) {
		return "/"
	}
	if t, _, ok := nav.Resolve(p); ok {
		return nav.Path(t, lang)
	}
	for _, l := range nav.Languages {
		prefix := nav.ReferencePathFor("", l)
		if id := strings.TrimPrefix(p, prefix); id != p && id != "" && !strings.Contains(id, "/") {
			return nav.ReferencePathFor(id, lang)
		}
	}
	return "/"
}

func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}

// setConsent stores the cookie choice. HTMX callers only need the banner
// gone; accepting statistics refreshes the page so the analytics tag loads.
func (a *app) setConsent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c, ok := mw.ParseConsent(r.PostForm.Get("consent"))
	if !ok {
		http.Error(w, "unsupported consent value", http.StatusBadRequest)
		return
	}
	mw.SetConsentCookie(w, c, a.sessions.Secure())
	if mw.IsHTMX(r.Context()) {
		if c.Analytics() && a.builder.Analytics.GA4MeasurementID != "" {
			w.Header().Set("HX-Refresh", "true")
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	back := r.PostForm.Get("return")
	if !localPath(back) {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (a *app) sitemap(w http.ResponseWriter, r *http.Request) {
	site, err := a.store.Site(string(nav.DefaultLanguage))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ids := make([]string, 0, len(site.References))
	for _, ref := range site.References {
		ids = append(ids, ref.ID)
	}
	body, err := seo.Sitemap(a.cfg.HTTP.BaseURL, ids, a.started())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (a *app) robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(a.cfg.HTTP.BaseURL, a.cfg.Production())))
}

// started is the last-modified date advertised in the sitemap. Content is
// embedded, so it changes only with a deploy.
func (a *app) started() time.Time {
	if a.builder.Now != nil {
		return a.builder.Now()
	}
	return processStart
}

var processStart = time.Now()
