package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"dobosdev.hu/web/internal/contact"
	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/seo"
)

// PageData is the view model shared by every full page using the layout.
type PageData struct {
	Lang      nav.Language
	Title     string
	SEO       seo.Meta
	Analytics Analytics

	Path string
	// Active is the section highlighted on first paint. Pages outside the
	// one-page shell leave it empty.
	Active      nav.Target
	Nav         []nav.RenderedItem
	FooterNav   []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	// AltPath is the equivalent address in the other language.
	AltPath string

	CSRFToken        string
	Consent          middleware.Consent
	ShowCookieBanner bool
	AnalyticsAllowed bool
	CaptchaSiteKey   string
	Year             int

	Site    *content.Site
	Contact ContactForm

	// Reference detail payload.
	Reference *content.Reference
	Prev      *content.Reference
	Next      *content.Reference
	// ReferenceMissing marks the detail route with an unknown id.
	ReferenceMissing bool

	// Legal is set when a legal dialog should open on load.
	Legal    *content.LegalPage
	NotFound bool
}

// ContactForm is the contact section view model.
type ContactForm struct {
	Status     contact.Status
	Form       contact.Form
	MessageKey string
	Fields     contact.FieldErrors
	Action     string
}

// FieldError returns the i18n key of the error for field, if any.
func (c ContactForm) FieldError(field string) string {
	if c.Fields == nil {
		return ""
	}
	return c.Fields[field]
}

// ContactFromResult maps a submission result to the view model.
func ContactFromResult(res contact.Result, lang nav.Language) ContactForm {
	return ContactForm{
		Status:     res.Status,
		Form:       res.Form,
		MessageKey: res.MessageKey,
		Fields:     res.Fields,
		Action:     nav.Path(nav.Contact, lang),
	}
}

// Builder assembles page view models from request state and content.
type Builder struct {
	Bundle         *i18n.Bundle
	Store          *content.Store
	BaseURL        string
	Analytics      Analytics
	CaptchaSiteKey string
	Now            func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// T translates key in lang.
func (b *Builder) T(lang nav.Language, key string) string {
	return b.Bundle.T(string(lang), key)
}

func (b *Builder) base(r *http.Request, active nav.Target) (PageData, error) {
	lang := middleware.LangFromContext(r.Context())
	site, err := b.Store.Site(string(lang))
	if err != nil {
		return PageData{}, fmt.Errorf("load site content: %w", err)
	}
	consent := middleware.ConsentFromContext(r.Context())
	return PageData{
		Lang:             lang,
		Analytics:        b.Analytics,
		Path:             r.URL.Path,
		Active:           active,
		Nav:              nav.Build(nav.Main, active, lang),
		FooterNav:        nav.Build(nav.Footer, "", lang),
		AltPath:          nav.Path(active, lang.Other()),
		CSRFToken:        middleware.CSRFToken(r),
		Consent:          consent,
		ShowCookieBanner: consent == middleware.ConsentUndecided,
		AnalyticsAllowed: b.Analytics.Allowed(consent),
		CaptchaSiteKey:   b.CaptchaSiteKey,
		Year:             b.now().Year(),
		Site:             site,
		Contact:          ContactForm{Status: contact.StatusIdle, Action: nav.Path(nav.Contact, lang)},
	}, nil
}

// Home builds the one-page shell with active as the initially selected section.
func (b *Builder) Home(r *http.Request, active nav.Target) (PageData, error) {
	if !active.Valid() {
		active = nav.Home
	}
	pd, err := b.base(r, active)
	if err != nil {
		return PageData{}, err
	}
	lang := pd.Lang
	pd.Title = b.T(lang, "meta.title")
	pd.SEO = seo.NewMeta(b.BaseURL, b.T(lang, "brand.name"), pd.Title, b.T(lang, "meta.description"), nav.Path(active, lang), lang)
	pd.SEO.Alternates = seo.SectionAlternates(b.BaseURL, active)

	services := make([]string, 0, len(pd.Site.Services))
	for _, s := range pd.Site.Services {
		services = append(services, s.Title)
	}
	faq := make([]seo.QA, 0, len(pd.Site.FAQ))
	for _, f := range pd.Site.FAQ {
		faq = append(faq, seo.QA{Question: f.Question, Answer: f.Answer})
	}
	pd.SEO.JSONLD = []string{
		seo.JSON(seo.ProfessionalService(seo.Business{
			Name:      b.T(lang, "footer.businessName"),
			URL:       seo.Absolute(b.BaseURL, "/"),
			Email:     pd.Site.Contact.Email,
			Telephone: pd.Site.Contact.Phone,
			Locality:  pd.Site.Contact.Location,
			Country:   "HU",
			Logo:      seo.Absolute(b.BaseURL, "/assets/img/logo.png"),
			Services:  services,
		})),
		seo.JSON(seo.WebSite(b.T(lang, "brand.name"), seo.Absolute(b.BaseURL, "/"), string(lang))),
		seo.JSON(seo.FAQPage(faq)),
	}
	return pd, nil
}

// Reference builds the detail page for id. Unknown ids produce a not-found
// view model together with content.ErrNotFound.
func (b *Builder) Reference(r *http.Request, id string) (PageData, error) {
	pd, err := b.base(r, nav.References)
	if err != nil {
		return PageData{}, err
	}
	lang := pd.Lang
	pd.Active = ""
	pd.Nav = nav.Build(nav.Main, "", lang)

	ref, err := b.Store.Reference(string(lang), id)
	if errors.Is(err, content.ErrNotFound) {
		pd.ReferenceMissing = true
		pd.NotFound = true
		pd.Title = b.T(lang, "references.notFound.title")
		pd.SEO = seo.NewMeta(b.BaseURL, b.T(lang, "brand.name"), pd.Title, b.T(lang, "references.notFound.description"), r.URL.Path, lang)
		pd.SEO.Robots = "noindex"
		pd.Breadcrumbs = nav.Breadcrumbs(lang, "", "")
		pd.AltPath = nav.Path(nav.References, lang.Other())
		return pd, err
	}
	if err != nil {
		return PageData{}, err
	}
	prev, next, err := b.Store.Adjacent(string(lang), ref.ID)
	if err != nil {
		return PageData{}, err
	}

	pd.Reference = &ref
	if prev.ID != "" {
		pd.Prev = &prev
	}
	if next.ID != "" {
		pd.Next = &next
	}
	canonical := nav.ReferencePathFor(ref.ID, lang)
	pd.AltPath = nav.ReferencePathFor(ref.ID, lang.Other())
	pd.Path = canonical
	pd.Breadcrumbs = nav.Breadcrumbs(lang, ref.ID, ref.Title)
	pd.Title = b.Bundle.Tf(string(lang), "meta.reference.title", ref.Title)
	pd.SEO = seo.NewMeta(b.BaseURL, b.T(lang, "brand.name"), pd.Title, seo.Excerpt(ref.Description, 160), canonical, lang)
	pd.SEO.OG.Type = "article"
	if ref.Image != "" {
		pd.SEO.OG.Image = seo.Absolute(b.BaseURL, ref.Image)
		pd.SEO.Twitter.Image = pd.SEO.OG.Image
	}
	pd.SEO.Alternates = referenceAlternates(b.BaseURL, ref.ID)

	crumbs := make([]seo.BreadcrumbItem, 0, len(pd.Breadcrumbs))
	for _, c := range pd.Breadcrumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = b.T(lang, c.LabelKey)
		}
		crumbs = append(crumbs, seo.BreadcrumbItem{Name: name, Item: seo.Absolute(b.BaseURL, c.Href)})
	}
	pd.SEO.JSONLD = []string{
		seo.JSON(seo.CreativeWork(ref.Title, ref.Description, ref.URL, pd.SEO.OG.Image, ref.Year)),
		seo.JSON(seo.BreadcrumbList(crumbs)),
	}
	return pd, nil
}

func referenceAlternates(baseURL, id string) []seo.Alternate {
	out := make([]seo.Alternate, 0, len(nav.Languages)+1)
	for _, lang := range nav.Languages {
		out = append(out, seo.Alternate{Href: seo.Absolute(baseURL, nav.ReferencePathFor(id, lang)), Hreflang: string(lang)})
	}
	return append(out, seo.Alternate{
		Href:     seo.Absolute(baseURL, nav.ReferencePathFor(id, nav.DefaultLanguage)),
		Hreflang: "x-default",
	})
}

// NotFound builds the 404 page.
func (b *Builder) NotFound(r *http.Request) (PageData, error) {
	pd, err := b.base(r, nav.Home)
	if err != nil {
		return PageData{}, err
	}
	pd.Active = ""
	pd.Nav = nav.Build(nav.Main, "", pd.Lang)
	pd.NotFound = true
	pd.AltPath = "/"
	pd.Title = b.T(pd.Lang, "meta.notfound.title")
	pd.SEO = seo.NewMeta(b.BaseURL, b.T(pd.Lang, "brand.name"), pd.Title, b.T(pd.Lang, "notfound.description"), r.URL.Path, pd.Lang)
	pd.SEO.Robots = "noindex"
	return pd, nil
}

// WithLegal opens the legal dialog kind on top of the page.
func (b *Builder) WithLegal(pd PageData, kind string) (PageData, error) {
	page, err := b.Store.Legal(string(pd.Lang), kind)
	if err != nil {
		return pd, err
	}
	pd.Legal = &page
	return pd, nil
}
