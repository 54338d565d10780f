package views

import (
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/format"
	"dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
	"dobosdev.hu/web/internal/seo"
)

const (
	htmxSrc    = "https://unpkg.com/htmx.org@1.9.12"
	captchaSrc = "https://js.hcaptcha.com/1/api.js"
)

func (p page) layout(body g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang(string(p.Lang)),
			p.head(),
			Body(
				Class("site"),
				g.If(p.Active != "", g.Attr("data-active-section", string(p.Active))),
				g.Attr("hx-headers", `{"X-CSRF-Token": "`+p.CSRFToken+`"}`),
				A(Href("#main"), Class("skip-link"), g.Text(p.t("nav.skip"))),
				p.siteHeader(),
				Main(ID("main"), body),
				p.siteFooter(),
				g.If(p.ShowCookieBanner, p.cookieBanner()),
				p.legalDialog(),
				Script(Src(htmxSrc), g.Attr("defer")),
				g.If(p.CaptchaSiteKey != "" && p.onePageShown(), Script(Src(captchaSrc), g.Attr("async"), g.Attr("defer"))),
				Script(Src("/assets/js/wasm_exec.js"), g.Attr("defer")),
				Script(Src("/assets/js/site.js"), g.Attr("defer")),
			),
		),
	})
}

func (p page) head() g.Node {
	m := p.SEO
	return Head(
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
		TitleEl(g.Text(p.Title)),
		Meta(Name("description"), Content(m.Description)),
		g.If(m.Robots != "", Meta(Name("robots"), Content(m.Robots))),
		g.If(m.Canonical != "", Link(Rel("canonical"), Href(m.Canonical))),
		g.Map(m.Alternates, func(a seo.Alternate) g.Node {
			return Link(Rel("alternate"), g.Attr("hreflang", a.Hreflang), Href(a.Href))
		}),
		Meta(g.Attr("property", "og:title"), Content(m.OG.Title)),
		Meta(g.Attr("property", "og:description"), Content(m.OG.Description)),
		Meta(g.Attr("property", "og:type"), Content(m.OG.Type)),
		Meta(g.Attr("property", "og:url"), Content(m.OG.URL)),
		Meta(g.Attr("property", "og:image"), Content(m.OG.Image)),
		Meta(g.Attr("property", "og:site_name"), Content(m.OG.SiteName)),
		Meta(g.Attr("property", "og:locale"), Content(m.OG.Locale)),
		Meta(Name("twitter:card"), Content(m.Twitter.Card)),
		g.If(m.Twitter.Image != "", Meta(Name("twitter:image"), Content(m.Twitter.Image))),
		Link(Rel("icon"), Href("/assets/img/favicon.svg"), Type("image/svg+xml")),
		Link(Rel("stylesheet"), Href("/assets/css/site.css")),
		g.Map(m.JSONLD, func(doc string) g.Node {
			return Script(Type("application/ld+json"), g.Raw(doc))
		}),
		g.If(p.AnalyticsAllowed, p.analytics()),
	)
}

// analytics loads GA4 only after the visitor accepted statistics cookies.
func (p page) analytics() g.Node {
	id := p.Analytics.GA4MeasurementID
	debug := ""
	if p.Analytics.Debug {
		debug = ", {debug_mode: true}"
	}
	return g.Group([]g.Node{
		Script(Src("https://www.googletagmanager.com/gtag/js?id="+url.QueryEscape(id)), g.Attr("async")),
		// json.Marshal escapes <, > and &, so the id cannot close the script element.
		Script(g.Raw("window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config'," + seo.JSON(id) + debug + ");")),
	})
}

func (p page) siteHeader() g.Node {
	return Header(
		Class("site-header"),
		Div(
			Class("container header-inner"),
			A(
				Href("/"),
				Class("logo"),
				g.Attr("data-nav-target", string(nav.Home)),
				g.Attr("aria-label", p.t("nav.home")),
				Strong(g.Text(p.t("brand.name"))),
				Span(Class("logo-tagline"), g.Text(p.t("brand.tagline"))),
			),
			Nav(
				Class("nav-desktop"),
				g.Attr("aria-label", p.t("brand.name")),
				p.navLinks("nav-link"),
			),
			p.languageToggle(),
			Button(
				Type("button"),
				ID("menu-toggle"),
				Class("menu-toggle"),
				g.Attr("aria-expanded", "false"),
				g.Attr("aria-controls", "mobile-menu"),
				g.Attr("aria-label", p.t("nav.menu.open")),
				g.Attr("data-label-open", p.t("nav.menu.open")),
				g.Attr("data-label-close", p.t("nav.menu.close")),
				Span(Class("menu-icon"), g.Attr("aria-hidden", "true")),
			),
		),
		Nav(
			ID("mobile-menu"),
			Class("nav-mobile"),
			g.Attr("hidden"),
			p.navLinks("nav-link nav-link-mobile"),
		),
	)
}

func (p page) navLinks(class string) g.Node {
	return Ul(g.Map(p.Nav, func(item nav.RenderedItem) g.Node {
		return Li(A(
			Href(item.Href),
			Class(class),
			g.Attr("data-nav-target", string(item.Target)),
			g.If(item.Active, g.Attr("aria-current", "true")),
			g.Text(p.t(item.LabelKey)),
		))
	}))
}

// languageToggle posts to the preference endpoint; the server answers with a
// redirect to the equivalent address in the other language.
func (p page) languageToggle() g.Node {
	return Form(
		Class("lang-toggle"),
		Method("post"),
		Action("/prefs/language"),
		Input(Type("hidden"), Name(middleware.CSRFFormField), Value(p.CSRFToken)),
		Input(Type("hidden"), Name("lang"), Value(string(p.Lang.Other()))),
		Input(Type("hidden"), Name("return"), Value(p.Path)),
		Button(
			Type("submit"),
			g.Attr("data-lang-toggle", string(p.Lang.Other())),
			g.Attr("data-alt-path", p.AltPath),
			g.Attr("aria-label", p.t("lang.toggle.aria")),
			g.Text(p.t("lang.toggle")),
		),
	)
}

func (p page) siteFooter() g.Node {
	var contactInfo g.Node
	if p.Site != nil {
		c := p.Site.Contact
		contactInfo = Ul(
			Class("footer-contact"),
			Li(A(Href("mailto:"+c.Email), g.Text(c.Email))),
			Li(A(Href("tel:"+telHref(c.Phone)), g.Text(c.Phone))),
			Li(g.Text(c.Location)),
		)
	}
	return Footer(
		Class("site-footer"),
		Div(
			Class("container footer-grid"),
			Div(
				Strong(g.Text(p.t("brand.name"))),
				P(g.Text(p.t("footer.description"))),
				contactInfo,
			),
			Div(
				H3(g.Text(p.t("footer.quickLinks"))),
				Ul(g.Map(p.FooterNav, func(item nav.RenderedItem) g.Node {
					return Li(A(Href(item.Href), g.Attr("data-nav-target", string(item.Target)), g.Text(p.t(item.LabelKey))))
				})),
			),
			Div(
				H3(g.Text(p.t("footer.legalInfo"))),
				Ul(
					Li(p.legalLink(content.LegalPrivacy, "footer.privacy")),
					Li(p.legalLink(content.LegalImpressum, "footer.impressum")),
				),
			),
		),
		P(Class("footer-rights"), g.Text(p.tf("footer.rights", p.Year, p.t("footer.businessName")))),
	)
}

// legalLink opens the dialog through HTMX and falls back to a full page.
func (p page) legalLink(kind, labelKey string) g.Node {
	href := "/legal/" + kind
	return A(
		Href(href),
		g.Attr("hx-get", href),
		g.Attr("hx-target", "#legal-dialog-body"),
		g.Attr("hx-swap", "innerHTML"),
		g.Attr("data-legal-open", kind),
		g.Text(p.t(labelKey)),
	)
}

func (p page) cookieBanner() g.Node {
	return Div(
		ID("cookie-banner"),
		Class("cookie-banner"),
		g.Attr("role", "dialog"),
		g.Attr("aria-live", "polite"),
		g.Attr("aria-labelledby", "cookie-banner-title"),
		H2(ID("cookie-banner-title"), g.Text(p.t("cookie.title"))),
		P(g.Text(p.t("cookie.text")), g.Text(" "), p.legalLink(content.LegalPrivacy, "footer.privacy")),
		Form(
			Method("post"),
			Action("/prefs/consent"),
			g.Attr("hx-post", "/prefs/consent"),
			g.Attr("hx-target", "#cookie-banner"),
			g.Attr("hx-swap", "outerHTML"),
			Input(Type("hidden"), Name(middleware.CSRFFormField), Value(p.CSRFToken)),
			Input(Type("hidden"), Name("return"), Value(p.Path)),
			Button(Type("submit"), Name("consent"), Value(string(middleware.ConsentNecessary)), Class("btn btn-secondary"), g.Text(p.t("cookie.necessary"))),
			Button(Type("submit"), Name("consent"), Value(string(middleware.ConsentAccepted)), Class("btn btn-primary"), g.Text(p.t("cookie.acceptAll"))),
		),
	)
}

// legalDialog is the shared modal. It is open on load when the page was
// requested through a legal route.
func (p page) legalDialog() g.Node {
	var body g.Node
	if p.Legal != nil {
		body = p.legalBody(*p.Legal)
	}
	return g.El("dialog",
		ID("legal-dialog"),
		Class("legal-dialog"),
		g.If(p.Legal != nil, g.Attr("open")),
		g.Attr("aria-labelledby", "legal-dialog-title"),
		Form(
			Method("dialog"),
			Class("legal-dialog-close"),
			Button(Type("submit"), g.Attr("aria-label", p.t("legal.close")), g.Text("×")),
		),
		Div(ID("legal-dialog-body"), body),
	)
}

func (p page) legalBody(legal content.LegalPage) g.Node {
	updated := ""
	if d := format.Date(legal.UpdatedAt, string(p.Lang)); d != "" {
		updated = p.tf("legal.lastUpdated", d)
	}
	return Article(
		Class("legal"),
		g.Attr("data-legal", legal.Kind),
		g.Attr("lang", legal.Lang),
		H2(ID("legal-dialog-title"), g.Text(legal.Title)),
		g.If(legal.Subtitle != "", P(Class("legal-subtitle"), g.Text(legal.Subtitle))),
		g.If(updated != "", P(Class("legal-updated"), g.El("time", g.Attr("datetime", format.ISODate(legal.UpdatedAt)), g.Text(updated)))),
		Div(Class("legal-content"), g.Raw(string(legal.HTML))),
	)
}

func telHref(phone string) string {
	out := make([]rune, 0, len(phone))
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			out = append(out, r)
		}
	}
	return string(out)
}
