package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/nav"
)

func (p page) navLink(t nav.Target, class, label string) g.Node {
	return A(
		Href(nav.Path(t, p.Lang)),
		Class(class),
		g.Attr("data-nav-target", string(t)),
		g.Text(label),
	)
}

func (p page) hero() g.Node {
	h := p.Site.Hero
	column := func(titleKey string, items []string) g.Node {
		return Div(
			Class("hero-column"),
			H3(g.Text(p.t(titleKey))),
			bulletList("hero-list", items),
		)
	}
	return sectionNode(nav.Home, "hero",
		Div(
			Class("container"),
			Span(Class("badge"), g.Text(p.t("hero.soleProprietor"))),
			H1(g.Text(p.t("hero.title"))),
			P(Class("hero-subtitle"), g.Text(p.t("hero.subtitle"))),
			Div(
				Class("hero-actions"),
				p.navLink(nav.Contact, "btn btn-primary", p.t("hero.cta")),
				p.navLink(nav.Services, "btn btn-secondary", p.t("hero.ctaSecondary")),
			),
			Div(
				Class("hero-columns"),
				column("hero.forWho", h.ForWho),
				column("hero.whatYouGet", h.WhatYouGet),
				column("hero.whatsDifferent", h.WhatsDifferent),
			),
		),
	)
}

func (p page) services() g.Node {
	return sectionNode(nav.Services, "services",
		Div(
			Class("container"),
			sectionHeading(p.t("services.title"), p.t("services.subtitle")),
			Div(Class("card-grid"), g.Map(p.Site.Services, func(s content.Service) g.Node {
				return Article(
					Class("card service-card"),
					g.Attr("data-service", s.ID),
					icon(s.Icon),
					H3(g.Text(s.Title)),
					P(g.Text(s.Description)),
					bulletList("feature-list", s.Features),
					Dl(
						Class("service-meta"),
						g.If(s.Timeframe != "", g.Group([]g.Node{
							Dt(g.Text(p.t("services.timeframe"))),
							Dd(g.Text(s.Timeframe)),
						})),
					),
					g.If(s.PriceFrom > 0, P(Class("service-price"), g.Text(p.tf("services.priceFrom", p.price(s.PriceFrom))))),
				)
			})),
		),
	)
}

func (p page) process() g.Node {
	return sectionNode(nav.Process, "process",
		Div(
			Class("container"),
			sectionHeading(p.t("process.title"), p.t("process.subtitle")),
			Ol(Class("process-steps"), g.Group(mapIndex(p.Site.Process, func(i int, s content.ProcessStep) g.Node {
				return Li(
					Class("process-step"),
					g.Attr("data-step", s.ID),
					icon(s.Icon),
					Span(Class("process-step-number"), g.Text(p.tf("process.step", i+1))),
					H3(g.Text(s.Title)),
					P(g.Text(s.Description)),
				)
			}))),
		),
	)
}

func (p page) packagePrice(pkg content.PricingPackage) string {
	amount := p.price(pkg.Price)
	switch {
	case pkg.ID == "maintenance":
		return p.tf("pricing.perMonth", amount)
	case pkg.PriceFrom:
		return p.tf("pricing.from", amount)
	}
	return amount
}

func (p page) pricing() g.Node {
	pr := p.Site.Pricing
	return sectionNode(nav.Pricing, "pricing",
		Div(
			Class("container"),
			sectionHeading(p.t("pricing.title"), p.t("pricing.subtitle")),
			Div(Class("card-grid"), g.Map(pr.Packages, func(pkg content.PricingPackage) g.Node {
				return Article(
					Class(classes("card price-card", popularClass(pkg.Popular))),
					g.Attr("data-package", pkg.ID),
					g.If(pkg.Popular, Span(Class("badge badge-popular"), g.Text(p.t("pricing.popular")))),
					H3(g.Text(pkg.Name)),
					P(g.Text(pkg.Description)),
					P(Class("price"), g.Text(p.packagePrice(pkg))),
					bulletList("feature-list", pkg.Features),
					p.navLink(nav.Contact, "btn btn-primary", p.t("pricing.cta")),
				)
			})),
			g.If(pr.HourlyRate.Price > 0, Div(
				Class("card hourly-rate"),
				H3(g.Text(pr.HourlyRate.Title)),
				P(g.Text(pr.HourlyRate.Description)),
				P(Class("price"), g.Text(p.tf("pricing.perHour", p.price(pr.HourlyRate.Price)))),
			)),
			P(Class("pricing-terms"), g.Text(p.t("pricing.paymentTerms"))),
			g.If(pr.Disclaimer != "", P(Class("pricing-disclaimer"), g.Text(pr.Disclaimer))),
		),
	)
}

func popularClass(popular bool) string {
	if popular {
		return "popular"
	}
	return ""
}

func (p page) references() g.Node {
	about := p.Site.About
	next := p.Site.NextReference
	return sectionNode(nav.References, "references",
		Div(
			Class("container"),
			sectionHeading(p.t("references.title"), p.t("references.subtitle")),
			Div(
				Class("card-grid"),
				g.Map(p.Site.References, func(ref content.Reference) g.Node {
					href := nav.ReferencePathFor(ref.ID, p.Lang)
					return Article(
						Class("card reference-card"),
						g.Attr("data-reference", ref.ID),
						g.If(ref.Image != "", Img(Src(ref.Image), Alt(ref.Title), g.Attr("loading", "lazy"))),
						Span(Class("reference-category"), g.Text(ref.Category)),
						H3(g.Text(ref.Title)),
						P(g.Text(ref.Description)),
						A(Href(href), Class("btn btn-link"), g.Text(p.t("references.view"))),
					)
				}),
				Article(
					Class("card reference-next"),
					H3(g.Text(next.Title)),
					P(g.Text(next.Description)),
					p.navLink(nav.Contact, "btn btn-primary", next.CTA),
				),
			),
			Div(
				Class("about"),
				H3(g.Text(firstNonEmpty(about.Title, p.t("about.title")))),
				P(g.Text(about.Description)),
				bulletList("about-highlights", about.Highlights),
			),
		),
	)
}

func (p page) faq() g.Node {
	return sectionNode(nav.FAQ, "faq",
		Div(
			Class("container"),
			sectionHeading(p.t("faq.title"), p.t("faq.subtitle")),
			Div(Class("faq-list"), g.Map(p.Site.FAQ, func(f content.FAQ) g.Node {
				return Details(
					Class("faq-item"),
					Summary(g.Text(f.Question)),
					P(g.Text(f.Answer)),
				)
			})),
		),
	)
}

func mapIndex[T any](items []T, cb func(int, T) g.Node) []g.Node {
	out := make([]g.Node, 0, len(items))
	for i, it := range items {
		out = append(out, cb(i, it))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
