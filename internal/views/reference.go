package views

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/nav"
)

func (p page) breadcrumbs() g.Node {
	if len(p.Breadcrumbs) == 0 {
		return nil
	}
	return Nav(
		Class("breadcrumbs"),
		g.Attr("aria-label", "breadcrumb"),
		Ol(g.Map(p.Breadcrumbs, func(c nav.Crumb) g.Node {
			label := c.Label
			if c.LabelKey != "" {
				label = p.t(c.LabelKey)
			}
			if c.Active {
				return Li(g.Attr("aria-current", "page"), g.Text(label))
			}
			return Li(A(Href(c.Href), g.Text(label)))
		})),
	)
}

func (p page) backToReferences() g.Node {
	return A(
		Href(nav.Path(nav.References, p.Lang)),
		Class("btn btn-link back-link"),
		g.Attr("data-nav-target", string(nav.References)),
		g.Text(p.t("references.back")),
	)
}

func (p page) referenceDetail() g.Node {
	ref := p.Reference
	return Article(
		Class("container reference-detail"),
		g.Attr("data-reference", ref.ID),
		p.breadcrumbs(),
		p.backToReferences(),
		Header(
			Span(Class("reference-category"), g.Text(ref.Category)),
			H1(g.Text(ref.Title)),
			P(Class("lead"), g.Text(ref.Description)),
		),
		g.If(ref.Image != "", Img(Class("reference-hero"), Src(ref.Image), Alt(ref.Title))),
		g.If(ref.ScrollAnimationURL != "", Section(
			Class("reference-video"),
			H2(g.Text(p.t("references.video"))),
			Video(
				Src(ref.ScrollAnimationURL),
				g.Attr("muted"),
				g.Attr("loop"),
				g.Attr("playsinline"),
				g.Attr("autoplay"),
				g.Attr("preload", "metadata"),
			),
		)),
		g.If(len(ref.GalleryImages) > 0, Section(
			Class("reference-gallery"),
			H2(g.Text(p.t("references.gallery"))),
			Div(Class("gallery-grid"), g.Map(ref.GalleryImages, func(src string) g.Node {
				return Img(Src(src), Alt(ref.Title), g.Attr("loading", "lazy"))
			})),
		)),
		Dl(
			Class("reference-facts"),
			g.If(len(ref.Stack) > 0, g.Group([]g.Node{
				Dt(g.Text(p.t("references.stack"))),
				Dd(bulletList("stack-list", ref.Stack)),
			})),
			g.If(ref.Year > 0, g.Group([]g.Node{
				Dt(g.Text(p.t("references.year"))),
				Dd(g.Text(strconv.Itoa(ref.Year))),
			})),
		),
		g.If(ref.URL != "", A(
			Href(ref.URL),
			Class("btn btn-primary"),
			Target("_blank"),
			Rel("noopener noreferrer"),
			g.Text(p.t("references.visit")),
		)),
		p.adjacentLinks(),
	)
}

func (p page) adjacentLinks() g.Node {
	link := func(ref *content.Reference, labelKey, rel string) g.Node {
		if ref == nil {
			return nil
		}
		return A(
			Href(nav.ReferencePathFor(ref.ID, p.Lang)),
			Rel(rel),
			Class("adjacent-"+rel),
			Span(Class("adjacent-label"), g.Text(p.t(labelKey))),
			Strong(g.Text(ref.Title)),
		)
	}
	if p.Prev == nil && p.Next == nil {
		return nil
	}
	return Nav(
		Class("reference-adjacent"),
		link(p.Prev, "references.prev", "prev"),
		link(p.Next, "references.next", "next"),
	)
}

func (p page) referenceNotFound() g.Node {
	return Section(
		Class("container not-found"),
		g.Attr("data-not-found", "reference"),
		p.breadcrumbs(),
		H1(g.Text(p.t("references.notFound.title"))),
		P(g.Text(p.t("references.notFound.description"))),
		p.backToReferences(),
	)
}

func (p page) notFound() g.Node {
	return Section(
		Class("container not-found"),
		g.Attr("data-not-found", "page"),
		H1(g.Text(p.t("notfound.title"))),
		P(g.Text(p.t("notfound.description"))),
		A(Href("/"), Class("btn btn-primary"), g.Attr("data-nav-target", string(nav.Home)), g.Text(p.t("notfound.button"))),
	)
}
