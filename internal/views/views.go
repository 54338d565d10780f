// Package views renders the site with gomponents. Every component reads from
// a handlers.PageData and translates through the i18n bundle.
package views

import (
	"io"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/format"
	"dobosdev.hu/web/internal/handlers"
	"dobosdev.hu/web/internal/i18n"
	"dobosdev.hu/web/internal/nav"
)

// Renderer turns view models into HTML nodes.
type Renderer struct {
	bundle *i18n.Bundle
}

func New(bundle *i18n.Bundle) *Renderer {
	return &Renderer{bundle: bundle}
}

// page binds one view model to the translator so components can call p.t.
type page struct {
	*handlers.PageData
	bundle *i18n.Bundle
}

func (r *Renderer) bind(pd *handlers.PageData) page {
	return page{PageData: pd, bundle: r.bundle}
}

func (p page) t(key string) string { return p.bundle.T(string(p.Lang), key) }

func (p page) tf(key string, args ...any) string { return p.bundle.Tf(string(p.Lang), key, args...) }

func (p page) price(amount int64) string { return format.Price(amount, string(p.Lang)) }

// Page renders a full document for pd: the one-page shell, a reference
// detail, or a not-found page.
func (r *Renderer) Page(pd handlers.PageData) g.Node {
	p := r.bind(&pd)
	var body g.Node
	switch {
	case pd.ReferenceMissing:
		body = p.referenceNotFound()
	case pd.NotFound:
		body = p.notFound()
	case pd.Reference != nil:
		body = p.referenceDetail()
	default:
		body = p.onePage()
	}
	return p.layout(body)
}

// ContactFragment renders only the contact form, for HTMX swaps.
func (r *Renderer) ContactFragment(pd handlers.PageData) g.Node {
	return r.bind(&pd).contactForm()
}

// LegalFragment renders the body of a legal dialog.
func (r *Renderer) LegalFragment(pd handlers.PageData, legal content.LegalPage) g.Node {
	return r.bind(&pd).legalBody(legal)
}

// Render writes n to w.
func Render(w io.Writer, n g.Node) error {
	return n.Render(w)
}

func (p page) onePageShown() bool {
	return !p.NotFound && p.Reference == nil
}

func (p page) onePage() g.Node {
	return g.Group([]g.Node{
		p.hero(),
		p.services(),
		p.process(),
		p.pricing(),
		p.references(),
		p.faq(),
		p.contactSection(),
	})
}

// sectionNode wraps children in the anchor element the scroll-spy measures.
func sectionNode(t nav.Target, class string, children ...g.Node) g.Node {
	return Section(
		ID(string(t)),
		g.Attr("data-section", string(t)),
		Class("section "+class),
		g.Group(children),
	)
}

func sectionHeading(title, subtitle string) g.Node {
	return Div(
		Class("section-heading"),
		H2(g.Text(title)),
		g.If(subtitle != "", P(Class("section-subtitle"), g.Text(subtitle))),
	)
}

func icon(name string) g.Node {
	if name == "" {
		return nil
	}
	return Span(
		Class("icon icon-"+name),
		g.Attr("data-icon", name),
		g.Attr("aria-hidden", "true"),
	)
}

func bulletList(class string, items []string) g.Node {
	if len(items) == 0 {
		return nil
	}
	return Ul(Class(class), g.Map(items, func(s string) g.Node { return Li(g.Text(s)) }))
}

func classes(names ...string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
