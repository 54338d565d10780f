package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"dobosdev.hu/web/internal/contact"
	"dobosdev.hu/web/internal/content"
	"dobosdev.hu/web/internal/middleware"
	"dobosdev.hu/web/internal/nav"
)

func (p page) contactSection() g.Node {
	c := p.Site.Contact
	return sectionNode(nav.Contact, "contact",
		Div(
			Class("container contact-grid"),
			Div(
				Class("contact-info"),
				sectionHeading(p.t("contact.title"), p.t("contact.subtitle")),
				Dl(
					Class("card"),
					Dt(g.Text(p.t("contact.info.email"))),
					Dd(A(Href("mailto:"+c.Email), g.Text(c.Email))),
					Dt(g.Text(p.t("contact.info.phone"))),
					Dd(A(Href("tel:"+telHref(c.Phone)), g.Text(c.Phone))),
					Dt(g.Text(p.t("contact.info.location"))),
					Dd(g.Text(c.Location)),
				),
				P(Class("contact-note"), g.Text(p.t("contact.responseNote"))),
			),
			p.contactForm(),
		),
	)
}

// contactForm is also the HTMX swap target: a submission replaces it whole.
func (p page) contactForm() g.Node {
	cf := p.Contact
	f := cf.Form
	return Form(
		ID("contact-form"),
		Class("contact-form card"),
		Method("post"),
		Action(cf.Action),
		g.Attr("hx-post", cf.Action),
		g.Attr("hx-target", "this"),
		g.Attr("hx-swap", "outerHTML"),
		g.Attr("hx-disabled-elt", "find button[type=submit]"),
		g.Attr("data-status", string(cf.Status)),
		g.Attr("novalidate"),
		p.statusBanner(),
		Input(Type("hidden"), Name(middleware.CSRFFormField), Value(p.CSRFToken)),
		p.field(contact.FieldName, "contact.form.name",
			Input(Type("text"), ID("contact-name"), Name(contact.FieldName), Value(f.Name), g.Attr("autocomplete", "name"), Required()),
		),
		p.field(contact.FieldEmail, "contact.form.email",
			Input(Type("email"), ID("contact-email"), Name(contact.FieldEmail), Value(f.Email), g.Attr("autocomplete", "email"), Required()),
		),
		p.field(contact.FieldService, "contact.form.service", p.serviceSelect(f.Service)),
		p.field(contact.FieldMessage, "contact.form.message",
			Textarea(ID("contact-message"), Name(contact.FieldMessage), Rows("5"), Required(), g.Text(f.Message)),
		),
		Div(
			Class("form-consent"),
			Input(Type("checkbox"), ID("contact-consent"), Name(contact.FieldConsent), Value("on"), g.If(f.Consent, Checked())),
			Label(
				For("contact-consent"),
				g.Text(p.t("contact.form.privacyConsent")),
				g.Text(" "),
				A(
					Href("/legal/"+content.LegalPrivacy),
					g.Attr("hx-get", "/legal/"+content.LegalPrivacy),
					g.Attr("hx-target", "#legal-dialog-body"),
					g.Attr("data-legal-open", content.LegalPrivacy),
					g.Text(p.t("contact.form.privacyLink")),
				),
			),
		),
		g.If(p.CaptchaSiteKey != "", Div(Class("h-captcha"), g.Attr("data-sitekey", p.CaptchaSiteKey), g.Attr("data-hl", string(p.Lang)))),
		Button(
			Type("submit"),
			Class("btn btn-primary"),
			g.Attr("data-sending-label", p.t("contact.form.sending")),
			g.Text(p.t("contact.form.submit")),
		),
	)
}

func (p page) statusBanner() g.Node {
	cf := p.Contact
	if cf.MessageKey == "" {
		return nil
	}
	class := "alert"
	role := "alert"
	switch cf.Status {
	case contact.StatusSuccess:
		class += " alert-success"
		role = "status"
	case contact.StatusError:
		class += " alert-error"
	default:
		class += " alert-warning"
	}
	return Div(Class(class), g.Attr("role", role), g.Text(p.t(cf.MessageKey)))
}

func (p page) field(name, labelKey string, control g.Node) g.Node {
	errKey := p.Contact.FieldError(name)
	return Div(
		Class(classes("form-field", invalidClass(errKey))),
		Label(For("contact-"+name), g.Text(p.t(labelKey))),
		control,
		g.If(errKey != "", P(Class("field-error"), ID("contact-"+name+"-error"), g.Text(p.t(errKey)))),
	)
}

func invalidClass(errKey string) string {
	if errKey != "" {
		return "invalid"
	}
	return ""
}

func (p page) serviceSelect(selected string) g.Node {
	return Select(
		ID("contact-service"),
		Name(contact.FieldService),
		Required(),
		Option(Value(""), g.If(selected == "", Selected()), g.Text(p.t("contact.form.servicePlaceholder"))),
		g.Map(contact.ServiceOptions, func(opt string) g.Node {
			return Option(
				Value(opt),
				g.If(opt == selected, Selected()),
				g.Text(p.t("contact.form.serviceOptions."+opt)),
			)
		}),
	)
}
