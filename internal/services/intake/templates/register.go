package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// RegisterView describes the patient shown on the registration landing.
type RegisterView struct {
	Name  string
	Email string
	Phone string
}

// RegisterPage renders the registration landing for a new patient.
func RegisterPage(page PageContext, view RegisterView) templ.Component {
	if page.Title == "" {
		page.Title = T(page.Loc, "register.page_title")
	}
	return Layout(page, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<section class=\"mb-12 space-y-4\"><h1 class=\"header\">")
		hw.text(T(page.Loc, "register.heading", view.Name))
		hw.raw("</h1><p class=\"text-dark-700\">")
		hw.text(T(page.Loc, "register.subheading"))
		hw.raw("</p></section><dl class=\"details\">")
		if view.Email != "" {
			hw.raw("<dt>")
			hw.text(T(page.Loc, "register.email"))
			hw.raw("</dt><dd data-field=\"email\">")
			hw.text(view.Email)
			hw.raw("</dd>")
		}
		if view.Phone != "" {
			hw.raw("<dt>")
			hw.text(T(page.Loc, "register.phone"))
			hw.raw("</dt><dd data-field=\"phone\">")
			hw.text(view.Phone)
			hw.raw("</dd>")
		}
		hw.raw("</dl>")
		return hw.err
	}))
}
