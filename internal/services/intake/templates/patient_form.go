package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/carepulse/internal/services/intake/form"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
)

// PatientFormView carries the patient intake form state.
type PatientFormView struct {
	Fields  []form.Field
	Binding *form.Binding
}

// PatientFormPage renders the full intake page.
func PatientFormPage(page PageContext, view PatientFormView) templ.Component {
	if page.Title == "" {
		page.Title = T(page.Loc, "intake.page_title")
	}
	return Layout(page, PatientForm(page.Loc, view))
}

// PatientForm renders the intake form body.
func PatientForm(loc Localizer, view PatientFormView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<form method=\"post\" class=\"space-y-6 flex-1\" novalidate")
		hw.attr("action", routepath.Root)
		if view.Binding.Loading() {
			hw.raw(" data-loading=\"true\"")
		}
		hw.raw("><section class=\"mb-12 space-y-4\"><h1 class=\"header\">")
		hw.text(T(loc, "intake.heading"))
		hw.raw("</h1><p class=\"text-dark-700\">")
		hw.text(T(loc, "intake.subheading"))
		hw.raw("</p></section>")
		for _, field := range view.Fields {
			hw.component(ctx, CustomFormField(field, view.Binding))
		}
		hw.component(ctx, SubmitButton(view.Binding.Loading(), Text(T(loc, "intake.submit"))))
		hw.raw("</form>")
		return hw.err
	})
}
