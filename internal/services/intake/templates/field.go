package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/carepulse/internal/services/intake/form"
)

// CustomFormField renders one configured field bound to b. Field types
// without a widget render only their label and message.
func CustomFormField(field form.Field, b *form.Binding) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		inputID := "field-" + field.Name
		message := b.Error(field.Name)

		hw.raw("<div class=\"form-item\"")
		hw.attr("data-field", field.Name)
		hw.raw(">")
		if field.HasLabel() {
			hw.raw("<label class=\"shad-input-label\"")
			hw.attr("for", inputID)
			hw.raw(">")
			hw.text(field.Label)
			hw.raw("</label>")
		}
		switch field.Type {
		case form.FieldInput:
			writeTextInput(hw, field, inputID, b.Value(field.Name), message != "")
		case form.FieldPhoneInput:
			writePhoneInput(hw, field, inputID, b.Value(field.Name), message != "")
		}
		if message != "" {
			hw.raw("<p class=\"shad-error\"")
			hw.attr("id", inputID+"-error")
			hw.raw(">")
			hw.text(message)
			hw.raw("</p>")
		}
		hw.raw("</div>")
		return hw.err
	})
}

func writeTextInput(hw *htmlWriter, field form.Field, id, value string, invalid bool) {
	hw.raw("<div class=\"flex rounded-md border border-dark-500 bg-dark-400\">")
	if field.IconSrc != "" {
		hw.raw("<img")
		hw.attr("src", field.IconSrc)
		hw.attr("alt", field.IconAltText())
		hw.raw(" width=\"24\" height=\"24\" class=\"ml-2\">")
	}
	hw.raw("<input type=\"text\" class=\"shad-input border-0\"")
	writeInputAttrs(hw, field, id, value, invalid)
	hw.raw("></div>")
}

func writePhoneInput(hw *htmlWriter, field form.Field, id, value string, invalid bool) {
	region := field.Region
	if region == "" {
		region = form.DefaultRegion
	}
	hw.raw("<input type=\"tel\" class=\"input-phone\" autocomplete=\"tel\" inputmode=\"tel\"")
	hw.attr("data-default-country", region)
	hw.raw(" data-international=\"true\"")
	writeInputAttrs(hw, field, id, value, invalid)
	hw.raw(">")
}

func writeInputAttrs(hw *htmlWriter, field form.Field, id, value string, invalid bool) {
	hw.attr("id", id)
	hw.attr("name", field.Name)
	hw.attr("value", value)
	if field.Placeholder != "" {
		hw.attr("placeholder", field.Placeholder)
	}
	hw.flag("disabled", field.Disabled)
	if invalid {
		hw.raw(" aria-invalid=\"true\"")
		hw.attr("aria-describedby", id+"-error")
	}
}
