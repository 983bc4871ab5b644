package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SubmitButton renders the form submit button around children. The loading
// flag is exposed as data-loading only; the button stays enabled.
func SubmitButton(loading bool, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<button type=\"submit\" class=\"shad-primary-btn w-full\"")
		if loading {
			hw.raw(" data-loading=\"true\"")
		}
		hw.raw(">")
		hw.component(ctx, children)
		hw.raw("</button>")
		return hw.err
	})
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}
