package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
)

// ErrorPage renders a localized error page for statusCode. messageKey
// overrides the status message when set.
func ErrorPage(page PageContext, statusCode int, messageKey string) templ.Component {
	if messageKey == "" {
		messageKey = errorMessageKey(statusCode)
	}
	if page.Title == "" {
		page.Title = T(page.Loc, "errors.page_title")
	}
	return Layout(page, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<section class=\"mb-12 space-y-4\"><h1 class=\"header\">")
		hw.text(T(page.Loc, "errors.page_title"))
		hw.raw("</h1><p class=\"text-dark-700\"")
		hw.attr("data-status", http.StatusText(statusCode))
		hw.raw(">")
		hw.text(T(page.Loc, messageKey))
		hw.raw("</p><a")
		hw.attr("href", routepath.Root)
		hw.raw(">")
		hw.text(T(page.Loc, "errors.back_home"))
		hw.raw("</a></section>")
		return hw.err
	}))
}

func errorMessageKey(statusCode int) string {
	switch {
	case statusCode == http.StatusNotFound:
		return "errors.not_found"
	case statusCode == http.StatusServiceUnavailable:
		return "errors.unavailable"
	case statusCode >= 400 && statusCode < 500:
		return "errors.bad_request"
	default:
		return "errors.internal"
	}
}
