package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/carepulse/internal/platform/i18n"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Title        string
}

// Layout renders the document shell around body.
func Layout(page PageContext, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		lang := page.Lang
		if lang == "" {
			lang = i18n.DefaultTag().String()
		}
		hw.raw("<!DOCTYPE html><html")
		hw.attr("lang", lang)
		hw.raw("><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>")
		hw.text(T(page.Loc, "core.page_title", page.Title))
		hw.raw("</title><link rel=\"stylesheet\"")
		hw.attr("href", routepath.Static("css/intake.css"))
		hw.raw("></head><body><main class=\"container\">")
		writeLanguageSwitch(hw, page, lang)
		hw.component(ctx, body)
		hw.raw("<p class=\"copyright\">")
		hw.text(T(page.Loc, "core.copyright"))
		hw.raw("</p></main></body></html>")
		return hw.err
	})
}

func writeLanguageSwitch(hw *htmlWriter, page PageContext, current string) {
	hw.raw("<nav class=\"lang-switch\">")
	for _, tag := range i18n.SupportedTags() {
		labelKey := "core.lang_en"
		if base, _ := tag.Base(); base.String() == "es" {
			labelKey = "core.lang_es"
		}
		hw.raw("<a")
		hw.attr("href", i18n.LanguageURL(page.CurrentPath, page.CurrentQuery, tag.String()))
		hw.attr("hreflang", tag.String())
		if tag.String() == current {
			hw.attr("aria-current", "true")
		}
		hw.raw(">")
		hw.text(T(page.Loc, labelKey))
		hw.raw("</a>")
	}
	hw.raw("</nav>")
}
