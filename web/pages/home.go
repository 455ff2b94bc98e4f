package pages

import (
	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/rweb"
)

// Home renders the landing page. The real editing surface lives in the
// client; this page just identifies the server.
func Home(ctx rweb.Context) error {
	ctx.Response().SetHeader("Content-Type", "text/html; charset=utf-8")

	return ctx.WriteHTML(layout("still", func(b *element.Builder) {
		b.Div("class", "card").R(
			b.H1().T("still"),
			b.P("class", "meta").T("Local first, then cloud. Notes sync here when you sign in."),
		)
	}))
}
