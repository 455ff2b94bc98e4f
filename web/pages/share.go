package pages

import (
	"net/http"

	"github.com/holyholical/still/models"

	"github.com/rohanthewiz/element"
	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
)

// SharedNote renders the read view of a shared note.
// The mode query param ("readonly" or "collab") only changes the hint shown;
// collaborative editing itself happens through the share API, which clients
// poll and push against.
func SharedNote(ctx rweb.Context) error {
	ctx.Response().SetHeader("Content-Type", "text/html; charset=utf-8")

	token := ctx.Request().Param("token")
	mode := ctx.Request().QueryParam("mode")

	note, err := models.GetNoteByShareToken(token)
	if err != nil {
		logger.LogErr(err, "failed to load shared note")
	}

	if note == nil {
		ctx.SetStatus(http.StatusNotFound)
		return ctx.WriteHTML(layout("still · share", func(b *element.Builder) {
			b.Div("class", "card").R(
				b.H1().T("still · share"),
				b.P("class", "meta").T("This note could not be found."),
			)
		}))
	}

	hint := "read-only view"
	if mode == "collab" {
		hint = "live collaboration · open in the app to edit"
	}

	return ctx.WriteHTML(layout("still · share", func(b *element.Builder) {
		b.Div("class", "card").R(
			b.H1().T(note.Title),
			b.P("class", "meta").T(hint+" · last touched "+note.UpdatedAt.Format("15:04")),
			b.Pre().T(note.Content),
		)
	}))
}
