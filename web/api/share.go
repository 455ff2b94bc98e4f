package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/holyholical/still/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
)

// ShareTokenInput is the request body for creating a share token.
// ShareToken is optional; when absent the server reuses or mints one.
type ShareTokenInput struct {
	NoteID     string `json:"note_id"`
	ShareToken string `json:"share_token,omitempty"`
}

// ShareTokenResponse carries the token bound to the note.
type ShareTokenResponse struct {
	ShareToken string `json:"share_token"`
}

// SharedNoteInput is the anonymous edit body for a shared note.
type SharedNoteInput struct {
	Title   string  `json:"title"`
	Content *string `json:"content"`
}

// CreateShareToken handles POST /api/v1/notes/share
// Binds a share token to one of the caller's notes and returns it.
func CreateShareToken(ctx rweb.Context) error {
	userID := CurrentUserID(ctx)
	if userID == "" {
		return writeError(ctx, http.StatusUnauthorized, "authentication required")
	}

	var input ShareTokenInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid JSON body")
	}
	if input.NoteID == "" {
		return writeError(ctx, http.StatusBadRequest, "note_id is required")
	}

	token, err := models.IssueShareToken(userID, input.NoteID, input.ShareToken)
	if err != nil {
		if errors.Is(err, models.ErrNoteNotFound) {
			return writeError(ctx, http.StatusNotFound, "note not found")
		}
		logger.LogErr(serr.Wrap(err, "failed to issue share token"), "note_id", input.NoteID)
		return writeError(ctx, http.StatusInternalServerError, "failed to issue share token")
	}

	return writeSuccess(ctx, http.StatusOK, ShareTokenResponse{ShareToken: token})
}

// GetSharedNote handles GET /api/v1/share/:token
// Anonymous read of a note by its share token.
func GetSharedNote(ctx rweb.Context) error {
	token := ctx.Request().Param("token")

	note, err := models.GetNoteByShareToken(token)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to get shared note"))
		return writeError(ctx, http.StatusInternalServerError, "database error")
	}
	if note == nil {
		return writeError(ctx, http.StatusNotFound, "note not found")
	}

	return writeSuccess(ctx, http.StatusOK, note.ToOutput())
}

// UpdateSharedNote handles POST /api/v1/share/:token
// Anonymous collaborative write addressed by share token. Last writer wins;
// the response carries the note as stored, with its fresh updated_at.
func UpdateSharedNote(ctx rweb.Context) error {
	token := ctx.Request().Param("token")

	var input SharedNoteInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid JSON body")
	}
	if input.Content == nil {
		return writeError(ctx, http.StatusBadRequest, "content is required")
	}

	note, err := models.UpdateNoteByShareToken(token, input.Title, *input.Content)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to update shared note"))
		return writeError(ctx, http.StatusInternalServerError, "failed to update note")
	}
	if note == nil {
		return writeError(ctx, http.StatusNotFound, "note not found")
	}

	return writeSuccess(ctx, http.StatusOK, note.ToOutput())
}
