package api

import (
	"encoding/json"
	"net/http"

	"github.com/holyholical/still/models"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
)

// NotesResponse wraps the full note list every mutating endpoint returns.
// The client replaces its local set wholesale with this list.
type NotesResponse struct {
	Notes []models.NoteOutput `json:"notes"`
}

// ListNotes handles GET /api/v1/notes
// Returns the authenticated user's full note list, newest-created first.
func ListNotes(ctx rweb.Context) error {
	userID := CurrentUserID(ctx)
	if userID == "" {
		return writeError(ctx, http.StatusUnauthorized, "authentication required")
	}

	notes, err := models.ListNotes(userID)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to list notes"), "user_id", userID)
		return writeError(ctx, http.StatusInternalServerError, "database error")
	}

	return writeSuccess(ctx, http.StatusOK, NotesResponse{Notes: models.NotesToOutput(notes)})
}

// UpsertNote handles POST /api/v1/notes
// Applies the upsert contract (update in place, create under a client id, or
// mint a fresh id) and returns the full resulting note list.
func UpsertNote(ctx rweb.Context) error {
	userID := CurrentUserID(ctx)
	if userID == "" {
		return writeError(ctx, http.StatusUnauthorized, "authentication required")
	}

	var input models.NoteInput
	if err := json.Unmarshal(ctx.Request().Body(), &input); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid JSON body")
	}

	// Reject before any write - an absent content field is a malformed
	// request, distinct from an intentionally empty note body
	if input.Content == nil {
		return writeError(ctx, http.StatusBadRequest, "content is required")
	}

	notes, err := models.UpsertNote(userID, input)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to upsert note"), "user_id", userID)
		return writeError(ctx, http.StatusInternalServerError, "failed to save note")
	}

	return writeSuccess(ctx, http.StatusOK, NotesResponse{Notes: models.NotesToOutput(notes)})
}

// DeleteNote handles DELETE /api/v1/notes/:id
// Removes the note permanently and returns the remaining list. Deleting an
// unknown id succeeds; the caller's local state already dropped it.
func DeleteNote(ctx rweb.Context) error {
	userID := CurrentUserID(ctx)
	if userID == "" {
		return writeError(ctx, http.StatusUnauthorized, "authentication required")
	}

	id := ctx.Request().Param("id")
	if id == "" {
		return writeError(ctx, http.StatusBadRequest, "missing note id")
	}

	notes, err := models.DeleteNote(userID, id)
	if err != nil {
		logger.LogErr(serr.Wrap(err, "failed to delete note"), "user_id", userID, "id", id)
		return writeError(ctx, http.StatusInternalServerError, "failed to delete note")
	}

	logger.Info("Note deleted", "user_id", userID, "id", id)
	return writeSuccess(ctx, http.StatusOK, NotesResponse{Notes: models.NotesToOutput(notes)})
}
