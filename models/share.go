package models

import (
	"database/sql"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// shareTokenLength is the length of server-minted share tokens. Short enough
// to paste anywhere, long enough that collisions are vanishingly unlikely at
// this scale (and the unique index catches the rest).
const shareTokenLength = 8

// IssueShareToken binds a share token to a note and returns it.
// When the caller supplies no token, an existing token is reused so a note's
// share links stay valid across re-shares; a fresh one is minted otherwise.
// A caller-supplied token is bound verbatim, replacing any previous token.
func IssueShareToken(userID, noteID, token string) (string, error) {
	note, err := GetNote(userID, noteID)
	if err != nil {
		return "", err
	}
	if note == nil {
		return "", ErrNoteNotFound
	}

	if token == "" {
		if note.ShareToken.Valid && note.ShareToken.String != "" {
			return note.ShareToken.String, nil
		}
		token = randBase36(shareTokenLength)
	}

	_, err = db.Exec(`UPDATE notes SET share_token = ? WHERE user_id = ? AND id = ?`,
		token, userID, noteID)
	if err != nil {
		return "", serr.Wrap(err, "failed to bind share token")
	}

	logger.Info("Share token issued", "note_id", noteID)
	return token, nil
}

// GetNoteByShareToken looks a note up by its share token, across all users.
// Returns nil if the token is unknown.
func GetNoteByShareToken(token string) (*Note, error) {
	if token == "" {
		return nil, nil
	}

	row := db.QueryRow(`
		SELECT id, user_id, title, content, pinned, share_token, created_at, updated_at
		FROM notes
		WHERE share_token = ?`, token)

	note := &Note{}
	err := scanNote(row, note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to get note by share token")
	}
	return note, nil
}

// UpdateNoteByShareToken applies an anonymous collaborative edit addressed by
// token. Returns the updated note, or nil if the token is unknown.
func UpdateNoteByShareToken(token, title, content string) (*Note, error) {
	note, err := GetNoteByShareToken(token)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	note.Title = normalizeTitle(title)
	note.Content = content
	note.UpdatedAt = nextUpdatedAt(note.UpdatedAt)

	_, err = db.Exec(`
		UPDATE notes SET title = ?, content = ?, updated_at = ?
		WHERE share_token = ?`,
		note.Title, note.Content, note.UpdatedAt, token)
	if err != nil {
		return nil, serr.Wrap(err, "failed to update note by share token")
	}

	return note, nil
}
