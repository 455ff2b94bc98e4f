package models

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// ErrNoteNotFound signals that a note id is unknown for the given user.
var ErrNoteNotFound = errors.New("note not found")

// Note is a single note owned by a user. The id is a string the client may
// have assigned optimistically before the note ever reached the server, so
// the (user_id, id) pair is the primary key rather than a server sequence.
type Note struct {
	ID         string
	UserID     string
	Title      string
	Content    string
	Pinned     bool
	ShareToken sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateNotesTableSQL is the DDL for the notes table.
// share_token is globally unique across all users' notes: it is the lookup
// key for anonymous access via share links.
const CreateNotesTableSQL = `
CREATE TABLE IF NOT EXISTS notes (
    id          VARCHAR NOT NULL,
    user_id     VARCHAR NOT NULL,
    title       VARCHAR NOT NULL,
    content     VARCHAR NOT NULL,
    pinned      BOOLEAN DEFAULT false,
    share_token VARCHAR,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL,
    PRIMARY KEY (user_id, id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_share_token ON notes(share_token);
`

// NoteInput is the upsert request body. Content is a pointer so a missing
// field can be rejected before any write (ValidationFailure), distinct from
// an intentionally empty note body.
type NoteInput struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned,omitempty"`
}

// NoteOutput is the JSON wire representation of a Note.
type NoteOutput struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Pinned     bool      `json:"pinned"`
	ShareToken string    `json:"share_token,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToOutput converts a Note to its wire representation.
func (n *Note) ToOutput() NoteOutput {
	out := NoteOutput{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Pinned:    n.Pinned,
		UpdatedAt: n.UpdatedAt,
	}
	if n.ShareToken.Valid {
		out.ShareToken = n.ShareToken.String
	}
	return out
}

const untitled = "Untitled"

// normalizeTitle enforces the rule that an empty title is never persisted.
func normalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return untitled
	}
	return title
}

// nextUpdatedAt returns the write timestamp for a note, guaranteeing that
// updated_at strictly increases even when the clock has not moved past the
// previous value.
func nextUpdatedAt(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// randBase36 returns a short random token of n base36 characters.
func randBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf)
}

// mintNoteID creates a server-assigned note id.
func mintNoteID() string {
	return fmt.Sprintf("note_%d_%s", time.Now().UnixMilli(), randBase36(6))
}

// ListNotes returns all of a user's notes, newest-created first. Updating a
// note does not move it in the list; only creation order matters here.
func ListNotes(userID string) ([]Note, error) {
	rows, err := db.Query(`
		SELECT id, user_id, title, content, pinned, share_token, created_at, updated_at
		FROM notes
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, serr.Wrap(err, "failed to list notes")
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetNote retrieves a single note by owner and id. Returns nil if absent.
func GetNote(userID, id string) (*Note, error) {
	row := db.QueryRow(`
		SELECT id, user_id, title, content, pinned, share_token, created_at, updated_at
		FROM notes
		WHERE user_id = ? AND id = ?`, userID, id)

	note := &Note{}
	err := scanNote(row, note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to get note")
	}
	return note, nil
}

// UpsertNote applies the upsert contract and returns the user's full
// resulting note list:
//   - id matches an existing note: update in place, refresh updated_at
//   - id present but unknown: create a note under that exact id (client-assigned
//     ids from optimistic local creation)
//   - id absent: mint a new server id
func UpsertNote(userID string, input NoteInput) ([]Note, error) {
	if input.Content == nil {
		return nil, serr.New("content is required")
	}

	title := normalizeTitle(input.Title)
	content := *input.Content

	if input.ID != "" {
		existing, err := GetNote(userID, input.ID)
		if err != nil {
			return nil, err
		}

		if existing != nil {
			pinned := existing.Pinned
			if input.Pinned != nil {
				pinned = *input.Pinned
			}
			updatedAt := nextUpdatedAt(existing.UpdatedAt)

			_, err = db.Exec(`
				UPDATE notes SET title = ?, content = ?, pinned = ?, updated_at = ?
				WHERE user_id = ? AND id = ?`,
				title, content, pinned, updatedAt, userID, input.ID)
			if err != nil {
				return nil, serr.Wrap(err, "failed to update note")
			}

			return ListNotes(userID)
		}
	}

	id := input.ID
	if id == "" {
		id = mintNoteID()
	}
	pinned := false
	if input.Pinned != nil {
		pinned = *input.Pinned
	}
	now := time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO notes (id, user_id, title, content, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, title, content, pinned, now, now)
	if err != nil {
		return nil, serr.Wrap(err, "failed to create note")
	}

	logger.Debug("Note created", "user_id", userID, "id", id)
	return ListNotes(userID)
}

// DeleteNote removes a note permanently and returns the remaining list.
// Deleting an unknown id is a no-op, not an error; the caller's local state
// already reflects the removal.
func DeleteNote(userID, id string) ([]Note, error) {
	_, err := db.Exec(`DELETE FROM notes WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return nil, serr.Wrap(err, "failed to delete note")
	}
	return ListNotes(userID)
}

// NotesToOutput converts a slice of notes to the wire representation.
func NotesToOutput(notes []Note) []NoteOutput {
	outputs := make([]NoteOutput, len(notes))
	for i := range notes {
		outputs[i] = notes[i].ToOutput()
	}
	return outputs
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner, note *Note) error {
	return row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.Pinned, &note.ShareToken, &note.CreatedAt, &note.UpdatedAt)
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		var note Note
		if err := scanNote(rows, &note); err != nil {
			logger.LogErr(err, "failed to scan note")
			continue
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
