package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohanthewiz/serr"
)

// Mode selects how a share link opens on the receiving side.
type Mode string

const (
	ModeReadonly Mode = "readonly"
	ModeCollab   Mode = "collab"
)

// ErrNoActiveNote is returned when a share is requested with nothing selected.
var ErrNoActiveNote = errors.New("no active note")

// CreateShareLink makes the active note reachable by URL. Unlike edits, this
// is a synchronous two-step exchange: the note is force-pushed first so the
// server has current content before a token is bound to it, then a share
// token is issued (reused if one already exists). Any pending debounced push
// is superseded by the forced one.
func (e *Engine) CreateShareLink(ctx context.Context, mode Mode) (string, error) {
	if !e.session.Authenticated() {
		return "", ErrUnauthorized
	}

	e.push.Stop()

	e.mu.Lock()
	n := e.findLocked(e.activeID)
	if n == nil {
		e.mu.Unlock()
		return "", ErrNoActiveNote
	}
	note := *n
	e.pushSeq++
	e.mu.Unlock()

	notes, err := e.client.UpsertNote(ctx, note)
	if errors.Is(err, ErrUnauthorized) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", serr.Wrap(err, "could not save note for sharing")
	}

	e.mu.Lock()
	e.notes = notes
	e.persistNotesLocked()
	e.mu.Unlock()

	token, err := e.client.IssueShareToken(ctx, note.ID, "")
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
		return "", err
	}
	if err != nil {
		return "", serr.Wrap(err, "could not issue share token")
	}

	return fmt.Sprintf("%s/share/%s?mode=%s", e.client.BaseURL(), token, mode), nil
}
