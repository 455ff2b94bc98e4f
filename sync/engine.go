package sync

import (
	"context"
	"strings"
	sysync "sync"
	"time"

	"github.com/rohanthewiz/logger"
)

// Engine reconciles the local note cache against the server note store.
// The local cache is the presentation source of truth: every edit lands
// there immediately and is written through to disk, while a trailing-edge
// debounce pushes the active note's final state to the server after a quiet
// period. Server responses replace the local set wholesale (last-write-wins
// at list granularity), guarded by a monotonic sequence so a slow early
// response can never overwrite the result of a newer push.
//
// The engine owns its state explicitly (construct with NewEngine, tear down
// with Close) rather than holding anything in package globals.
type Engine struct {
	cfg     *Config
	cache   *Cache
	client  *Client
	session *Session
	push    *Debouncer

	mu       sysync.Mutex
	notes    []Note
	activeID string
	draft    Draft
	pushSeq  uint64
}

// NewEngine creates an engine hydrated from the local cache: persisted
// notes, draft, and identity all come back before any network traffic.
func NewEngine(cfg *Config, cache *Cache, client *Client) *Engine {
	e := &Engine{
		cfg:    cfg,
		cache:  cache,
		client: client,
		push:   NewDebouncer(cfg.Debounce),
	}

	e.notes = cache.LoadNotes()
	e.draft = cache.LoadDraft()
	if len(e.notes) > 0 {
		e.activeID = e.notes[0].ID
	}

	ident := cache.LoadIdentity()
	e.session = NewSession(ident)
	if ident != nil {
		client.SetToken(ident.Token)
	}

	return e
}

// Session exposes the identity session for callers that display auth state.
func (e *Engine) Session() *Session {
	return e.session
}

// Start performs the session-start pull when an identity was restored from
// the cache. Failures are swallowed: the local cache stays valid offline
// and the next sign-in or edit is the implicit retry.
func (e *Engine) Start(ctx context.Context) {
	if !e.session.Authenticated() {
		return
	}
	e.pull(ctx)
}

// Close cancels any pending or in-flight push. Call when the owning context
// (app window, test) ends.
func (e *Engine) Close() {
	e.push.Stop()
}

// SignIn authenticates and, on success, replaces the local note set with the
// server's. Any local-only notes created while Anonymous are intentionally
// superseded; the server is authoritative for a freshly authenticated
// device. The authentication error itself is surfaced (user-initiated);
// a pull failure after it is not.
func (e *Engine) SignIn(ctx context.Context, email, password string) error {
	ident, err := e.client.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}

	e.session.Authenticate(*ident)
	if err := e.cache.SaveIdentity(ident); err != nil {
		logger.LogErr(err, "failed to persist identity")
	}

	e.pull(ctx)
	return nil
}

// SignOut cancels pending sync work and drops the identity. Notes stay in
// the local cache; they are simply no longer mirrored.
func (e *Engine) SignOut() {
	e.push.Stop()
	e.session.SignOut()
	e.client.SetToken("")
	if err := e.cache.SaveIdentity(nil); err != nil {
		logger.LogErr(err, "failed to clear persisted identity")
	}

	e.mu.Lock()
	e.activeID = ""
	e.mu.Unlock()
}

// pull fetches the identity's full note list and replaces the local set.
func (e *Engine) pull(ctx context.Context) {
	notes, err := e.client.ListNotes(ctx)
	if err != nil {
		logger.Debug("Session-start pull failed; staying local", "error", err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.notes = notes
	e.activeID = ""
	if len(notes) > 0 {
		e.activeID = notes[0].ID
	}
	e.persistNotesLocked()
}

// Notes returns a copy of the local note set.
func (e *Engine) Notes() []Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Note, len(e.notes))
	copy(out, e.notes)
	return out
}

// ActiveID returns the id of the note selected for editing, or empty.
func (e *Engine) ActiveID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// ActiveNote returns a copy of the active note, or nil when none is selected.
func (e *Engine) ActiveNote() *Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := e.findLocked(e.activeID); n != nil {
		cp := *n
		return &cp
	}
	return nil
}

// SetActive selects a note for editing. Switching notes cancels any pending
// or in-flight push for the previous note.
func (e *Engine) SetActive(id string) {
	e.push.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.findLocked(id) != nil {
		e.activeID = id
	}
}

// Draft returns the current pre-note draft.
func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetTitle edits the active note's title, or the draft's when no note is
// active. An empty title on a real note is normalized immediately and is
// never even held locally.
func (e *Engine) SetTitle(title string) {
	e.mu.Lock()
	if e.activeID == "" {
		e.draft.Title = title
		e.persistDraftLocked()
		e.mu.Unlock()
		return
	}
	if n := e.findLocked(e.activeID); n != nil {
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		n.Title = title
		n.UpdatedAt = nextUpdatedAt(n.UpdatedAt)
		e.persistNotesLocked()
	}
	e.mu.Unlock()

	e.schedulePush()
}

// SetContent edits the active note's content, or the draft's.
func (e *Engine) SetContent(content string) {
	e.mu.Lock()
	if e.activeID == "" {
		e.draft.Content = content
		e.persistDraftLocked()
		e.mu.Unlock()
		return
	}
	if n := e.findLocked(e.activeID); n != nil {
		n.Content = content
		n.UpdatedAt = nextUpdatedAt(n.UpdatedAt)
		e.persistNotesLocked()
	}
	e.mu.Unlock()

	e.schedulePush()
}

// TogglePinned flips the active note's pinned flag.
func (e *Engine) TogglePinned() {
	e.mu.Lock()
	if n := e.findLocked(e.activeID); n != nil {
		n.Pinned = !n.Pinned
		n.UpdatedAt = nextUpdatedAt(n.UpdatedAt)
		e.persistNotesLocked()
	}
	e.mu.Unlock()

	e.schedulePush()
}

// NewNote promotes the draft into an optimistic local note with a
// client-assigned id, places it at the head of the list, and makes it
// active. The server's upsert contract later creates the note under this
// exact id, so no merge-by-rename is ever needed.
func (e *Engine) NewNote() Note {
	e.mu.Lock()
	title := strings.TrimSpace(e.draft.Title)
	if title == "" {
		title = "Untitled"
	}

	note := Note{
		ID:        mintLocalID(),
		Title:     title,
		Content:   e.draft.Content,
		UpdatedAt: nextUpdatedAt(e.latestUpdatedAtLocked()),
	}
	e.notes = append([]Note{note}, e.notes...)
	e.activeID = note.ID
	e.draft = Draft{}
	e.persistNotesLocked()
	e.persistDraftLocked()
	e.mu.Unlock()

	e.schedulePush()
	return note
}

// Delete removes the active note locally first (the user-facing truth),
// then issues a best-effort server delete while Authenticated. A failed
// delete is swallowed: no rollback, no retry.
func (e *Engine) Delete(ctx context.Context) {
	e.push.Stop()

	e.mu.Lock()
	id := e.activeID
	if id == "" {
		e.mu.Unlock()
		return
	}
	kept := e.notes[:0]
	for _, n := range e.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	e.notes = kept
	e.activeID = ""
	e.persistNotesLocked()
	e.mu.Unlock()

	if !e.session.Authenticated() {
		return
	}
	if _, err := e.client.DeleteNote(ctx, id); err != nil {
		logger.Debug("Server delete failed; local removal stands", "id", id, "error", err)
	}
}

// schedulePush arms the debounced write-back of the active note. Only the
// final state after the quiet period is sent; a new edit inside the window
// cancels and re-arms. Not applicable while Anonymous.
func (e *Engine) schedulePush() {
	if !e.session.Authenticated() {
		return
	}

	e.mu.Lock()
	n := e.findLocked(e.activeID)
	if n == nil {
		e.mu.Unlock()
		return
	}
	note := *n
	e.pushSeq++
	seq := e.pushSeq
	e.mu.Unlock()

	e.push.Schedule(func(ctx context.Context) {
		notes, err := e.client.UpsertNote(ctx, note)
		if err != nil {
			logger.Debug("Background push failed; local state remains authoritative", "error", err)
			return
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		// Discard responses superseded by a newer push or a canceled task;
		// a slow early response must not overwrite fresher data
		if seq != e.pushSeq || ctx.Err() != nil {
			return
		}
		e.notes = notes
		e.persistNotesLocked()
	})
}

func (e *Engine) findLocked(id string) *Note {
	if id == "" {
		return nil
	}
	for i := range e.notes {
		if e.notes[i].ID == id {
			return &e.notes[i]
		}
	}
	return nil
}

func (e *Engine) latestUpdatedAtLocked() time.Time {
	var latest time.Time
	for i := range e.notes {
		if e.notes[i].UpdatedAt.After(latest) {
			latest = e.notes[i].UpdatedAt
		}
	}
	return latest
}

func (e *Engine) persistNotesLocked() {
	if err := e.cache.SaveNotes(e.notes); err != nil {
		logger.LogErr(err, "failed to persist notes")
	}
}

func (e *Engine) persistDraftLocked() {
	if err := e.cache.SaveDraft(e.draft); err != nil {
		logger.LogErr(err, "failed to persist draft")
	}
}
