package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Note is the client-side note representation, matching the server's wire
// format. The local cache persists these via msgpack.
type Note struct {
	ID         string    `json:"id" msgpack:"id"`
	Title      string    `json:"title" msgpack:"title"`
	Content    string    `json:"content" msgpack:"content"`
	Pinned     bool      `json:"pinned" msgpack:"pinned"`
	ShareToken string    `json:"share_token,omitempty" msgpack:"share_token,omitempty"`
	UpdatedAt  time.Time `json:"updated_at" msgpack:"updated_at"`
}

// Draft is content typed before any note exists: no id, not yet persisted
// server-side. Promoted to a Note by Engine.NewNote.
type Draft struct {
	Title   string `msgpack:"title"`
	Content string `msgpack:"content"`
}

// Identity is the lightweight session marker for an authenticated user.
// Purely advisory: the server revalidates every request. Token is the
// session JWT, persisted alongside so a restart does not force a fresh
// sign-in; a stale token only causes rejected (and swallowed) sync calls.
type Identity struct {
	ID    string `json:"id" msgpack:"id"`
	Email string `json:"email" msgpack:"email"`
	Token string `json:"-" msgpack:"token"`
}

// mintLocalID creates an optimistic client-assigned note id. The server's
// upsert contract creates a note under this exact id on first push, so the
// local and durable representations merge without renaming.
func mintLocalID() string {
	return fmt.Sprintf("local_%s", uuid.New().String())
}

// nextUpdatedAt bumps a note's timestamp for a local edit, keeping the
// strictly-increasing invariant even against a coarse or stalled clock.
func nextUpdatedAt(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
