package sync

import (
	"os"
	"path/filepath"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache file names under the cache directory.
const (
	notesFile   = "notes.mp"
	draftFile   = "draft.mp"
	sessionFile = "session.mp"
)

// Cache is the client's persistent local store: the working note set, the
// pre-note draft, and the identity marker, each in its own msgpack file.
// Loads tolerate missing or corrupt files by returning empty defaults;
// a damaged cache must never take the client down. Saves are atomic
// (temp file + rename) so a crash mid-write cannot corrupt prior state.
type Cache struct {
	dir string
}

// NewCache opens (creating if needed) a cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, serr.Wrap(err, "failed to create cache directory")
	}
	return &Cache{dir: dir}, nil
}

// LoadNotes returns the persisted note set, or nil when absent/corrupt.
func (c *Cache) LoadNotes() []Note {
	var notes []Note
	c.load(notesFile, &notes)
	return notes
}

// SaveNotes mirrors the in-memory note set to disk.
func (c *Cache) SaveNotes(notes []Note) error {
	return c.save(notesFile, notes)
}

// LoadDraft returns the persisted draft, or the zero draft.
func (c *Cache) LoadDraft() Draft {
	var draft Draft
	c.load(draftFile, &draft)
	return draft
}

// SaveDraft mirrors the draft to disk.
func (c *Cache) SaveDraft(draft Draft) error {
	return c.save(draftFile, draft)
}

// LoadIdentity returns the persisted identity marker, or nil when signed out.
func (c *Cache) LoadIdentity() *Identity {
	var ident Identity
	if !c.load(sessionFile, &ident) || ident.ID == "" {
		return nil
	}
	return &ident
}

// SaveIdentity persists the identity marker; nil removes it (sign-out).
func (c *Cache) SaveIdentity(ident *Identity) error {
	if ident == nil {
		err := os.Remove(filepath.Join(c.dir, sessionFile))
		if err != nil && !os.IsNotExist(err) {
			return serr.Wrap(err, "failed to remove session file")
		}
		return nil
	}
	return c.save(sessionFile, ident)
}

// load reads and decodes one cache file into dst.
// Returns false on any failure; the caller keeps its zero value.
func (c *Cache) load(name string, dst any) bool {
	raw, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return false
	}
	if err := msgpack.Unmarshal(raw, dst); err != nil {
		logger.Debug("Discarding unreadable cache file", "file", name, "error", err)
		return false
	}
	return true
}

// save encodes src and writes it atomically to one cache file.
func (c *Cache) save(name string, src any) error {
	raw, err := msgpack.Marshal(src)
	if err != nil {
		return serr.Wrap(err, "failed to encode cache file")
	}

	path := filepath.Join(c.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return serr.Wrap(err, "failed to write cache file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return serr.Wrap(err, "failed to replace cache file")
	}
	return nil
}
