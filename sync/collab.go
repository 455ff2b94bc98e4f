package sync

import (
	"context"
	sysync "sync"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Collab is a share-token editing session against a single shared note.
// It requires no identity: the token alone is the capability. In collab
// mode it polls the server on a fixed interval and pushes local edits on
// its own, shorter debounce; in readonly mode it neither polls nor pushes.
//
// Conflict handling is last-write-wins at note granularity. A poll that
// observes a changed updated_at overwrites the local view even when local
// unsaved edits exist; the clobbered edit is logged as a diff so the loss
// is at least visible in debug output.
type Collab struct {
	cfg    *Config
	client *Client
	token  string
	mode   Mode
	push   *Debouncer

	mu       sysync.Mutex
	note     Note
	dirty    bool
	lastSeen time.Time
	pushSeq  uint64

	cancel context.CancelFunc
	done   chan struct{}
}

// OpenShared resolves a share token into a collaboration session. An
// unknown or revoked token is terminal: the caller gets ErrNotFound and no
// session.
func OpenShared(ctx context.Context, cfg *Config, client *Client, token string, mode Mode) (*Collab, error) {
	note, err := client.GetNoteByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &Collab{
		cfg:      cfg,
		client:   client,
		token:    token,
		mode:     mode,
		push:     NewDebouncer(cfg.CollabDebounce),
		note:     note,
		lastSeen: note.UpdatedAt,
	}, nil
}

// Mode reports whether this session is readonly or collab.
func (c *Collab) Mode() Mode {
	return c.mode
}

// Note returns a copy of the current local view of the shared note.
func (c *Collab) Note() Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note
}

// Start begins the poll loop. Readonly sessions do not poll; their view is
// the initial fetch until reopened.
func (c *Collab) Start(ctx context.Context) {
	if c.mode != ModeCollab || c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.pollLoop(ctx)
}

// Close stops polling and cancels any pending or in-flight push. Responses
// arriving after Close are never applied.
func (c *Collab) Close() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	c.push.Stop()

	c.mu.Lock()
	c.pushSeq++
	c.mu.Unlock()
}

func (c *Collab) pollLoop(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx)
		}
	}
}

// poll fetches the shared note and overwrites the local view when the
// server's updated_at differs from the last applied one. This is where
// last-write-wins bites: a remote save between local keystrokes and the
// debounced push replaces the unsaved local text.
func (c *Collab) poll(ctx context.Context) {
	remote, err := c.client.GetNoteByShareToken(ctx, c.token)
	if err != nil {
		logger.Debug("Shared note poll failed", "token", c.token, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if remote.UpdatedAt.Equal(c.lastSeen) {
		return
	}

	if c.dirty {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(c.note.Content, remote.Content, false)
		logger.Debug("Remote edit replaced unsaved local changes",
			"token", c.token, "diff", dmp.DiffPrettyText(diffs))
	}

	c.note = remote
	c.lastSeen = remote.UpdatedAt
	c.dirty = false
	c.pushSeq++
}

// SetTitle edits the shared note's title locally and arms the debounced
// push. No-op in readonly mode.
func (c *Collab) SetTitle(title string) {
	c.edit(func(n *Note) { n.Title = title })
}

// SetContent edits the shared note's content locally and arms the push.
func (c *Collab) SetContent(content string) {
	c.edit(func(n *Note) { n.Content = content })
}

func (c *Collab) edit(apply func(*Note)) {
	if c.mode != ModeCollab {
		return
	}

	c.mu.Lock()
	apply(&c.note)
	c.dirty = true
	title, content := c.note.Title, c.note.Content
	c.pushSeq++
	seq := c.pushSeq
	c.mu.Unlock()

	c.push.Schedule(func(ctx context.Context) {
		saved, err := c.client.UpdateNoteByShareToken(ctx, c.token, title, content)
		if err != nil {
			logger.Debug("Shared note push failed", "token", c.token, "error", err)
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.pushSeq || ctx.Err() != nil {
			return
		}
		c.note = saved
		c.lastSeen = saved.UpdatedAt
		c.dirty = false
	})
}
