package sync

import (
	"context"
	"strings"
	"testing"
	"time"
)

// TestCreateShareLink tests the synchronous save-then-issue exchange and the
// composed URL.
func TestCreateShareLink(t *testing.T) {
	api := newFakeAPI()
	eng, _ := newTestEngine(t, api)

	if err := eng.SignIn(context.Background(), "jo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn() unexpected error: %v", err)
	}
	note := eng.NewNote()
	eng.SetContent("share me")

	link, err := eng.CreateShareLink(context.Background(), ModeCollab)
	if err != nil {
		t.Fatalf("CreateShareLink() unexpected error: %v", err)
	}

	if !strings.HasSuffix(link, "/share/tok12345?mode=collab") {
		t.Errorf("link = %q, want .../share/tok12345?mode=collab", link)
	}
	if !strings.HasPrefix(link, eng.client.BaseURL()) {
		t.Errorf("link = %q, want the server base URL prefix", link)
	}

	// The note was force-saved before the token was issued
	if got := api.lastUpsert(); got.Content != "share me" {
		t.Errorf("forced save content = %q, want the current note state", got.Content)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.shareIssues) != 1 || api.shareIssues[0] != note.ID {
		t.Errorf("share issues = %v, want one for %q", api.shareIssues, note.ID)
	}
}

// TestCreateShareLinkReadonlyMode tests the mode query parameter.
func TestCreateShareLinkReadonlyMode(t *testing.T) {
	api := newFakeAPI()
	eng, _ := newTestEngine(t, api)

	if err := eng.SignIn(context.Background(), "jo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn() unexpected error: %v", err)
	}
	eng.NewNote()

	link, err := eng.CreateShareLink(context.Background(), ModeReadonly)
	if err != nil {
		t.Fatalf("CreateShareLink() unexpected error: %v", err)
	}
	if !strings.HasSuffix(link, "?mode=readonly") {
		t.Errorf("link = %q, want mode=readonly", link)
	}
}

// TestCreateShareLinkNoActiveNote tests the no-selection error.
func TestCreateShareLinkNoActiveNote(t *testing.T) {
	api := newFakeAPI()
	eng, _ := newTestEngine(t, api)

	if err := eng.SignIn(context.Background(), "jo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn() unexpected error: %v", err)
	}

	if _, err := eng.CreateShareLink(context.Background(), ModeCollab); err != ErrNoActiveNote {
		t.Errorf("CreateShareLink() error = %v, want ErrNoActiveNote", err)
	}
}

// TestCreateShareLinkAnonymous tests that sharing requires a session.
func TestCreateShareLinkAnonymous(t *testing.T) {
	api := newFakeAPI()
	eng, _ := newTestEngine(t, api)
	eng.NewNote()

	if _, err := eng.CreateShareLink(context.Background(), ModeCollab); err != ErrUnauthorized {
		t.Errorf("CreateShareLink() error = %v, want ErrUnauthorized", err)
	}
	if n := api.upsertCount(); n != 0 {
		t.Errorf("anonymous share still pushed %d times, want 0", n)
	}
}

// TestCreateShareLinkSupersedesPendingPush tests that the forced save wins
// over a pending debounced push.
func TestCreateShareLinkSupersedesPendingPush(t *testing.T) {
	api := newFakeAPI()
	eng, _ := newTestEngine(t, api)

	if err := eng.SignIn(context.Background(), "jo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn() unexpected error: %v", err)
	}
	eng.NewNote()
	eng.SetContent("latest")

	if _, err := eng.CreateShareLink(context.Background(), ModeCollab); err != nil {
		t.Fatalf("CreateShareLink() unexpected error: %v", err)
	}

	// Only the forced save arrives; the debounced push was canceled
	time.Sleep(100 * time.Millisecond)
	if n := api.upsertCount(); n != 1 {
		t.Errorf("push count = %d, want 1 (the forced save)", n)
	}
}
