package sync

import "sync"

// Session tracks whether the client is authenticated and for whom.
// Two states: Anonymous (identity nil) and Authenticated. The state is
// advisory: the server independently revalidates every request, so a stale
// session only causes rejected sync calls, never unauthorized access.
type Session struct {
	mu       sync.Mutex
	identity *Identity
}

// NewSession creates a session, optionally restored from a persisted identity.
func NewSession(ident *Identity) *Session {
	return &Session{identity: ident}
}

// Authenticate transitions Anonymous → Authenticated.
func (s *Session) Authenticate(ident Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &ident
}

// SignOut transitions back to Anonymous.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

// Authenticated reports whether an identity is present.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// Identity returns the current identity, or nil while Anonymous.
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	ident := *s.identity
	return &ident
}
