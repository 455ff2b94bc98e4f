package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	sysync "sync"

	"github.com/rohanthewiz/serr"
)

// Error taxonomy surfaced by the API client. Background reconciliation
// swallows all of these; user-initiated actions (sign-in, share creation)
// distinguish them with distinct messages.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// Client is the HTTP transport against the still server. It holds the bearer
// token obtained at sign-in; everything else is stateless per request.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sysync.Mutex
	token string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
}

// BaseURL returns the server origin, used to compose share URLs.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken installs a session token (e.g. one restored from the cache).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// apiEnvelope is the server's uniform response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// notePayload is the upsert request body: the client's optimistic state for
// one note.
type notePayload struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

type authData struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

type notesData struct {
	Notes []Note `json:"notes"`
}

type shareTokenData struct {
	ShareToken string `json:"share_token"`
}

// do executes one API request and decodes the enveloped response into out.
// HTTP statuses map onto the error taxonomy; anything unexpected, including
// network and parse failures, wraps as a transient error.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return serr.Wrap(err, "failed to marshal request")
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return serr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serr.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serr.New(fmt.Sprintf("server returned status %d", resp.StatusCode))
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return serr.Wrap(err, "failed to decode response")
	}
	if !envelope.Success {
		return serr.New("server reported failure: " + envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return serr.Wrap(err, "failed to decode response data")
		}
	}
	return nil
}

// Authenticate exchanges credentials for an identity and session token.
// The token is retained for subsequent requests and also returned via the
// identity so callers can persist it.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return nil, err
	}

	c.SetToken(data.Token)
	ident := data.User
	ident.Token = data.Token
	return &ident, nil
}

// ListNotes fetches the identity's full note list.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var data notesData
	if err := c.do(ctx, http.MethodGet, "/api/v1/notes", nil, &data); err != nil {
		return nil, err
	}
	return data.Notes, nil
}

// UpsertNote pushes one note's state and returns the full resulting list.
func (c *Client) UpsertNote(ctx context.Context, note Note) ([]Note, error) {
	var data notesData
	err := c.do(ctx, http.MethodPost, "/api/v1/notes", notePayload{
		ID:      note.ID,
		Title:   note.Title,
		Content: note.Content,
		Pinned:  note.Pinned,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Notes, nil
}

// DeleteNote removes a note server-side and returns the remaining list.
func (c *Client) DeleteNote(ctx context.Context, id string) ([]Note, error) {
	var data notesData
	if err := c.do(ctx, http.MethodDelete, "/api/v1/notes/"+id, nil, &data); err != nil {
		return nil, err
	}
	return data.Notes, nil
}

// IssueShareToken binds a share token to a note. Pass an empty token to let
// the server reuse or mint one.
func (c *Client) IssueShareToken(ctx context.Context, noteID, token string) (string, error) {
	var data shareTokenData
	err := c.do(ctx, http.MethodPost, "/api/v1/notes/share", map[string]string{
		"note_id":     noteID,
		"share_token": token,
	}, &data)
	if err != nil {
		return "", err
	}
	return data.ShareToken, nil
}

// GetNoteByShareToken fetches a note anonymously by its share token.
func (c *Client) GetNoteByShareToken(ctx context.Context, token string) (Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, "/api/v1/share/"+token, nil, &note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// UpdateNoteByShareToken pushes an anonymous edit addressed by share token
// and returns the note as stored.
func (c *Client) UpdateNoteByShareToken(ctx context.Context, token, title, content string) (Note, error) {
	var note Note
	err := c.do(ctx, http.MethodPost, "/api/v1/share/"+token, map[string]string{
		"title":   title,
		"content": content,
	}, &note)
	if err != nil {
		return Note{}, err
	}
	return note, nil
}
