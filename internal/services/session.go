package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/haldane/eegx/internal/shared"
)

// IDStore is the durable client-local home of the session id.
//
// Get returns "" with a nil error when no id has been persisted yet.
// Set must be idempotent; it is the sole mutator of the persisted id.
type IDStore interface {
	Get() (string, error)
	Set(id string) error
}

// SessionDocument is the full server-held session: section endpoint name → section values.
type SessionDocument map[string]map[string]any

// Section returns the values saved for one section endpoint, or nil when the
// server has nothing for it yet. A nil result is a valid hydration input.
func (d SessionDocument) Section(endpoint string) map[string]any {
	return d[endpoint]
}

// SessionStore is the remote-facing client for the server-held session document.
//
// The server owns the session; the client holds only a cached copy of its
// opaque id. Any call may come back with a replacement id (the backend lost
// or recycled the session), which the store adopts: the just-sent write is
// treated as applied to the new session and is not resent.
type SessionStore struct {
	api    *APIClient
	ids    IDStore
	logger *log.Logger
}

// NewSessionStore creates a session store backed by the given API client and id storage.
func NewSessionStore(api *APIClient, ids IDStore, logger *log.Logger) *SessionStore {
	return &SessionStore{api: api, ids: ids, logger: logger}
}

// CachedID returns the persisted session id, or "" when none exists.
func (s *SessionStore) CachedID() string {
	id, err := s.ids.Get()
	if err != nil {
		s.logger.Warn("failed to read cached session id", "error", err)
		return ""
	}
	return id
}

// SetCachedID persists the session id. Setting the same id twice is harmless.
func (s *SessionStore) SetCachedID(id string) {
	if id == "" {
		return
	}
	if err := s.ids.Set(id); err != nil {
		s.logger.Warn("failed to persist session id", "error", err)
	}
}

// Create requests a fresh session from the backend and persists its id before returning it.
func (s *SessionStore) Create(ctx context.Context) (string, error) {
	resp, err := s.api.Post(ctx, "/session", nil)
	if err != nil {
		return "", fmt.Errorf("%w: create session: %v", shared.ErrRemoteUnavailable, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: create session returned %d", shared.ErrSessionUnreachable, resp.StatusCode)
	}

	id := replacementID(resp.JSONData)
	if id == "" {
		return "", fmt.Errorf("%w: create session response carried no session_id", shared.ErrSessionUnreachable)
	}

	s.SetCachedID(id)
	s.logger.Debug("created session", "session_id", id)
	return id, nil
}

// Load fetches the full session document, creating a session first when no id is cached.
//
// A session_id key in the response body signals a replacement id, which is
// adopted as a side effect.
func (s *SessionStore) Load(ctx context.Context) (SessionDocument, error) {
	id, err := s.ensureID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Get(ctx, "/session/"+id)
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", shared.ErrRemoteUnavailable, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: load session returned %d", shared.ErrSessionUnreachable, resp.StatusCode)
	}

	s.adopt(id, resp.JSONData)

	doc := SessionDocument{}
	if body, ok := resp.JSONData.(map[string]any); ok {
		for key, value := range body {
			if section, ok := value.(map[string]any); ok {
				doc[key] = section
			}
		}
	}

	return doc, nil
}

// Section loads the saved values for a single section endpoint.
func (s *SessionStore) Section(ctx context.Context, endpoint string) (map[string]any, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Section(endpoint), nil
}

// Patch partially updates one section of the session document server-side.
//
// Creates a session first when no id is cached (the user typed before the
// initial load resolved). No retries: the caller's sync scheduler resends the
// latest snapshot on the next edit.
func (s *SessionStore) Patch(ctx context.Context, section string, values map[string]any) error {
	id, err := s.ensureID(ctx)
	if err != nil {
		return err
	}

	resp, err := s.api.Patch(ctx, "/session/"+id+"/"+section, values)
	if err != nil {
		return fmt.Errorf("%w: patch %s: %v", shared.ErrRemoteUnavailable, section, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: patch %s returned %d", shared.ErrSessionUnreachable, section, resp.StatusCode)
	}

	s.adopt(id, resp.JSONData)
	return nil
}

// ID returns the session id in use, creating a session when none is cached.
func (s *SessionStore) ID(ctx context.Context) (string, error) {
	return s.ensureID(ctx)
}

// ensureID returns the cached session id, creating a session when none exists.
func (s *SessionStore) ensureID(ctx context.Context) (string, error) {
	if id := s.CachedID(); id != "" {
		return id, nil
	}
	return s.Create(ctx)
}

// adopt persists a replacement session id signaled in a response body.
//
// Adoption is idempotent and last-write-wins: the server is the source of
// truth for which id is currently valid.
func (s *SessionStore) adopt(used string, body any) {
	id := replacementID(body)
	if id == "" || id == used {
		return
	}

	s.logger.Info("adopting replacement session id", "old", used, "new", id)
	s.SetCachedID(id)
}

// replacementID extracts a session_id key from a decoded JSON body.
func replacementID(body any) string {
	m, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := m["session_id"].(string)
	return id
}
