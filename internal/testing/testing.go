// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MemoryIDStore is an in-memory services.IDStore for tests.
type MemoryIDStore struct {
	mu  sync.Mutex
	id  string
	Err error // when set, Get and Set fail with it
}

func (m *MemoryIDStore) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.Err
}

func (m *MemoryIDStore) Set(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.id = id
	return nil
}

// PatchCall records one PATCH /session/{id}/{section} request seen by the fake backend.
type PatchCall struct {
	SessionID string
	Section   string
	Values    map[string]any
}

// FakeBackend is an httptest server speaking the pipeline backend's session
// and schema wire contract. Unknown session ids get a fresh session whose id
// is signaled back in the response body, mirroring the backend's restart
// recovery. Setting ReplaceWith forces every session response to signal that
// id once.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	nextID      int
	sessions    map[string]map[string]map[string]any
	schemas     map[string]string
	replaceWith string

	createCalls int
	loadCalls   int
	patchCalls  []PatchCall
}

// NewFakeBackend starts a fake backend. Callers own Close.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{
		sessions: make(map[string]map[string]map[string]any),
		schemas:  make(map[string]string),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	return b
}

func (b *FakeBackend) Close() { b.Server.Close() }

// URL returns the backend's base URL.
func (b *FakeBackend) URL() string { return b.Server.URL }

// SetSchema registers a schema document for a section endpoint.
func (b *FakeBackend) SetSchema(endpoint, doc string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schemas[endpoint] = doc
}

// SeedSession creates a session with the given saved values and returns its id.
func (b *FakeBackend) SeedSession(sections map[string]map[string]any) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.newSessionLocked()
	for section, values := range sections {
		b.sessions[id][section] = values
	}
	return id
}

// ReplaceNext makes the next session response signal the given replacement id.
func (b *FakeBackend) ReplaceNext(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replaceWith = id
	if _, ok := b.sessions[id]; !ok {
		b.sessions[id] = make(map[string]map[string]any)
	}
}

// CreateCalls returns the number of POST /session requests observed.
func (b *FakeBackend) CreateCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls
}

// LoadCalls returns the number of GET /session/{id} requests observed.
func (b *FakeBackend) LoadCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadCalls
}

// PatchCalls returns a copy of all observed patch requests.
func (b *FakeBackend) PatchCalls() []PatchCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]PatchCall(nil), b.patchCalls...)
}

// SessionValues returns the stored values for one session section.
func (b *FakeBackend) SessionValues(id, section string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sessions[id]; ok {
		return s[section]
	}
	return nil
}

func (b *FakeBackend) newSessionLocked() string {
	b.nextID++
	id := fmt.Sprintf("s-%04d", b.nextID)
	b.sessions[id] = make(map[string]map[string]any)
	return id
}

func (b *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/session":
		b.mu.Lock()
		b.createCalls++
		id := b.newSessionLocked()
		b.mu.Unlock()
		writeJSON(w, map[string]any{"session_id": id})

	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "session":
		b.mu.Lock()
		b.loadCalls++
		id := parts[1]
		body := make(map[string]any)
		session, known := b.sessions[id]
		if !known || b.replaceWith != "" {
			fresh := b.replaceWith
			if fresh == "" {
				fresh = b.newSessionLocked()
			}
			b.replaceWith = ""
			body["session_id"] = fresh
			session = b.sessions[fresh]
		}
		for section, values := range session {
			body[section] = values
		}
		b.mu.Unlock()
		writeJSON(w, body)

	case r.Method == http.MethodPatch && len(parts) == 3 && parts[0] == "session":
		id, section := parts[1], parts[2]

		var values map[string]any
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		b.mu.Lock()
		b.patchCalls = append(b.patchCalls, PatchCall{SessionID: id, Section: section, Values: values})

		body := map[string]any{"ok": true}
		target := id
		if _, known := b.sessions[id]; !known || b.replaceWith != "" {
			fresh := b.replaceWith
			if fresh == "" {
				fresh = b.newSessionLocked()
			}
			b.replaceWith = ""
			body["session_id"] = fresh
			target = fresh
		}
		if b.sessions[target][section] == nil {
			b.sessions[target][section] = make(map[string]any)
		}
		for k, v := range values {
			b.sessions[target][section][k] = v
		}
		b.mu.Unlock()
		writeJSON(w, body)

	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "schemas":
		b.mu.Lock()
		doc, ok := b.schemas[parts[1]]
		b.mu.Unlock()
		if !ok {
			http.Error(w, "unknown schema", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
