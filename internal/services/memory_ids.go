package services

import "sync"

// MemoryIDStore keeps the session id for the lifetime of the process.
//
// It backs the session store when the durable state database is unavailable:
// every command still works, the id just does not survive the run and a fresh
// session is created next time.
type MemoryIDStore struct {
	mu sync.Mutex
	id string
}

// NewMemoryIDStore creates an empty process-lifetime id store.
func NewMemoryIDStore() *MemoryIDStore {
	return &MemoryIDStore{}
}

// Get returns the held id, or "" when none has been set.
func (m *MemoryIDStore) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

// Set replaces the held id.
func (m *MemoryIDStore) Set(id string) error {
	m.mu.Lock()
	m.id = id
	m.mu.Unlock()
	return nil
}

// Clear drops the held id.
func (m *MemoryIDStore) Clear() error {
	m.mu.Lock()
	m.id = ""
	m.mu.Unlock()
	return nil
}
