package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/haldane/eegx/internal/shared"
)

// sessionIDKey is the fixed storage key the session id lives under.
const sessionIDKey = "session_id"

// SessionIDRepository stores the cached session id in the client_state table.
//
// Set is an idempotent upsert: adopting the same replacement id from two
// interleaved responses is harmless, and last write wins.
type SessionIDRepository struct {
	db *sql.DB
}

// NewSessionIDRepository creates a repository backed by the given database.
func NewSessionIDRepository(db *sql.DB) *SessionIDRepository {
	return &SessionIDRepository{db: db}
}

// Get returns the persisted session id, or "" when none has been stored yet.
func (r *SessionIDRepository) Get() (string, error) {
	var id string
	err := r.db.QueryRow("SELECT value FROM client_state WHERE key = ?", sessionIDKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read session id: %v", shared.ErrStateStore, err)
	}
	return id, nil
}

// Set persists the session id under the fixed storage key.
func (r *SessionIDRepository) Set(id string) error {
	_, err := r.db.Exec(`
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, sessionIDKey, id)
	if err != nil {
		return fmt.Errorf("%w: write session id: %v", shared.ErrStateStore, err)
	}
	return nil
}

// Clear removes the persisted session id, forcing the next write to create a fresh session.
func (r *SessionIDRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM client_state WHERE key = ?", sessionIDKey)
	if err != nil {
		return fmt.Errorf("%w: clear session id: %v", shared.ErrStateStore, err)
	}
	return nil
}
