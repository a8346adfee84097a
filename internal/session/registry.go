// Package session maps knowledge bases to their open upstream conversation.
package session

import (
	"time"

	"github.com/humblebridge/humblebridge/internal/store"
)

// Session describes one stored base → conversation mapping.
type Session struct {
	BaseID    string    `json:"baseId"`
	ChatID    string    `json:"chatId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Registry tracks the open upstream conversation per base id. Sessions are
// keyed by base, not by space: two spaces sharing a base share a
// conversation. Clearing stores an empty-string tombstone rather than
// deleting the row, so clears stay idempotent.
type Registry struct {
	store *store.Store
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(s *store.Store) *Registry {
	return &Registry{store: s}
}

// SessionID returns the open conversation id for a base. ok is false when
// no row exists or the stored id is the tombstone.
func (r *Registry) SessionID(baseID string) (chatID string, ok bool, err error) {
	chatID, _, found, err := r.store.GetSession(baseID)
	if err != nil {
		return "", false, err
	}
	if !found || chatID == "" {
		return "", false, nil
	}
	return chatID, true, nil
}

// SetSessionID records the open conversation for a base.
func (r *Registry) SetSessionID(baseID, chatID string) error {
	return r.store.PutSession(baseID, chatID)
}

// ClearSession tombstones the base's conversation so the next message
// lazily creates a fresh one.
func (r *Registry) ClearSession(baseID string) error {
	return r.store.PutSession(baseID, "")
}
