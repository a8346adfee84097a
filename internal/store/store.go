// Package store provides the sqlite-backed persistence for workspace
// configuration documents and chat sessions.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/humblebridge/humblebridge/internal/workspace"
)

const schema = `
CREATE TABLE IF NOT EXISTS workspace_configs (
	space_id   TEXT PRIMARY KEY,
	config     TEXT NOT NULL DEFAULT '{}',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chat_sessions (
	base_id    TEXT PRIMARY KEY,
	chat_id    TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps the sqlite database holding all shared mutable state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}
	// Best-effort migration: early builds stored sessions without timestamps.
	_, _ = db.Exec(`ALTER TABLE chat_sessions ADD COLUMN updated_at DATETIME`)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw handle for status reporting.
func (s *Store) DB() *sql.DB { return s.db }

// GetWorkspaceConfig returns the configuration document for a space. A space
// with no stored document gets an empty config, never an error. A document
// still carrying the legacy scalar baseId layout is migrated and written
// back before being returned.
func (s *Store) GetWorkspaceConfig(spaceID string) (*workspace.Config, error) {
	var raw string
	err := s.db.QueryRow(`SELECT config FROM workspace_configs WHERE space_id = ?`, spaceID).Scan(&raw)
	if err == sql.ErrNoRows {
		return &workspace.Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workspace config: %w", err)
	}
	cfg := &workspace.Config{}
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("decode workspace config for %s: %w", spaceID, err)
	}
	if cfg.MigrateLegacy() {
		if err := s.writeConfig(spaceID, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// SetWorkspaceConfig applies a field-level merge patch to a space's
// document. Fields absent from the patch are preserved. The read-modify-
// write runs inside one transaction so concurrent writers to different
// fields do not clobber each other.
func (s *Store) SetWorkspaceConfig(spaceID string, patch workspace.Partial) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin config write: %w", err)
	}
	defer tx.Rollback()

	cfg := &workspace.Config{}
	var raw string
	err = tx.QueryRow(`SELECT config FROM workspace_configs WHERE space_id = ?`, spaceID).Scan(&raw)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read workspace config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), cfg); err != nil {
			return fmt.Errorf("decode workspace config for %s: %w", spaceID, err)
		}
	}

	if patch.APIKey != nil {
		cfg.APIKey = *patch.APIKey
	}
	if patch.Bases != nil {
		cfg.Bases = *patch.Bases
	}
	if patch.ActiveBaseID != nil {
		cfg.ActiveBaseID = *patch.ActiveBaseID
	}
	if patch.ActiveContext != nil {
		cfg.ActiveContext = *patch.ActiveContext
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode workspace config: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO workspace_configs (space_id, config, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(space_id) DO UPDATE SET config = excluded.config, updated_at = CURRENT_TIMESTAMP`,
		spaceID, string(data))
	if err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}
	return tx.Commit()
}

// SaveWorkspaceConfig replaces a space's whole document. Used by mutations
// that already performed a read-modify-write on the full config.
func (s *Store) SaveWorkspaceConfig(spaceID string, cfg *workspace.Config) error {
	return s.writeConfig(spaceID, cfg)
}

// ResetWorkspaceConfig deletes a space's document entirely.
func (s *Store) ResetWorkspaceConfig(spaceID string) error {
	if _, err := s.db.Exec(`DELETE FROM workspace_configs WHERE space_id = ?`, spaceID); err != nil {
		return fmt.Errorf("reset workspace config: %w", err)
	}
	return nil
}

func (s *Store) writeConfig(spaceID string, cfg *workspace.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode workspace config: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO workspace_configs (space_id, config, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(space_id) DO UPDATE SET config = excluded.config, updated_at = CURRENT_TIMESTAMP`,
		spaceID, string(data))
	if err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}
	return nil
}

// GetSession returns the stored chat id for a base, if any row exists.
// Tombstone handling (empty chat id) is the session registry's concern.
func (s *Store) GetSession(baseID string) (string, time.Time, bool, error) {
	var chatID string
	var updatedAt sql.NullTime
	err := s.db.QueryRow(`SELECT chat_id, updated_at FROM chat_sessions WHERE base_id = ?`, baseID).
		Scan(&chatID, &updatedAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("read chat session: %w", err)
	}
	return chatID, updatedAt.Time, true, nil
}

// PutSession stores the chat id for a base, stamping the current time.
func (s *Store) PutSession(baseID, chatID string) error {
	_, err := s.db.Exec(`INSERT INTO chat_sessions (base_id, chat_id, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(base_id) DO UPDATE SET chat_id = excluded.chat_id, updated_at = CURRENT_TIMESTAMP`,
		baseID, chatID)
	if err != nil {
		return fmt.Errorf("write chat session: %w", err)
	}
	return nil
}
