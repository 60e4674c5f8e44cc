package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Keys persisted in the token store. The token and the unverified-email
// hint are the only durable session state the client keeps.
const (
	KeyToken           = "token"
	KeyUserEmail       = "user_email"
	KeyUnverifiedEmail = "unverified_email"
)

// TokenStore is a durable key/value holder for session state, backed by a
// sqlite file under the client's state dir. It survives process restarts
// but has no cross-device semantics.
type TokenStore struct {
	db *sql.DB
}

// OpenTokenStore opens (creating if needed) the session store at
// dir/session.db.
func OpenTokenStore(ctx context.Context, dir string) (*TokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, "session.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &TokenStore{db: db}, nil
}

// Get returns the value for key, or "" when the key is absent.
func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// Set overwrites the value for key. The previous value is discarded.
func (s *TokenStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Delete removes a single key. Deleting an absent key is a no-op.
func (s *TokenStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// Clear removes every session key, cached hints included. Clearing an
// already-empty store is a no-op.
func (s *TokenStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}
