package session

import (
	"context"
	"sync"
)

// Manager owns the in-memory view of the current credential on top of the
// durable TokenStore. It is handed explicitly to every component that needs
// session access; there is no ambient global. All writes replace the whole
// credential, so the last Set wins when two race.
type Manager struct {
	mu    sync.Mutex
	store *TokenStore
	cred  *Credential
	subs  []func(*Credential)
}

// NewManager builds a Manager and primes the in-memory credential from the
// store. A persisted token that no longer decodes is dropped silently; the
// guard treats it as absent.
func NewManager(ctx context.Context, store *TokenStore) (*Manager, error) {
	m := &Manager{store: store}

	token, err := store.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	if token != "" {
		if cred, err := ParseCredential(token); err == nil {
			m.cred = cred
		}
	}
	return m, nil
}

// Get returns the current credential, or nil when signed out.
func (m *Manager) Get() *Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred
}

// Set replaces the current credential and persists it. Subscribers are
// notified with the new value.
func (m *Manager) Set(ctx context.Context, cred *Credential) error {
	if err := m.store.Set(ctx, KeyToken, cred.Token); err != nil {
		return err
	}
	if cred.OwnerEmail != "" {
		if err := m.store.Set(ctx, KeyUserEmail, cred.OwnerEmail); err != nil {
			return err
		}
	} else if err := m.store.Delete(ctx, KeyUserEmail); err != nil {
		// A credential without an email claim must not leave a previous
		// session's cached address behind.
		return err
	}

	m.mu.Lock()
	m.cred = cred
	subs := append([]func(*Credential){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(cred)
	}
	return nil
}

// Clear drops the credential and wipes every persisted session key,
// including cached profile hints. Idempotent. Subscribers are notified
// with nil.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.cred = nil
	subs := append([]func(*Credential){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	return nil
}

// Subscribe registers a change hook invoked after every Set or Clear with
// the new credential (nil on clear).
func (m *Manager) Subscribe(fn func(*Credential)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Store exposes the underlying TokenStore for non-credential keys (the
// unverified-email hint).
func (m *Manager) Store() *TokenStore { return m.store }
