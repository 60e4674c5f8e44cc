package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestManagerSetPersistsCredential(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(time.Hour))

	email, err := m.Store().Get(ctx, KeyUserEmail)
	require.NoError(t, err)
	require.Equal(t, "pat@example.com", email)

	token, err := m.Store().Get(ctx, KeyToken)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

// A credential without an email claim must not leave the previous
// session's cached address behind.
func TestManagerSetWithoutEmailDropsCachedAddress(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(time.Hour))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	cred, err := ParseCredential(signed)
	require.NoError(t, err)
	require.Equal(t, "", cred.OwnerEmail)
	require.NoError(t, m.Set(ctx, cred))

	email, err := m.Store().Get(ctx, KeyUserEmail)
	require.NoError(t, err)
	require.Equal(t, "", email, "stale cached address must be deleted")
}

// A persisted token that no longer decodes is dropped silently on startup.
func TestManagerPrimesFromStoreDroppingGarbage(t *testing.T) {
	ctx := context.Background()
	store, err := OpenTokenStore(ctx, t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, KeyToken, "not-a-jwt"))

	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	require.Nil(t, m.Get())
}
