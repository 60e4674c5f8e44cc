package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	ctx := context.Background()
	store, err := OpenTokenStore(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m, err := NewManager(ctx, store)
	require.NoError(t, err)
	return m
}

func setCredential(t *testing.T, m *Manager, exp time.Time) {
	t.Helper()
	cred, err := ParseCredential(mintToken(t, "pat@example.com", exp))
	require.NoError(t, err)
	require.NoError(t, m.Set(context.Background(), cred))
}

func TestLoginRedirectEscapesPath(t *testing.T) {
	require.Equal(t, "/login?returnUrl=%2Fjournal", LoginRedirect("/journal"))
	require.Equal(t, "/login?returnUrl=%2Fjournal%3Ftab%3Dall", LoginRedirect("/journal?tab=all"))
}

func TestGuardCheckWithValidCredential(t *testing.T) {
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(time.Hour))

	var redirects []string
	g := NewGuard(m, nil, func(r string) { redirects = append(redirects, r) })

	require.True(t, g.Check(context.Background()))
	state, authed := g.State()
	require.Equal(t, StateResolved, state)
	require.True(t, authed)
	require.Empty(t, redirects)
}

func TestGuardCheckWithoutCredentialRedirects(t *testing.T) {
	m := newTestManager(t)

	var redirects []string
	g := NewGuard(m, func() string { return "/journal" }, func(r string) { redirects = append(redirects, r) })

	require.False(t, g.Check(context.Background()))
	require.Equal(t, []string{"/login?returnUrl=%2Fjournal"}, redirects)

	state, authed := g.State()
	require.Equal(t, StateResolved, state)
	require.False(t, authed)
}

// A token that is technically still valid but inside the grace buffer must
// be treated as expired and torn down.
func TestGuardTreatsNearExpiryAsExpired(t *testing.T) {
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(3*time.Second))

	var redirects []string
	g := NewGuard(m, nil, func(r string) { redirects = append(redirects, r) })

	require.False(t, g.Check(context.Background()))
	require.Len(t, redirects, 1)
	require.Nil(t, m.Get(), "session must be cleared on teardown")

	token, err := m.Store().Get(context.Background(), KeyToken)
	require.NoError(t, err)
	require.Equal(t, "", token, "persisted token must be wiped")
}

func TestGuardInvalidateNotifiesSubscribers(t *testing.T) {
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(time.Hour))

	var cleared bool
	m.Subscribe(func(c *Credential) {
		if c == nil {
			cleared = true
		}
	})

	g := NewGuard(m, nil, nil)
	g.Invalidate(context.Background())
	require.True(t, cleared)
}

func TestGuardWatchStopsCleanly(t *testing.T) {
	m := newTestManager(t)
	setCredential(t, m, time.Now().Add(time.Hour))

	g := NewGuard(m, nil, nil)
	stop := g.Watch(context.Background(), 10*time.Millisecond)
	time.Sleep(35 * time.Millisecond)
	stop()
	stop() // double stop must not panic

	_, authed := g.State()
	require.True(t, authed)
}
