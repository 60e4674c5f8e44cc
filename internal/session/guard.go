package session

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// GuardState is the guard's resolution state. No protected content may be
// shown until the guard is resolved authenticated.
type GuardState int

const (
	StateChecking GuardState = iota
	StateResolved
)

// LoginRedirect builds the login route carrying the current path as a
// returnUrl query value, so the user lands back where they were after
// signing in again.
func LoginRedirect(currentPath string) string {
	return "/login?returnUrl=" + url.QueryEscape(currentPath)
}

// Guard decides whether the held credential is still usable. On any
// failure it clears the session and hands the login redirect to the
// injected handler; the caller wires that to actual navigation (the TUI
// quits to the login hint, a browser would push the route).
type Guard struct {
	manager *Manager

	// CurrentPath yields the path embedded in the login redirect.
	currentPath    func() string
	onUnauthorized func(redirect string)
	now            func() time.Time

	mu            sync.Mutex
	state         GuardState
	authenticated bool
}

func NewGuard(manager *Manager, currentPath func() string, onUnauthorized func(redirect string)) *Guard {
	if currentPath == nil {
		currentPath = func() string { return "/journal" }
	}
	if onUnauthorized == nil {
		onUnauthorized = func(string) {}
	}
	return &Guard{
		manager:        manager,
		currentPath:    currentPath,
		onUnauthorized: onUnauthorized,
		now:            time.Now,
	}
}

// State returns the guard's current resolution. The bool is meaningful
// only once the state is StateResolved.
func (g *Guard) State() (GuardState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.authenticated
}

// Check evaluates the credential right now. An absent or expired
// credential clears the session, fires the unauthorized handler with the
// login redirect, and resolves unauthenticated. Otherwise resolves
// authenticated.
func (g *Guard) Check(ctx context.Context) bool {
	cred := g.manager.Get()
	if cred == nil || cred.Expired(g.now()) {
		g.Invalidate(ctx)
		return false
	}

	g.mu.Lock()
	g.state = StateResolved
	g.authenticated = true
	g.mu.Unlock()
	return true
}

// Invalidate handles a credential rejection (missing, expired, or refused
// by the server): clear the session, resolve unauthenticated, and hand the
// login redirect to the unauthorized handler. The authenticated client
// delegates 401 responses here.
func (g *Guard) Invalidate(ctx context.Context) {
	_ = g.manager.Clear(ctx)

	g.mu.Lock()
	g.state = StateResolved
	g.authenticated = false
	g.mu.Unlock()

	g.onUnauthorized(LoginRedirect(g.currentPath()))
}

// Watch re-runs Check every interval until the returned stop func is
// called. Stop must be called when the protected view unmounts so no
// periodic check outlives it.
func (g *Guard) Watch(ctx context.Context, interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !g.Check(ctx) {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
