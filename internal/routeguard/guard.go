// Package routeguard gates navigation into protected destinations based on
// session state.
package routeguard

import (
	"sync"

	sessiondomain "altanto/app/internal/session/domain"
)

// State is the guard's view of the session.
type State int

const (
	// Resolving means the session has not finished initializing; no screen
	// content may be shown, only a neutral loading indicator.
	Resolving State = iota
	// Allowed permits entry to protected destinations.
	Allowed
	// Denied redirects to the login entry point.
	Denied
)

// String returns the state name for logs and tests.
func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// SessionSource is the minimal session view the guard needs.
type SessionSource interface {
	Current() sessiondomain.Session
	Resolved() bool
	Subscribe(fn func(sessiondomain.Session)) func()
}

// Guard re-evaluates on every session change, not just on construction: a
// logout while a protected screen is mounted flips it to Denied before the
// logout call returns.
type Guard struct {
	sessions    SessionSource
	unsubscribe func()

	mu    sync.Mutex
	state State
}

// New returns a Guard subscribed to the given session source. Call Close to
// drop the subscription.
func New(sessions SessionSource) *Guard {
	g := &Guard{sessions: sessions}
	g.evaluate(sessions.Current())
	g.unsubscribe = sessions.Subscribe(g.evaluate)
	return g
}

// Close removes the session subscription. Idempotent; safe to call while a
// notification is being delivered.
func (g *Guard) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// State returns the guard's current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Guard) evaluate(s sessiondomain.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case !g.sessions.Resolved():
		g.state = Resolving
	case s.Authenticated:
		g.state = Allowed
	default:
		g.state = Denied
	}
}
