package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"altanto/app/internal/security"
	sessiondomain "altanto/app/internal/session/domain"
)

type memTokenStore struct {
	mu   sync.Mutex
	m    map[string]string
	fail bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{m: make(map[string]string)}
}

func (s *memTokenStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store unavailable")
	}
	return s.m[key], nil
}

func (s *memTokenStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store unavailable")
	}
	s.m[key] = value
	return nil
}

func (s *memTokenStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("store unavailable")
	}
	delete(s.m, key)
	return nil
}

func newTestManager(store TokenStore) *Manager {
	tokens := security.NewTokenProvider([]byte("test-secret"), "altanto-auth", time.Hour)
	return NewManager(store, tokens)
}

func TestInitialize_NoPriorSession(t *testing.T) {
	m := newTestManager(newMemTokenStore())
	s := m.Initialize(context.Background())
	if s.Authenticated {
		t.Error("Authenticated = true with empty store, want false")
	}
	if !m.Resolved() {
		t.Error("Resolved() = false after Initialize")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInitialize_PriorToken(t *testing.T) {
	store := newMemTokenStore()
	store.m[TokenKey] = "prior-token"
	m := newTestManager(store)

	s := m.Initialize(context.Background())
	if !s.Authenticated {
		t.Error("Authenticated = false with stored token, want true")
	}
	if s.Token != "prior-token" {
		t.Errorf("Token = %q, want %q", s.Token, "prior-token")
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	store := newMemTokenStore()
	m := newTestManager(store)
	ctx := context.Background()

	m.Initialize(ctx)
	m.Login(ctx)
	// A second Initialize must not re-read the store and clobber the login.
	s := m.Initialize(ctx)
	if !s.Authenticated {
		t.Error("second Initialize clobbered the logged-in session")
	}
}

func TestInitialize_UnreadableStore(t *testing.T) {
	store := newMemTokenStore()
	store.fail = true
	m := newTestManager(store)

	s := m.Initialize(context.Background())
	if s.Authenticated {
		t.Error("unreadable store must be treated as no prior session")
	}
	if !m.Resolved() {
		t.Error("Resolved() = false after Initialize against failing store")
	}
}

func TestLoginLogout_InvariantHolds(t *testing.T) {
	store := newMemTokenStore()
	m := newTestManager(store)
	ctx := context.Background()
	m.Initialize(ctx)

	// Property: authenticated == token present after every call, for any sequence.
	ops := []func() sessiondomain.Session{
		func() sessiondomain.Session { return m.Login(ctx) },
		func() sessiondomain.Session { return m.Logout(ctx) },
		func() sessiondomain.Session { return m.Logout(ctx) },
		func() sessiondomain.Session { return m.Login(ctx) },
		func() sessiondomain.Session { return m.Login(ctx) },
		func() sessiondomain.Session { return m.Logout(ctx) },
	}
	for i, op := range ops {
		if err := op().Validate(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
	}
}

func TestLogin_PersistsToken(t *testing.T) {
	store := newMemTokenStore()
	m := newTestManager(store)
	ctx := context.Background()

	s := m.Login(ctx)
	if store.m[TokenKey] != s.Token {
		t.Errorf("stored token = %q, want %q", store.m[TokenKey], s.Token)
	}

	m.Logout(ctx)
	if _, ok := store.m[TokenKey]; ok {
		t.Error("token still stored after Logout")
	}
}

func TestSubscribe_NotifiedSynchronously(t *testing.T) {
	m := newTestManager(newMemTokenStore())
	ctx := context.Background()

	var seen []bool
	cancel := m.Subscribe(func(s sessiondomain.Session) {
		seen = append(seen, s.Authenticated)
	})
	defer cancel()

	m.Initialize(ctx)
	m.Login(ctx)
	m.Logout(ctx)

	want := []bool{false, true, false}
	if len(seen) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestSubscribe_NotifiedInSubscriptionOrder(t *testing.T) {
	m := newTestManager(newMemTokenStore())
	ctx := context.Background()

	var order []int
	for i := 0; i < 8; i++ {
		i := i
		cancel := m.Subscribe(func(sessiondomain.Session) { order = append(order, i) })
		defer cancel()
	}
	m.Login(ctx)

	if len(order) != 8 {
		t.Fatalf("got %d notifications, want 8", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("notification order = %v, want subscription order", order)
		}
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := newTestManager(newMemTokenStore())
	ctx := context.Background()

	calls := 0
	cancel := m.Subscribe(func(sessiondomain.Session) { calls++ })
	m.Login(ctx)
	cancel()
	m.Logout(ctx)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
