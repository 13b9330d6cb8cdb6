// Package nav models navigation between screens: mounting a destination,
// tearing it down on unmount, and consulting the route guard on the way in.
package nav

import (
	"context"
	"sync"
)

// Screen is one mounted destination. Its context is cancelled on unmount so
// pending geolocation or submission continuations bound to it become no-ops.
type Screen struct {
	path   string
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	cleanups  []func()
	unmounted bool
}

func newScreen(path string) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{path: path, ctx: ctx, cancel: cancel}
}

// Path returns the destination the screen renders.
func (s *Screen) Path() string { return s.path }

// Context is cancelled when the screen unmounts.
func (s *Screen) Context() context.Context { return s.ctx }

// OnUnmount registers a teardown to run on unmount (e.g. releasing a map
// handle). Teardowns run in reverse registration order. If the screen is
// already unmounted, fn runs immediately.
func (s *Screen) OnUnmount(fn func()) {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Unmount cancels the screen's context and runs its teardowns. Idempotent.
func (s *Screen) Unmount() {
	s.mu.Lock()
	if s.unmounted {
		s.mu.Unlock()
		return
	}
	s.unmounted = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Mounted reports whether the screen is still mounted.
func (s *Screen) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.unmounted
}
