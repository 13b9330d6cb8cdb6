package nav

import (
	"sync"

	"altanto/app/internal/routeguard"
)

// Router mounts one screen at a time, consulting the guard before entry.
type Router struct {
	guard *routeguard.Guard

	mu      sync.Mutex
	current *Screen
}

// NewRouter returns a Router over the given guard with no screen mounted.
func NewRouter(guard *routeguard.Guard) *Router {
	return &Router{guard: guard}
}

// Navigate resolves path through the guard, following redirects, and mounts
// the resulting destination. The previously mounted screen is unmounted
// first, cancelling its pending work. When the session is still resolving no
// screen is mounted and the pending decision is returned.
func (r *Router) Navigate(path string) (*Screen, routeguard.Decision) {
	d := r.guard.Decide(path)
	for d.RedirectTo != "" {
		path = d.RedirectTo
		d = r.guard.Decide(path)
	}
	if !d.Allow {
		return nil, d
	}

	r.mu.Lock()
	prev := r.current
	s := newScreen(path)
	r.current = s
	r.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}
	return s, d
}

// Current returns the mounted screen, or nil.
func (r *Router) Current() *Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Revalidate re-decides the current screen's path against the guard and, if
// it is no longer allowed, navigates away (to the redirect target). Wire it
// to session change notifications so a logout on a protected screen takes
// effect synchronously.
func (r *Router) Revalidate() {
	r.mu.Lock()
	cur := r.current
	r.mu.Unlock()
	if cur == nil {
		return
	}
	if d := r.guard.Decide(cur.Path()); !d.Allow {
		if d.RedirectTo != "" {
			r.Navigate(d.RedirectTo)
			return
		}
		// Pending: tear down without mounting a replacement.
		r.mu.Lock()
		if r.current == cur {
			r.current = nil
		}
		r.mu.Unlock()
		cur.Unmount()
	}
}
