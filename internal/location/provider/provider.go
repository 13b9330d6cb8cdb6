// Package provider owns the lifecycle of map-rendering handles and the
// device geolocation subscription behind them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	locdomain "altanto/app/internal/location/domain"
)

var (
	// ErrAcquisition is returned when the container is not ready for a map.
	ErrAcquisition = errors.New("map container not ready")
	// ErrAlreadyAcquired is returned on a second Acquire against a container
	// that has not been released. Fail fast; never silently replace the handle.
	ErrAlreadyAcquired = errors.New("container already has a live map handle")
	// ErrHandleReleased is returned when an operation reaches a handle whose
	// screen already unmounted. Callers treat it as a no-op signal.
	ErrHandleReleased = errors.New("map handle already released")

	// Geolocation error codes surfaced by the collaborator.
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrTimeout             = errors.New("geolocation timed out")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
)

// GeoOptions parameterize a device position request.
type GeoOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Geolocator is the device geolocation collaborator. CurrentPosition blocks
// until a fix, the configured timeout, or ctx cancellation, and fails with
// one of the coded errors above.
type Geolocator interface {
	CurrentPosition(ctx context.Context, opts GeoOptions) (locdomain.Coordinate, error)
}

// RenderedMap is one live map render. The kernel treats it as opaque.
type RenderedMap interface {
	SetView(center locdomain.Coordinate, zoom int)
	ZoomIn()
	ZoomOut()
	AddMarker(at locdomain.Coordinate, label string)
	Remove()
}

// Renderer creates map renders bound to a container.
type Renderer interface {
	Render(container string, center locdomain.Coordinate, zoom int) (RenderedMap, error)
}

// Resolver turns a coordinate into a display address.
type Resolver interface {
	Address(ctx context.Context, at locdomain.Coordinate) (string, error)
}

// Provider hands out at most one MapHandle per container.
type Provider struct {
	renderer Renderer
	geo      Geolocator
	opts     GeoOptions

	mu    sync.Mutex
	bound map[string]*MapHandle
}

// New returns a Provider over the given collaborators.
func New(renderer Renderer, geo Geolocator, opts GeoOptions) *Provider {
	return &Provider{
		renderer: renderer,
		geo:      geo,
		opts:     opts,
		bound:    make(map[string]*MapHandle),
	}
}

// MapHandle is an opaque resource bound 1:1 to a mounted map-displaying
// screen. The owning screen is the sole mutator and must Release it on unmount.
type MapHandle struct {
	id        string
	container string
	zoom      int
	provider  *Provider

	mu       sync.Mutex
	rendered RenderedMap
	released bool
}

// Acquire renders a map in container centered at center with the given zoom
// and returns its handle. Fails with ErrAcquisition if the container is not
// ready and ErrAlreadyAcquired if the container already holds a live handle.
func (p *Provider) Acquire(container string, center locdomain.Coordinate, zoom int) (*MapHandle, error) {
	if container == "" {
		return nil, ErrAcquisition
	}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	p.mu.Lock()
	if _, ok := p.bound[container]; ok {
		p.mu.Unlock()
		return nil, ErrAlreadyAcquired
	}
	// Reserve the container before rendering so a concurrent Acquire fails fast.
	h := &MapHandle{
		id:        uuid.New().String(),
		container: container,
		zoom:      zoom,
		provider:  p,
	}
	p.bound[container] = h
	p.mu.Unlock()

	rendered, err := p.renderer.Render(container, center, zoom)
	if err != nil {
		p.mu.Lock()
		delete(p.bound, container)
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	h.mu.Lock()
	h.rendered = rendered
	h.mu.Unlock()
	return h, nil
}

// Release tears down the handle's render and frees its container.
// Releasing twice is a no-op.
func (p *Provider) Release(h *MapHandle) {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	rendered := h.rendered
	h.rendered = nil
	h.mu.Unlock()

	if rendered != nil {
		rendered.Remove()
	}
	p.mu.Lock()
	if p.bound[h.container] == h {
		delete(p.bound, h.container)
	}
	p.mu.Unlock()
}

// Live reports whether container currently holds an unreleased handle.
func (p *Provider) Live(container string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.bound[container]
	return ok
}

// LocateDevice requests the device position and, on success, recenters the
// handle's view and drops a transient marker. On failure the existing view is
// left untouched and the coded error is returned for the caller to surface.
// A fix that arrives after the handle was released (screen unmounted) or the
// ctx was cancelled mutates nothing.
func (p *Provider) LocateDevice(ctx context.Context, h *MapHandle) (locdomain.Coordinate, error) {
	if h == nil {
		return locdomain.Coordinate{}, ErrHandleReleased
	}
	coord, err := p.geo.CurrentPosition(ctx, p.opts)
	if err != nil {
		return locdomain.Coordinate{}, err
	}
	if ctx.Err() != nil {
		return locdomain.Coordinate{}, ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released || h.rendered == nil {
		return locdomain.Coordinate{}, ErrHandleReleased
	}
	h.rendered.SetView(coord, h.zoom)
	h.rendered.AddMarker(coord, "¡Tu ubicación actual!")
	return coord, nil
}

// SetView recenters the handle's view. No-op after release.
func (h *MapHandle) SetView(center locdomain.Coordinate, zoom int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released || h.rendered == nil {
		return
	}
	h.rendered.SetView(center, zoom)
}

// ZoomIn zooms the view in one step. No-op after release.
func (h *MapHandle) ZoomIn() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released || h.rendered == nil {
		return
	}
	h.rendered.ZoomIn()
}

// ZoomOut zooms the view out one step. No-op after release.
func (h *MapHandle) ZoomOut() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released || h.rendered == nil {
		return
	}
	h.rendered.ZoomOut()
}

// ID returns the handle's unique id.
func (h *MapHandle) ID() string { return h.id }

// Container returns the container the handle is bound to.
func (h *MapHandle) Container() string { return h.container }

// Released reports whether the handle has been released.
func (h *MapHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
