package provider

import (
	"context"
	"sync"
	"time"

	locdomain "altanto/app/internal/location/domain"
)

// HeadlessRenderer records map operations instead of drawing. It backs the
// demo binary and the tests; a real tile renderer satisfies the same interface.
type HeadlessRenderer struct {
	mu   sync.Mutex
	maps []*HeadlessMap
}

// HeadlessMap is one recorded render.
type HeadlessMap struct {
	mu      sync.Mutex
	Center  locdomain.Coordinate
	Zoom    int
	Markers []string
	Removed bool
	zoomIn  int
	zoomOut int
}

// Render records a new map for the container.
func (r *HeadlessRenderer) Render(container string, center locdomain.Coordinate, zoom int) (RenderedMap, error) {
	m := &HeadlessMap{Center: center, Zoom: zoom}
	r.mu.Lock()
	r.maps = append(r.maps, m)
	r.mu.Unlock()
	return m, nil
}

// Maps returns every map rendered so far, including removed ones.
func (r *HeadlessRenderer) Maps() []*HeadlessMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*HeadlessMap{}, r.maps...)
}

func (m *HeadlessMap) SetView(center locdomain.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Center = center
	m.Zoom = zoom
}

func (m *HeadlessMap) ZoomIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoomIn++
	m.Zoom++
}

func (m *HeadlessMap) ZoomOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoomOut++
	m.Zoom--
}

func (m *HeadlessMap) AddMarker(at locdomain.Coordinate, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Markers = append(m.Markers, label)
}

func (m *HeadlessMap) Remove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = true
}

// FixedGeolocator resolves every position request with a fixed coordinate
// after an optional delay, or with Err when set.
type FixedGeolocator struct {
	Coord locdomain.Coordinate
	Delay time.Duration
	Err   error
}

// CurrentPosition returns the fixed coordinate, honoring ctx cancellation
// and the request timeout.
func (g *FixedGeolocator) CurrentPosition(ctx context.Context, opts GeoOptions) (locdomain.Coordinate, error) {
	if g.Delay > 0 {
		timeout := opts.Timeout
		if timeout > 0 && g.Delay > timeout {
			// The fix would arrive after the caller's deadline.
			select {
			case <-ctx.Done():
				return locdomain.Coordinate{}, ctx.Err()
			case <-time.After(timeout):
				return locdomain.Coordinate{}, ErrTimeout
			}
		}
		select {
		case <-ctx.Done():
			return locdomain.Coordinate{}, ctx.Err()
		case <-time.After(g.Delay):
		}
	}
	if g.Err != nil {
		return locdomain.Coordinate{}, g.Err
	}
	return g.Coord, nil
}

// StubResolver answers every address lookup with a fixed street address
// after an artificial delay, matching the original's simulated lookup.
type StubResolver struct {
	Addr  string
	Delay time.Duration
}

// Address returns the fixed address, honoring ctx cancellation.
func (r *StubResolver) Address(ctx context.Context, at locdomain.Coordinate) (string, error) {
	if r.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.Delay):
		}
	}
	addr := r.Addr
	if addr == "" {
		addr = "Avenida Corrientes 1234, CABA"
	}
	return addr, nil
}
