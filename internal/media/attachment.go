// Package media captures a single report attachment and its previewable
// in-memory representation.
package media

import (
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrUnsupportedType is returned when the attached bytes are neither image nor video.
var ErrUnsupportedType = errors.New("attachment must be an image or video")

// PreviewHandle is a revocable reference to the in-memory preview of an
// attachment, analogous to an object URL: once revoked it yields nothing.
type PreviewHandle struct {
	id string

	mu      sync.Mutex
	dataURL string
	revoked bool
}

// ID returns the handle's unique id.
func (h *PreviewHandle) ID() string { return h.id }

// URL returns the preview data URL, or false if the handle was revoked.
func (h *PreviewHandle) URL() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return "", false
	}
	return h.dataURL, true
}

// Revoked reports whether the handle has been revoked.
func (h *PreviewHandle) Revoked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revoked
}

func (h *PreviewHandle) revoke() {
	h.mu.Lock()
	h.revoked = true
	h.dataURL = ""
	h.mu.Unlock()
}

// Asset is one captured media file. Exclusively owned by the active
// detail-entry state; replacing or clearing it releases the preview handle.
type Asset struct {
	Raw     []byte
	MIME    string
	Preview *PreviewHandle
}

// Attachment holds at most one asset for the report being drafted.
type Attachment struct {
	mu      sync.Mutex
	current *Asset
}

// Attach detects the MIME type of raw, builds the preview handle, and makes
// the asset current. Fails with ErrUnsupportedType unless raw is image or
// video. An existing asset's preview handle is always revoked before the new
// one is allocated.
func (a *Attachment) Attach(raw []byte) (*Asset, error) {
	mt := mimetype.Detect(raw)
	kind := mt.String()
	if !strings.HasPrefix(kind, "image/") && !strings.HasPrefix(kind, "video/") {
		return nil, ErrUnsupportedType
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil && a.current.Preview != nil {
		a.current.Preview.revoke()
	}
	asset := &Asset{
		Raw:  raw,
		MIME: kind,
		Preview: &PreviewHandle{
			id:      uuid.New().String(),
			dataURL: "data:" + kind + ";base64," + base64.StdEncoding.EncodeToString(raw),
		},
	}
	a.current = asset
	return asset, nil
}

// Detach revokes the asset's preview handle and, if it is the current asset,
// clears it. Detaching an already-detached asset is a no-op.
func (a *Attachment) Detach(asset *Asset) {
	if asset == nil {
		return
	}
	if asset.Preview != nil {
		asset.Preview.revoke()
	}
	a.mu.Lock()
	if a.current == asset {
		a.current = nil
	}
	a.mu.Unlock()
}

// Current returns the active asset, or nil when none is attached.
func (a *Attachment) Current() *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
