package display

import (
	"fmt"
	"sync"

	"github.com/goroads/kerbside/core/asset"
)

// Headless is a display collaborator without a screen. It keeps the
// layer visibility groups and per-marker state the registry expects so
// the tool can run behind an HTTP surface or in tests; the browser map
// renders from the registry's reported state instead.
type Headless struct {
	mu     sync.Mutex
	groups map[asset.Type]*group
}

type group struct {
	clustered bool
	markers   map[*Marker]struct{}
}

func NewHeadless() *Headless {
	groups := make(map[asset.Type]*group, len(asset.AllSupportedTypes))
	for _, t := range asset.AllSupportedTypes {
		groups[t] = &group{
			clustered: t.Clustered(),
			markers:   map[*Marker]struct{}{},
		}
	}
	return &Headless{groups: groups}
}

func (h *Headless) AddMarker(a asset.Asset, cb asset.MarkerCallbacks) (asset.Marker, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[a.Layer]
	if !ok {
		return nil, fmt.Errorf("no visibility group for layer %q", a.Layer)
	}

	m := &Marker{callbacks: cb, visibility: asset.VisibleFull}
	g.markers[m] = struct{}{}
	return m, nil
}

func (h *Headless) RemoveMarker(layer asset.Type, m asset.Marker) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[layer]
	if !ok {
		return
	}
	if hm, ok := m.(*Marker); ok {
		delete(g.markers, hm)
	}
}

// GroupSize returns how many markers a layer's visibility group holds.
func (h *Headless) GroupSize(layer asset.Type) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[layer]
	if !ok {
		return 0
	}
	return len(g.markers)
}

// Marker is a headless marker handle. It records the treatment the
// registry applies and exposes the interaction entry points a real map
// widget would drive.
type Marker struct {
	mu         sync.Mutex
	callbacks  asset.MarkerCallbacks
	visibility asset.Visibility
	radius     float64
}

func (m *Marker) SetVisibility(v asset.Visibility) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visibility = v
}

func (m *Marker) SetRadius(radius float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.radius = radius
}

func (m *Marker) Visibility() asset.Visibility {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visibility
}

func (m *Marker) Radius() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.radius
}

// Activate simulates the primary interaction on the marker.
func (m *Marker) Activate() {
	if m.callbacks.OnActivate != nil {
		m.callbacks.OnActivate()
	}
}

// Hover simulates the pointer entering or leaving the marker.
func (m *Marker) Hover(over bool) {
	if over {
		if m.callbacks.OnHoverIn != nil {
			m.callbacks.OnHoverIn()
		}
		return
	}
	if m.callbacks.OnHoverOut != nil {
		m.callbacks.OnHoverOut()
	}
}
