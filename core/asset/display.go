package asset

//go:generate mockery --name=Display -r --case underscore --with-expecter --structname Display --filename display_mock.go --output=./mocks

// Display is the rendering collaborator the registry drives. It owns the
// map widget, the per-layer visibility groups and the cluster buckets;
// the registry only ever talks to it through marker handles.
type Display interface {
	// AddMarker creates the visual representation for an asset and
	// inserts it into the visibility group of the asset's layer. The
	// returned handle is owned by the registry.
	AddMarker(a Asset, cb MarkerCallbacks) (Marker, error)
	// RemoveMarker detaches a handle from its layer's visibility group.
	RemoveMarker(layer Type, m Marker)
}

// Marker is the opaque handle to one asset's on-screen representation.
type Marker interface {
	SetVisibility(v Visibility)
	// SetRadius resizes the marker. Only circle markers (gullies) react
	// to it; other implementations may ignore the call.
	SetRadius(radius float64)
}

// MarkerCallbacks are the interaction hooks the registry wires on every
// marker it creates.
type MarkerCallbacks struct {
	OnActivate func()
	OnHoverIn  func()
	OnHoverOut func()
}
