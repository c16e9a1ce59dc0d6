package asset

import (
	"sync"
	"time"

	"github.com/goto/salt/log"
	"github.com/r3labs/diff/v2"

	"github.com/goroads/kerbside/core/user"
	"github.com/goroads/kerbside/pkg/statsd"
)

// InteractionMode decides what a marker activation means: opening the
// inspection flow or deleting the asset.
type InteractionMode string

const (
	ModeInspect InteractionMode = "inspect"
	ModeDelete  InteractionMode = "delete"
)

// Gully circle-marker radii. Delete mode renders gullies slightly larger
// and hovering over one in delete mode enlarges it further.
const (
	gullyRadiusDefault = 6
	gullyRadiusDelete  = 8
	gullyRadiusHover   = 10
)

type record struct {
	asset      Asset
	marker     Marker
	visibility Visibility
}

// Registry is the single source of truth for what is currently on the
// map and in what state. All state is constructor-scoped: callers receive
// a reference, there is no ambient global registry.
//
// Registry operations are pure in-memory mutations guarded by a single
// mutex, so Assets never observes a partially applied SetFilter.
type Registry struct {
	mu      sync.RWMutex
	display Display
	logger  log.Logger
	metrics *statsd.Reporter

	records map[string]*record
	order   []string
	filter  Filter

	mode     InteractionMode
	selected string

	onInspect func(Asset)
	onDelete  func(Asset)
}

// RegistryDeps carries the registry's collaborators. Display is
// mandatory; the interaction hooks and observability deps are optional.
type RegistryDeps struct {
	Display Display
	Logger  log.Logger
	Metrics *statsd.Reporter

	// OnInspect fires when a marker is activated in inspect mode.
	OnInspect func(Asset)
	// OnDelete fires when a marker is activated in delete mode. The hook
	// decides whether to call RemoveAsset; activation itself never
	// mutates the registry.
	OnDelete func(Asset)
}

func NewRegistry(deps RegistryDeps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNoop()
	}

	return &Registry{
		display:   deps.Display,
		logger:    logger,
		metrics:   deps.Metrics,
		records:   map[string]*record{},
		mode:      ModeInspect,
		onInspect: deps.OnInspect,
		onDelete:  deps.OnDelete,
	}
}

// AddAsset places a new asset on the map: it validates the coordinate,
// creates the visual representation through the display collaborator,
// inserts it into its layer's visibility group, wires the interaction
// callbacks and appends the record. Duplicate ids are rejected, never
// overwritten.
//
// The new marker starts fully visible regardless of the active filter;
// the next SetFilter call folds it into the filtered view.
func (r *Registry) AddAsset(pos Position, id string, layer Type, status Status) (m Marker, err error) {
	defer func() {
		r.instrument("AddAsset", err)
	}()

	if id == "" {
		return nil, ErrEmptyID
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	if !layer.IsValid() {
		return nil, ErrUnknownLayer
	}
	if status == "" {
		status = StatusUnmarked
	}
	if !status.IsValid() {
		return nil, ErrUnknownStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; exists {
		return nil, DuplicateIDError{AssetID: id}
	}

	now := time.Now()
	ast := Asset{
		ID:        id,
		Layer:     layer,
		Status:    status,
		Position:  pos,
		CreatedAt: now,
		UpdatedAt: now,
	}

	marker, err := r.display.AddMarker(ast, MarkerCallbacks{
		OnActivate: func() { r.activate(id) },
		OnHoverIn:  func() { r.hover(id, true) },
		OnHoverOut: func() { r.hover(id, false) },
	})
	if err != nil {
		return nil, err
	}

	r.records[id] = &record{asset: ast, marker: marker, visibility: VisibleFull}
	r.order = append(r.order, id)
	marker.SetVisibility(VisibleFull)

	r.logger.Info("asset placed", "id", id, "layer", layer.String(), "status", status.String())
	return marker, nil
}

// RemoveAsset removes the record and detaches its marker from its
// layer's visibility group.
func (r *Registry) RemoveAsset(id string) (err error) {
	defer func() {
		r.instrument("RemoveAsset", err)
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return NotFoundError{AssetID: id}
	}

	r.display.RemoveMarker(rec.asset.Layer, rec.marker)
	delete(r.records, id)
	for i, recordID := range r.order {
		if recordID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.selected == id {
		r.selected = ""
	}

	r.logger.Info("asset removed", "id", id)
	return nil
}

// SetFilter recomputes the visibility of every record against the layer
// selection and the free-text query, then applies the display treatment.
// It completes synchronously relative to the caller and never fails for
// normal filter input; an unrecognized layer simply matches nothing.
func (r *Registry) SetFilter(query, layer string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filter = Filter{Query: query, Layer: layer}
	for _, id := range r.order {
		rec := r.records[id]
		v := r.filter.Visibility(&rec.asset)
		if v != rec.visibility {
			rec.visibility = v
			rec.marker.SetVisibility(v)
		}
	}
}

// Filter returns the currently applied filter.
func (r *Registry) Filter() Filter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Assets returns a snapshot of the records matching pred, in placement
// order. A nil pred matches everything. The snapshot is decoupled from
// the registry, so callers can range over it repeatedly while filters
// are being reapplied.
func (r *Registry) Assets(pred func(Asset) bool) []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Asset, 0, len(r.order))
	for _, id := range r.order {
		ast := r.records[id].asset
		if pred == nil || pred(ast) {
			out = append(out, ast)
		}
	}
	return out
}

// GetByID returns the asset record for id.
func (r *Registry) GetByID(id string) (Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[id]
	if !exists {
		return Asset{}, NotFoundError{AssetID: id}
	}
	return rec.asset, nil
}

// Visibility returns the current display treatment for id under the
// active filter.
func (r *Registry) Visibility(id string) (Visibility, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[id]
	if !exists {
		return "", NotFoundError{AssetID: id}
	}
	return rec.visibility, nil
}

// Size returns the number of registered assets.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// UpdateStatus transitions an asset's inspection status and returns the
// changelog of the update for audit logging. The record's visibility is
// recomputed, since the free-text query also matches on status.
func (r *Registry) UpdateStatus(id string, status Status, by user.User) (diff.Changelog, error) {
	if !status.IsValid() {
		return nil, ErrUnknownStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return nil, NotFoundError{AssetID: id}
	}

	updated := rec.asset
	updated.Status = status
	updated.UpdatedAt = time.Now()
	updated.UpdatedBy = by

	changelog, err := rec.asset.Diff(&updated)
	if err != nil {
		return nil, err
	}

	rec.asset = updated
	v := r.filter.Visibility(&rec.asset)
	if v != rec.visibility {
		rec.visibility = v
		rec.marker.SetVisibility(v)
	}

	r.logger.Info("asset status updated", "id", id, "status", status.String(), "by", by.Email)
	return changelog, nil
}

// SetPhotoURL records the reference URL of the latest inspection photo
// on the asset.
func (r *Registry) SetPhotoURL(id, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists {
		return NotFoundError{AssetID: id}
	}
	rec.asset.PhotoURL = url
	rec.asset.UpdatedAt = time.Now()
	return nil
}

// SetInteractionMode switches activation dispatch between inspect and
// delete. Gully markers are restyled to the mode's radius so delete mode
// is visually distinct.
func (r *Registry) SetInteractionMode(mode InteractionMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mode = mode
	radius := float64(gullyRadiusDefault)
	if mode == ModeDelete {
		radius = gullyRadiusDelete
	}
	for _, id := range r.order {
		rec := r.records[id]
		if rec.asset.Layer == TypeGully {
			rec.marker.SetRadius(radius)
		}
	}
}

// InteractionMode returns the active activation mode.
func (r *Registry) InteractionMode() InteractionMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Selected returns the asset most recently activated in inspect mode.
func (r *Registry) Selected() (Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected == "" {
		return Asset{}, false
	}
	rec, exists := r.records[r.selected]
	if !exists {
		return Asset{}, false
	}
	return rec.asset, true
}

// activate routes a marker activation by the current interaction mode.
func (r *Registry) activate(id string) {
	r.mu.Lock()
	rec, exists := r.records[id]
	if !exists {
		r.mu.Unlock()
		return
	}
	ast := rec.asset
	mode := r.mode
	if mode == ModeInspect {
		r.selected = id
	}
	r.mu.Unlock()

	switch mode {
	case ModeDelete:
		if r.onDelete != nil {
			r.onDelete(ast)
		}
	default:
		if r.onInspect != nil {
			r.onInspect(ast)
		}
	}
}

// hover toggles the enlarged delete-mode radius on gully markers.
func (r *Registry) hover(id string, over bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.records[id]
	if !exists || rec.asset.Layer != TypeGully {
		return
	}

	switch {
	case over && r.mode == ModeDelete:
		rec.marker.SetRadius(gullyRadiusHover)
	case r.mode == ModeDelete:
		rec.marker.SetRadius(gullyRadiusDelete)
	default:
		rec.marker.SetRadius(gullyRadiusDefault)
	}
}

func (r *Registry) instrument(op string, err error) {
	if r.metrics == nil {
		return
	}
	m := r.metrics.Incr("registryOp").Tag("operation", op)
	if err != nil {
		m.Failure(err)
	} else {
		m.Success()
	}
	m.Publish()
}
