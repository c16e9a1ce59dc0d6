package asset

import (
	"strings"

	"github.com/goroads/kerbside/core/validator"
)

// Visibility is the display treatment of a single marker under the
// active filter.
type Visibility string

const (
	// VisibleFull renders the marker at full opacity.
	VisibleFull Visibility = "full"
	// VisibleDim keeps the marker on screen but faded: the asset exists
	// and matches the selected layer, just not the search text. It stays
	// clickable.
	VisibleDim Visibility = "dim"
	// Hidden removes the marker from the screen entirely: the asset is
	// filtered out by layer selection.
	Hidden Visibility = "hidden"
)

// Filter is the dual predicate applied over the registry: a layer
// selection and a free-text query matched against id, status and title.
type Filter struct {
	Query string `json:"query"`
	Layer string `json:"layer" validate:"omitempty,oneof=all gullies playgrounds walkways signage lining"`
}

func (f *Filter) Validate() error {
	return validator.ValidateStruct(f)
}

// Visibility resolves the display treatment for one asset. A layer
// mismatch hides the marker outright; a text mismatch only dims it. The
// two states are deliberately distinct: "exists but doesn't match search"
// reads differently from "filtered out by category".
func (f Filter) Visibility(a *Asset) Visibility {
	if !f.matchesLayer(a) {
		return Hidden
	}
	if !f.matchesText(a) {
		return VisibleDim
	}
	return VisibleFull
}

func (f Filter) matchesLayer(a *Asset) bool {
	return f.Layer == "" || f.Layer == LayerAll || a.Layer.String() == f.Layer
}

func (f Filter) matchesText(a *Asset) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.ID), query) ||
		strings.Contains(strings.ToLower(a.Status.String()), query) ||
		strings.Contains(strings.ToLower(a.Title), query)
}
