package asset

import (
	"time"

	"github.com/goroads/kerbside/core/user"
	"github.com/r3labs/diff/v2"
)

// Asset is a point feature on the map: a gully, a sign, a playground and
// so on, tracked by id, layer, status and position.
type Asset struct {
	ID        string    `json:"id" diff:"-"`
	Layer     Type      `json:"layer" diff:"-"`
	Status    Status    `json:"status" diff:"status"`
	Position  Position  `json:"position" diff:"-"`
	Title     string    `json:"title,omitempty" diff:"title"`
	PhotoURL  string    `json:"photo_url,omitempty" diff:"photo_url"`
	CreatedAt time.Time `json:"created_at" diff:"-"`
	UpdatedAt time.Time `json:"updated_at" diff:"-"`
	UpdatedBy user.User `json:"updated_by" diff:"-"`
}

// Diff returns nil changelog with nil error if equal
// returns wrapped r3labs/diff Changelog struct with nil error if not equal
func (a *Asset) Diff(otherAsset *Asset) (diff.Changelog, error) {
	return diff.Diff(a, otherAsset, diff.DiscardComplexOrigin(), diff.AllowTypeMismatch(true))
}

// Position is a geographic coordinate. Immutable once the asset is placed.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate is on the globe.
func (p Position) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return InvalidPositionError{Lat: p.Lat, Lng: p.Lng}
	}
	return nil
}
