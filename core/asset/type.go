package asset

const (
	TypeGully      Type = "gullies"
	TypePlayground Type = "playgrounds"
	TypeWalkway    Type = "walkways"
	TypeSignage    Type = "signage"
	TypeLining     Type = "lining"
)

// AllSupportedTypes holds a list of all supported asset layer types
var AllSupportedTypes = []Type{
	TypeGully,
	TypePlayground,
	TypeWalkway,
	TypeSignage,
	TypeLining,
}

// LayerAll is the filter value that matches every layer.
const LayerAll = "all"

// Type specifies a supported asset layer name
type Type string

// String cast Type to string
func (t Type) String() string {
	return string(t)
}

// IsValid will validate whether the layer name is valid or not
func (t Type) IsValid() bool {
	switch t {
	case TypeGully, TypePlayground, TypeWalkway, TypeSignage, TypeLining:
		return true
	}
	return false
}

// Clustered reports whether markers of this layer are grouped into a
// cluster bucket on screen. Gullies render as plain circle markers, every
// other layer clusters.
func (t Type) Clustered() bool {
	return t != TypeGully
}
