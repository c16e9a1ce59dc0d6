package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	for typ, expected := range map[Type]string{
		TypeGully:      "gullies",
		TypePlayground: "playgrounds",
		TypeWalkway:    "walkways",
		TypeSignage:    "signage",
		TypeLining:     "lining",
	} {
		t.Run((string)(typ), func(t *testing.T) {
			assert.Equal(t, expected, typ.String())
		})
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range []Type{
		"gullies", "playgrounds", "walkways", "signage", "lining",
	} {
		t.Run((string)(typ), func(t *testing.T) {
			assert.Truef(t, typ.IsValid(), "%s should be valid", typ)
		})
	}

	if typ := Type("random"); typ.IsValid() {
		t.Fatalf("type %s should not be valid", typ)
	}
}

func TestTypeClustered(t *testing.T) {
	assert.False(t, TypeGully.Clustered(), "gullies render as plain circle markers")

	for _, typ := range []Type{TypePlayground, TypeWalkway, TypeSignage, TypeLining} {
		t.Run((string)(typ), func(t *testing.T) {
			assert.Truef(t, typ.Clustered(), "%s should cluster", typ)
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range []Status{
		"Unmarked", "Flagged", "In Progress", "Resolved",
	} {
		t.Run((string)(status), func(t *testing.T) {
			assert.Truef(t, status.IsValid(), "%s should be valid", status)
		})
	}

	if status := Status("random"); status.IsValid() {
		t.Fatalf("status %s should not be valid", status)
	}
}
