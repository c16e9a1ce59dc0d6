package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goroads/kerbside/core/asset"
)

func TestValidateFilter(t *testing.T) {
	type testCase struct {
		Description string
		Filter      *asset.Filter
		errString   string
	}
	var testCases = []testCase{
		{
			Description: "empty filter will be valid",
			Filter:      &asset.Filter{},
		},
		{
			Description: "the all layer will be valid",
			Filter:      &asset.Filter{Layer: "all"},
		},
		{
			Description: "invalid layer will return error",
			Filter:      &asset.Filter{Layer: "random"},
			errString:   "error value \"random\" for key \"layer\" not recognized, only support \"all gullies playgrounds walkways signage lining\"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			err := tc.Filter.Validate()
			if tc.errString == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tc.errString)
		})
	}
}

func TestFilterVisibility(t *testing.T) {
	gully := asset.Asset{
		ID:     "G-100",
		Layer:  asset.TypeGully,
		Status: asset.StatusUnmarked,
		Title:  "Pouladuff Rd outside school",
	}
	sign := asset.Asset{
		ID:     "S-17",
		Layer:  asset.TypeSignage,
		Status: asset.StatusFlagged,
	}

	type testCase struct {
		Description string
		Filter      asset.Filter
		Asset       asset.Asset
		Expect      asset.Visibility
	}
	var testCases = []testCase{
		{
			Description: "no filter shows everything in full",
			Filter:      asset.Filter{},
			Asset:       gully,
			Expect:      asset.VisibleFull,
		},
		{
			Description: "layer all with empty query shows everything in full",
			Filter:      asset.Filter{Layer: "all"},
			Asset:       sign,
			Expect:      asset.VisibleFull,
		},
		{
			Description: "layer mismatch hides the marker outright",
			Filter:      asset.Filter{Layer: "gullies"},
			Asset:       sign,
			Expect:      asset.Hidden,
		},
		{
			Description: "layer mismatch hides even when the text matches",
			Filter:      asset.Filter{Layer: "gullies", Query: "S-17"},
			Asset:       sign,
			Expect:      asset.Hidden,
		},
		{
			Description: "text mismatch only dims a layer match",
			Filter:      asset.Filter{Layer: "all", Query: "playground"},
			Asset:       gully,
			Expect:      asset.VisibleDim,
		},
		{
			Description: "query matches the id case-insensitively",
			Filter:      asset.Filter{Layer: "all", Query: "g-1"},
			Asset:       gully,
			Expect:      asset.VisibleFull,
		},
		{
			Description: "query matches the status",
			Filter:      asset.Filter{Layer: "signage", Query: "flagged"},
			Asset:       sign,
			Expect:      asset.VisibleFull,
		},
		{
			Description: "query matches the title",
			Filter:      asset.Filter{Query: "pouladuff"},
			Asset:       gully,
			Expect:      asset.VisibleFull,
		},
		{
			Description: "surrounding whitespace in the query is ignored",
			Filter:      asset.Filter{Query: "  G-100  "},
			Asset:       gully,
			Expect:      asset.VisibleFull,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			assert.Equal(t, tc.Expect, tc.Filter.Visibility(&tc.Asset))
		})
	}
}
