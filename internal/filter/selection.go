package filter

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"penguinlens/internal/dataset"
	dErrors "penguinlens/pkg/domain-errors"
	pstrings "penguinlens/pkg/platform/strings"
)

// Selection holds the chosen species and islands. An empty set for either
// dimension selects nothing; it is not a wildcard.
type Selection struct {
	Species []string `json:"species"`
	Islands []string `json:"islands"`
}

// NewSelection builds a Selection, trimming and de-duplicating values while
// keeping their first-seen order. Empty strings are discarded.
func NewSelection(species, islands []string) Selection {
	return Selection{
		Species: pstrings.DedupeAndTrim(species),
		Islands: pstrings.DedupeAndTrim(islands),
	}
}

// Default selects every distinct species and island in ds.
func Default(ds *dataset.Dataset) Selection {
	return Selection{
		Species: ds.Species(),
		Islands: ds.Islands(),
	}
}

// Validate checks that every selected value occurs in ds.
func (s Selection) Validate(ds *dataset.Dataset) error {
	if err := validateDim(ds, dataset.DimSpecies, s.Species); err != nil {
		return err
	}
	return validateDim(ds, dataset.DimIsland, s.Islands)
}

func validateDim(ds *dataset.Dataset, dim dataset.Dimension, values []string) error {
	var unknown []string
	for _, v := range values {
		if !ds.Has(dim, v) {
			unknown = append(unknown, fmt.Sprintf("%q", v))
		}
	}
	if len(unknown) > 0 {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("unknown %s: %s", dim, strings.Join(unknown, ", ")))
	}
	return nil
}

// Covers reports whether s selects every distinct value of both dimensions.
func (s Selection) Covers(ds *dataset.Dataset) bool {
	return coversAll(s.Species, ds.Species()) && coversAll(s.Islands, ds.Islands())
}

func coversAll(selected, distinct []string) bool {
	for _, v := range distinct {
		if !slices.Contains(selected, v) {
			return false
		}
	}
	return true
}

// Key is a canonical encoding of s, independent of value order, suitable for
// cache keys.
func (s Selection) Key() string {
	species := slices.Clone(s.Species)
	islands := slices.Clone(s.Islands)
	slices.Sort(species)
	slices.Sort(islands)
	return fmt.Sprintf("species=%q;islands=%q", species, islands)
}

// Equal reports whether s and other select the same values.
func (s Selection) Equal(other Selection) bool {
	return s.Key() == other.Key()
}

// MarshalJSON encodes an empty dimension as [] rather than null.
func (s Selection) MarshalJSON() ([]byte, error) {
	type plain Selection
	out := plain(s)
	if out.Species == nil {
		out.Species = []string{}
	}
	if out.Islands == nil {
		out.Islands = []string{}
	}
	return json.Marshal(out)
}
