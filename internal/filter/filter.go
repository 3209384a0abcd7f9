// Package filter narrows the dataset to the records a Selection admits.
//
// Values within a dimension are OR-combined and dimensions are AND-combined.
// The result is a View: an ordered list of positions into the dataset, so
// filtering never copies or reorders records.
package filter

import (
	"github.com/RoaringBitmap/roaring/v2"

	"penguinlens/internal/dataset"
)

// Apply returns the records of ds whose species and island are both
// selected, in dataset order. If either set is empty the view is empty.
func Apply(ds *dataset.Dataset, sel Selection) View {
	if len(sel.Species) == 0 || len(sel.Islands) == 0 {
		return View{ds: ds}
	}

	matched := roaring.And(
		ds.Positions(dataset.DimSpecies, sel.Species),
		ds.Positions(dataset.DimIsland, sel.Islands),
	)

	positions := make([]int, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		positions = append(positions, int(it.Next()))
	}
	return View{ds: ds, positions: positions}
}
