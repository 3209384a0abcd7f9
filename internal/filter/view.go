package filter

import "penguinlens/internal/dataset"

// View is an immutable, ordered subsequence of a dataset.
type View struct {
	ds        *dataset.Dataset
	positions []int
}

// Len returns the number of records in the view.
func (v View) Len() int {
	return len(v.positions)
}

// At returns the i-th record of the view.
func (v View) At(i int) dataset.Record {
	return v.ds.At(v.positions[i])
}

// Records copies the view's records out in order.
func (v View) Records() []dataset.Record {
	out := make([]dataset.Record, len(v.positions))
	for i, p := range v.positions {
		out[i] = v.ds.At(p)
	}
	return out
}

// Subset returns the records of v for which keep is true, preserving order.
func (v View) Subset(keep func(dataset.Record) bool) View {
	positions := make([]int, 0, len(v.positions))
	for _, p := range v.positions {
		if keep(v.ds.At(p)) {
			positions = append(positions, p)
		}
	}
	return View{ds: v.ds, positions: positions}
}

// All returns a view over every record of ds.
func All(ds *dataset.Dataset) View {
	positions := make([]int, ds.Len())
	for i := range positions {
		positions[i] = i
	}
	return View{ds: ds, positions: positions}
}
