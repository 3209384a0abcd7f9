// Package aggregate derives sex partitions, grouped counts and summary
// counts from a filtered view. Every function recomputes from its inputs.
package aggregate

import (
	"penguinlens/internal/dataset"
	"penguinlens/internal/filter"
)

// Partition splits a view by sex. Records whose sex is neither Male nor
// Female appear in neither side and are counted in Dropped.
type Partition struct {
	Male    filter.View
	Female  filter.View
	Dropped int
}

// SexCounts is the Male/Female count of one group.
type SexCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Total returns Male + Female.
func (c SexCounts) Total() int {
	return c.Male + c.Female
}

// GroupedCounts maps every species present in a view to its sex counts.
// Species preserves first-appearance order within the view; a species with
// no records of one sex reports 0 for it.
type GroupedCounts struct {
	Species []string             `json:"species"`
	Counts  map[string]SexCounts `json:"counts"`
	Dropped int                  `json:"dropped"`
}

// Get returns the counts for species, zero if absent.
func (g GroupedCounts) Get(species string) SexCounts {
	return g.Counts[species]
}

// Total sums all counts.
func (g GroupedCounts) Total() int {
	total := 0
	for _, c := range g.Counts {
		total += c.Total()
	}
	return total
}

// Summary holds the headline counts. Total is always Male + Female.
type Summary struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Total  int `json:"total"`
}

// PartitionBySex classifies each record of v by its sex field.
func PartitionBySex(v filter.View) Partition {
	male := v.Subset(func(r dataset.Record) bool { return r.Sex == dataset.SexMale })
	female := v.Subset(func(r dataset.Record) bool { return r.Sex == dataset.SexFemale })
	return Partition{Male: male, Female: female, Dropped: v.Len() - male.Len() - female.Len()}
}

// CountBySpeciesSex groups v by (species, sex). Records with an unexpected
// sex value are left out and counted in Dropped, so Total() equals
// v.Len() - Dropped.
func CountBySpeciesSex(v filter.View) GroupedCounts {
	g := GroupedCounts{Counts: make(map[string]SexCounts)}
	for i := 0; i < v.Len(); i++ {
		r := v.At(i)
		c, seen := g.Counts[r.Species]
		if !seen {
			g.Species = append(g.Species, r.Species)
		}
		switch r.Sex {
		case dataset.SexMale:
			c.Male++
		case dataset.SexFemale:
			c.Female++
		default:
			g.Dropped++
		}
		g.Counts[r.Species] = c
	}
	if g.Species == nil {
		g.Species = []string{}
	}
	return g
}

// Summarize computes the headline counts of a partition.
func Summarize(p Partition) Summary {
	male, female := p.Male.Len(), p.Female.Len()
	return Summary{Male: male, Female: female, Total: male + female}
}
