package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
)

// Dataset is the cleaned, immutable table. It is safe to share across
// goroutines; nothing exposed by it aliases internal state except through
// read-only accessors.
type Dataset struct {
	records     []Record
	species     []string
	islands     []string
	index       map[Dimension]map[string]*roaring.Bitmap
	excluded    int
	fingerprint string
}

// New builds a Dataset from already-clean records. excluded is the number of
// source rows the caller dropped while cleaning.
func New(records []Record, excluded int) *Dataset {
	ds := &Dataset{
		records:  append([]Record(nil), records...),
		excluded: excluded,
		index: map[Dimension]map[string]*roaring.Bitmap{
			DimSpecies: {},
			DimIsland:  {},
		},
	}

	for i, r := range ds.records {
		ds.species = indexValue(ds.index[DimSpecies], ds.species, r.Species, i)
		ds.islands = indexValue(ds.index[DimIsland], ds.islands, r.Island, i)
	}
	ds.fingerprint = fingerprint(ds.records)
	return ds
}

func indexValue(idx map[string]*roaring.Bitmap, distinct []string, value string, pos int) []string {
	bm, ok := idx[value]
	if !ok {
		bm = roaring.New()
		idx[value] = bm
		distinct = append(distinct, value)
	}
	bm.Add(uint32(pos))
	return distinct
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// At returns the record at position i.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all records in source order.
func (d *Dataset) Records() []Record {
	return append([]Record(nil), d.records...)
}

// Species returns the distinct species in order of first appearance.
func (d *Dataset) Species() []string {
	return append([]string(nil), d.species...)
}

// Islands returns the distinct islands in order of first appearance.
func (d *Dataset) Islands() []string {
	return append([]string(nil), d.islands...)
}

// Distinct returns the distinct values of dim in order of first appearance.
func (d *Dataset) Distinct(dim Dimension) []string {
	switch dim {
	case DimSpecies:
		return d.Species()
	case DimIsland:
		return d.Islands()
	default:
		return nil
	}
}

// Has reports whether value occurs in dim.
func (d *Dataset) Has(dim Dimension, value string) bool {
	_, ok := d.index[dim][value]
	return ok
}

// Positions returns a fresh bitmap of the row positions whose dim value is
// any of values. Unknown values contribute nothing.
func (d *Dataset) Positions(dim Dimension, values []string) *roaring.Bitmap {
	out := roaring.New()
	for _, v := range values {
		if bm, ok := d.index[dim][v]; ok {
			out.Or(bm)
		}
	}
	return out
}

// Excluded returns how many source rows were dropped during cleaning.
func (d *Dataset) Excluded() int {
	return d.excluded
}

// Fingerprint identifies the dataset content. Two datasets with equal
// records in equal order share a fingerprint.
func (d *Dataset) Fingerprint() string {
	return d.fingerprint
}

func fingerprint(records []Record) string {
	h := sha256.New()
	buf := make([]byte, 0, 128)
	for _, r := range records {
		buf = buf[:0]
		buf = append(buf, r.Species...)
		buf = append(buf, 0x1f)
		buf = append(buf, r.Island...)
		buf = append(buf, 0x1f)
		for _, f := range []float64{r.BillLengthMM, r.BillDepthMM, r.FlipperLengthMM, r.BodyMassG} {
			buf = strconv.AppendUint(buf, math.Float64bits(f), 16)
			buf = append(buf, 0x1f)
		}
		buf = append(buf, r.Sex...)
		buf = append(buf, 0x1e)
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
