package dataset

// Column names as they appear in the source data and in exported CSV.
const (
	ColSpecies         = "species"
	ColIsland          = "island"
	ColBillLengthMM    = "bill_length_mm"
	ColBillDepthMM     = "bill_depth_mm"
	ColFlipperLengthMM = "flipper_length_mm"
	ColBodyMassG       = "body_mass_g"
	ColSex             = "sex"
)

// Columns lists every tracked field in source order. A record missing any of
// them is dropped by Clean.
var Columns = []string{
	ColSpecies,
	ColIsland,
	ColBillLengthMM,
	ColBillDepthMM,
	ColFlipperLengthMM,
	ColBodyMassG,
	ColSex,
}

// Recognized sex values. Anything else is an unexpected category.
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// Record is one penguin observation.
type Record struct {
	Species         string  `json:"species"`
	Island          string  `json:"island"`
	BillLengthMM    float64 `json:"bill_length_mm"`
	BillDepthMM     float64 `json:"bill_depth_mm"`
	FlipperLengthMM float64 `json:"flipper_length_mm"`
	BodyMassG       float64 `json:"body_mass_g"`
	Sex             string  `json:"sex"`
}

// RawRecord is a loosely-typed row as delivered by a Source, keyed by
// column name.
type RawRecord map[string]string

// Dimension names a filterable categorical column.
type Dimension string

const (
	DimSpecies Dimension = ColSpecies
	DimIsland  Dimension = ColIsland
)
