package export

import (
	"strings"

	"penguinlens/internal/dataset"
	dErrors "penguinlens/pkg/domain-errors"
)

// Subset names one of the downloadable partitions.
type Subset string

const (
	SubsetMale   Subset = "male"
	SubsetFemale Subset = "female"
)

// ParseSubset accepts "male" or "female" in any case.
func ParseSubset(s string) (Subset, error) {
	switch Subset(strings.ToLower(strings.TrimSpace(s))) {
	case SubsetMale:
		return SubsetMale, nil
	case SubsetFemale:
		return SubsetFemale, nil
	default:
		return "", dErrors.New(dErrors.CodeNotFound, "unknown export subset")
	}
}

// Filename is the suggested download name.
func (s Subset) Filename() string {
	return string(s) + "_penguins.csv"
}

// Sex is the record sex value the subset selects.
func (s Subset) Sex() string {
	if s == SubsetMale {
		return dataset.SexMale
	}
	return dataset.SexFemale
}

// Download is an encoded export ready to be served.
type Download struct {
	Subset      Subset
	Filename    string
	ContentType string
	Rows        int
	Body        []byte
}
