package dataset

import (
	"math"
	"strconv"
	"strings"
)

// missingTokens are the spellings sources use for an absent value, compared
// case-insensitively after trimming.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// CleanReport summarizes what Clean kept and dropped.
type CleanReport struct {
	Total    int
	Kept     int
	Excluded int
	// MissingByField counts, per column, the dropped rows whose first
	// offending field was that column.
	MissingByField map[string]int
}

// Clean converts raw rows into a Dataset, dropping every row that has a
// missing or unparsable value in any tracked column. Dropped rows are not
// imputed; partial observations are discarded whole.
func Clean(raw []RawRecord) (*Dataset, CleanReport) {
	report := CleanReport{
		Total:          len(raw),
		MissingByField: make(map[string]int),
	}

	kept := make([]Record, 0, len(raw))
	for _, row := range raw {
		rec, badField, ok := parseRecord(row)
		if !ok {
			report.MissingByField[badField]++
			continue
		}
		kept = append(kept, rec)
	}

	report.Kept = len(kept)
	report.Excluded = report.Total - report.Kept
	return New(kept, report.Excluded), report
}

func parseRecord(row RawRecord) (Record, string, bool) {
	var rec Record
	for _, col := range Columns {
		val, ok := present(row, col)
		if !ok {
			return Record{}, col, false
		}
		switch col {
		case ColSpecies:
			rec.Species = val
		case ColIsland:
			rec.Island = val
		case ColSex:
			rec.Sex = val
		default:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return Record{}, col, false
			}
			setMeasurement(&rec, col, f)
		}
	}
	return rec, "", true
}

func present(row RawRecord, col string) (string, bool) {
	val, ok := row[col]
	if !ok {
		return "", false
	}
	val = strings.ReplaceAll(strings.TrimSpace(val), "\r\n", "\n")
	if _, missing := missingTokens[strings.ToLower(val)]; missing {
		return "", false
	}
	return val, true
}

func setMeasurement(rec *Record, col string, f float64) {
	switch col {
	case ColBillLengthMM:
		rec.BillLengthMM = f
	case ColBillDepthMM:
		rec.BillDepthMM = f
	case ColFlipperLengthMM:
		rec.FlipperLengthMM = f
	case ColBodyMassG:
		rec.BodyMassG = f
	}
}
