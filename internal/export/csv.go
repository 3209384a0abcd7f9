// Package export serializes record subsets to CSV for download.
//
// The format is UTF-8, comma-delimited, one header row of column names
// followed by one row per record, "\n" line endings, and RFC 4180 quoting
// for any field holding a comma, quote or line break. Output depends only on
// the input records, so equal inputs always produce identical bytes.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"penguinlens/internal/dataset"
)

// ContentType is the MIME type of encoded exports.
const ContentType = "text/csv"

// Encode writes records as CSV.
func Encode(records []dataset.Record) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = EncodeTo(&buf, records)
	return buf.Bytes()
}

// EncodeTo streams records as CSV to w.
func EncodeTo(w io.Writer, records []dataset.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(dataset.Columns))
	for _, r := range records {
		row[0] = r.Species
		row[1] = r.Island
		row[2] = formatFloat(r.BillLengthMM)
		row[3] = formatFloat(r.BillDepthMM)
		row[4] = formatFloat(r.FlipperLengthMM)
		row[5] = formatFloat(r.BodyMassG)
		row[6] = r.Sex
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest decimal that parses back to the same value.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse reads bytes produced by Encode back into records.
func Parse(data []byte) ([]dataset.Record, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = len(dataset.Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range dataset.Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i, header[i], col)
		}
	}

	records := []dataset.Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := dataset.Record{Species: row[0], Island: row[1], Sex: row[6]}
		for i, dst := range []*float64{&rec.BillLengthMM, &rec.BillDepthMM, &rec.FlipperLengthMM, &rec.BodyMassG} {
			if *dst, err = strconv.ParseFloat(row[2+i], 64); err != nil {
				return nil, fmt.Errorf("parse %s: %w", dataset.Columns[2+i], err)
			}
		}
		records = append(records, rec)
	}
}
