// Package source implements dataset.Source over the places the penguin
// table can live: a local file, an HTTP URL, a Postgres table or an
// S3-compatible object.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"penguinlens/internal/dataset"
)

// ReadCSV reads a header row followed by data rows into raw records keyed
// by the trimmed, lower-cased header names. Short rows leave the trailing
// columns absent; the dataset cleaner treats absent as missing.
func ReadCSV(r io.Reader) ([]dataset.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if err := requireColumns(keys); err != nil {
		return nil, err
	}

	var rows []dataset.RawRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		raw := make(dataset.RawRecord, len(keys))
		for i, val := range fields {
			if i >= len(keys) {
				break
			}
			raw[keys[i]] = val
		}
		rows = append(rows, raw)
	}
	return rows, nil
}

func requireColumns(keys []string) error {
	have := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		have[k] = struct{}{}
	}
	var missing []string
	for _, col := range dataset.Columns {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("csv header missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
