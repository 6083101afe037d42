// Package ingestion loads raw action records from external sources.
// It owns the input-shape taxonomy: ErrNotFound for a missing path and
// ErrUnsupportedFormat for anything it cannot decode into a record list.
// Schema interpretation of the records themselves belongs to normalization.
package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("input path does not exist")

	// ErrUnsupportedFormat is returned for an unrecognized file extension
	// or a JSON object with no locatable record list.
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// envelopeKeys are the candidate keys searched, in order, when a JSON
// document wraps its record list inside an outer object.
var envelopeKeys = []string{"data", "result", "transactions", "records"}

// LoadRecords reads a JSON or CSV file into a list of raw records.
// JSON input may be a top-level array or an object wrapping an array under
// one of the envelope keys. CSV input must carry a header row; every cell
// is kept as a string and coerced downstream.
func LoadRecords(path string) ([]map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// loadJSON decodes a JSON document into records.
func loadJSON(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", path, err)
	}

	switch v := doc.(type) {
	case []any:
		return listToRecords(v), nil
	case map[string]any:
		for _, key := range envelopeKeys {
			if inner, ok := v[key].([]any); ok {
				return listToRecords(inner), nil
			}
		}
		return nil, fmt.Errorf("%w: no record list under any of %v", ErrUnsupportedFormat, envelopeKeys)
	default:
		return nil, fmt.Errorf("%w: json document is neither array nor object", ErrUnsupportedFormat)
	}
}

// listToRecords keeps object entries and drops anything else.
// A scalar inside the record list is not a usable row.
func listToRecords(list []any) []map[string]any {
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}

// loadCSV reads a header-first CSV file into flat records.
func loadCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
