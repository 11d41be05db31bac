// Package ingest loads domain.Table values from external sources: flat CSV
// files and DuckDB result sets. Table loading sits outside the core
// algorithm's scope; it is the "dataframe-free core consumes plain
// []domain.Record" boundary the blocker package's callers cross once, up
// front.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"blockdebug/internal/domain"
)

// CSVSource loads a domain.Table from a CSV file. key names the column
// holding each row's unique identifier.
type CSVSource struct {
	Path string
	Key  string
}

// Load reads the full CSV file into memory. The header row supplies column
// names; every other row becomes a domain.Record. Cells that parse cleanly
// as int64 or float64 are stored as numbers so that downstream schema
// alignment can tell textual from numeric columns; everything else is kept
// as a string.
func (s CSVSource) Load() (*domain.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, domain.ErrInvalidArgument("open csv %s: %v", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, domain.ErrInvalidArgument("read csv header %s: %v", s.Path, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	hasKey := false
	for _, h := range header {
		if h == s.Key {
			hasKey = true
			break
		}
	}
	if !hasKey {
		return nil, domain.ErrUnknownColumn("key column %q not present in %s", s.Key, s.Path)
	}

	var rows []domain.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.ErrInvalidArgument("read csv row %s: %v", s.Path, err)
		}

		row := make(domain.Record, len(header))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = parseCell(cell)
		}
		rows = append(rows, row)
	}

	return &domain.Table{Columns: header, Rows: rows, Key: s.Key}, nil
}

// parseCell promotes a raw CSV cell to int64/float64 when it parses
// cleanly, otherwise leaves it as a string. Empty cells become nil so that
// feature.weight's fill-rate scoring treats them as missing.
func parseCell(cell string) domain.Value {
	if cell == "" {
		return nil
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}
