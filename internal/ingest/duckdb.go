package ingest

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"blockdebug/internal/domain"
)

// DuckDBSource loads a domain.Table by running a query against a DuckDB
// database, either an on-disk file or ":memory:". It is the alternate
// ingest adapter for callers that already keep their data in DuckDB/Parquet
// rather than flat CSV files.
type DuckDBSource struct {
	DSN   string // e.g. "mydata.duckdb" or ":memory:"
	Query string
	Key   string
}

// Load opens a short-lived connection, runs Query, and materializes every
// row into a domain.Table. Column types are taken verbatim from whatever
// driver.Value the duckdb driver returns for each cell.
func (s DuckDBSource) Load(ctx context.Context) (*domain.Table, error) {
	db, err := sql.Open("duckdb", s.DSN)
	if err != nil {
		return nil, domain.ErrInvalidArgument("open duckdb %s: %v", s.DSN, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, s.Query)
	if err != nil {
		return nil, domain.ErrInvalidArgument("query duckdb: %v", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("duckdb columns: %w", err)
	}

	hasKey := false
	for _, c := range cols {
		if c == s.Key {
			hasKey = true
			break
		}
	}
	if !hasKey {
		return nil, domain.ErrUnknownColumn("key column %q not present in query result", s.Key)
	}

	var out []domain.Record
	scanDest := make([]interface{}, len(cols))
	scanVals := make([]interface{}, len(cols))
	for i := range scanDest {
		scanDest[i] = &scanVals[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, fmt.Errorf("duckdb scan: %w", err)
		}
		row := make(domain.Record, len(cols))
		for i, c := range cols {
			row[c] = scanVals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("duckdb rows: %w", err)
	}

	return &domain.Table{Columns: cols, Rows: out, Key: s.Key}, nil
}
