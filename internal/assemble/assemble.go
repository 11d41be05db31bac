// Package assemble reattaches original table columns to the index pairs a
// blocking-debugger run emits: the final result-table assembly step,
// kept as a thin adapter outside the dependency-free algorithmic core.
package assemble

import (
	"blockdebug/internal/domain"
)

// Row is one assembled output record: rank, similarity, the left/right key
// values, and the full original left/right records (key included, column
// names unprefixed; Flatten adds the prefixes).
type Row struct {
	Rank       int
	Similarity float64
	LeftKey    domain.Value
	RightKey   domain.Value
	Left       domain.Record
	Right      domain.Record
}

// Assemble maps pairs (already sorted by similarity descending, length <= K)
// back onto ltable/rtable rows, in order.
func Assemble(pairs []domain.ScoredPair, ltable, rtable *domain.Table) []Row {
	out := make([]Row, len(pairs))
	for i, p := range pairs {
		lrow := ltable.Rows[p.Left]
		rrow := rtable.Rows[p.Right]
		out[i] = Row{
			Rank:       i,
			Similarity: p.Similarity,
			LeftKey:    lrow[ltable.Key],
			RightKey:   rrow[rtable.Key],
			Left:       lrow,
			Right:      rrow,
		}
	}
	return out
}

// Flatten renders rows as loosely-typed maps with l_/r_ prefixed columns,
// convenient for JSON/CSV serialization by the httpapi and CLI layers.
func Flatten(rows []Row, lprefix, rprefix string) []map[string]domain.Value {
	out := make([]map[string]domain.Value, len(rows))
	for i, r := range rows {
		m := map[string]domain.Value{
			"rank":       r.Rank,
			"similarity": r.Similarity,
		}
		for k, v := range r.Left {
			m[lprefix+k] = v
		}
		for k, v := range r.Right {
			m[rprefix+k] = v
		}
		out[i] = m
	}
	return out
}
