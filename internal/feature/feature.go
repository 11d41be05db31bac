// Package feature implements the Feature Selector: it scores each aligned
// non-key column by non-emptiness and value-uniqueness on both sides of the
// join and picks a subset of columns to tokenize.
package feature

import (
	"sort"

	"blockdebug/internal/domain"
)

// weight computes, for one table, the per-column combination of
// non-emptiness ratio and value selectivity:
// weight(c) = non_empty_count/N + |distinct non-empty values|/non_empty_count.
func weight(t *domain.Table) []float64 {
	n := len(t.Rows)
	w := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		seen := make(map[interface{}]struct{})
		nonEmpty := 0
		for _, row := range t.Rows {
			v := row[col]
			if v == nil || v == "" {
				continue
			}
			seen[v] = struct{}{}
			nonEmpty++
		}
		selectivity := 0.0
		if nonEmpty != 0 {
			selectivity = float64(len(seen)) / float64(nonEmpty)
		}
		fillRate := 0.0
		if n != 0 {
			fillRate = float64(nonEmpty) / float64(n)
		}
		w[i] = fillRate + selectivity
	}
	return w
}

// Select ranks the non-key columns of the positionally-aligned ltable and
// rtable by the product of their per-side weights, and returns the indices
// of the selected columns in ascending order (so the Tokenizer concatenates
// them in a stable, encounter-order-significant sequence).
func Select(ltable, rtable *domain.Table, lkeyIndex int) ([]int, error) {
	if len(ltable.Columns) != len(rtable.Columns) {
		return nil, domain.ErrSchemaMismatch("FILTERED ltable and FILTERED rtable have different number of fields")
	}
	if len(ltable.Rows) == 0 {
		return nil, domain.ErrInvalidArgument("empty ltable: cannot compute feature weights")
	}
	if len(rtable.Rows) == 0 {
		return nil, domain.ErrInvalidArgument("empty rtable: cannot compute feature weights")
	}

	lw := weight(ltable)
	rw := weight(rtable)

	type ranked struct {
		index    int
		combined float64
	}
	ranks := make([]ranked, 0, len(lw))
	for i := range lw {
		if i == lkeyIndex {
			continue
		}
		ranks = append(ranks, ranked{index: i, combined: lw[i] * rw[i]})
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].combined > ranks[j].combined })

	n := len(ranks)
	var numSelected int
	switch {
	case n <= 3:
		numSelected = n
	case n <= 5:
		numSelected = 3
	default:
		numSelected = n / 2
	}

	selected := make([]int, numSelected)
	for i := 0; i < numSelected; i++ {
		selected[i] = ranks[i].index
	}
	sort.Ints(selected)
	return selected, nil
}
