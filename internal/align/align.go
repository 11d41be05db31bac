// Package align implements the Schema Aligner: it validates and completes an
// attribute correspondence between two tables, filters it to the pairs worth
// tokenizing, and narrows both tables down to the aligned columns.
package align

import (
	"blockdebug/internal/domain"
)

// isNumeric reports whether v's dynamic type is one of the numeric families
// the tokenizer stringifies rather than splits on whitespace.
func isNumeric(v domain.Value) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// columnIsNumeric reports whether every non-nil value observed in column col
// across table's rows is numeric. An all-nil or empty column is not
// considered numeric (there is nothing to stringify specially).
func columnIsNumeric(t *domain.Table, col string) bool {
	seenAny := false
	for _, row := range t.Rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		seenAny = true
		if !isNumeric(v) {
			return false
		}
	}
	return seenAny
}

// Align validates corres (which may be empty/nil) against ltable/rtable,
// fills in a default correspondence when corres is empty, ensures the key
// pair is present, filters out pairs that are numeric on both sides, and
// returns the filtered correspondence together with ltable/rtable narrowed
// to just the aligned columns (positionally aligned: filtered[i].Left is
// lfiltered.Columns[i], filtered[i].Right is rfiltered.Columns[i]).
//
// defaultCorres is consulted only when corres is empty; it is an external
// schema collaborator the caller supplies, kept out of the core's scope.
func Align(ltable, rtable *domain.Table, lkey, rkey string, corres domain.Correspondence,
	defaultCorres func(l, r *domain.Table) domain.Correspondence) (domain.Correspondence, *domain.Table, *domain.Table, error) {

	if err := checkCorrespondence(ltable, rtable, corres); err != nil {
		return nil, nil, nil, err
	}

	resolved := make(domain.Correspondence, 0, len(corres)+1)
	if len(corres) == 0 {
		if defaultCorres != nil {
			resolved = append(resolved, defaultCorres(ltable, rtable)...)
		}
		if len(resolved) == 0 {
			return nil, nil, nil, domain.ErrEmptyCorrespondence(
				"the field correspondence list is empty after filtering: please verify your correspondence list, or check if each field is of numeric type")
		}
	} else {
		resolved = append(resolved, corres...)
	}

	keyPair := domain.AttrPair{Left: lkey, Right: rkey}
	hasKey := false
	for _, p := range resolved {
		if p == keyPair {
			hasKey = true
			break
		}
	}
	if !hasKey {
		resolved = append(resolved, keyPair)
	}

	filtered := make(domain.Correspondence, 0, len(resolved))
	for _, p := range resolved {
		if p == keyPair {
			filtered = append(filtered, p)
			continue
		}
		if columnIsNumeric(ltable, p.Left) && columnIsNumeric(rtable, p.Right) {
			continue // both sides numeric: drop, textual-vs-numeric pairs survive
		}
		filtered = append(filtered, p)
	}

	if len(filtered) == 1 && filtered[0] == keyPair {
		return nil, nil, nil, domain.ErrEmptyCorrespondence(
			"the field correspondence list is empty after filtering: please verify your correspondence list, or check if each field is of numeric type")
	}

	lfiltered := narrow(ltable, lkey, attrSide(filtered, true))
	rfiltered := narrow(rtable, rkey, attrSide(filtered, false))

	if len(lfiltered.Columns) != len(rfiltered.Columns) {
		return nil, nil, nil, domain.ErrSchemaMismatch(
			"aligned ltable has %d columns but aligned rtable has %d", len(lfiltered.Columns), len(rfiltered.Columns))
	}

	return filtered, lfiltered, rfiltered, nil
}

func attrSide(corres domain.Correspondence, left bool) []string {
	cols := make([]string, len(corres))
	for i, p := range corres {
		if left {
			cols[i] = p.Left
		} else {
			cols[i] = p.Right
		}
	}
	return cols
}

// narrow projects table down to cols (in order), carrying key through
// unchanged even though it is also one of cols.
func narrow(table *domain.Table, key string, cols []string) *domain.Table {
	rows := make([]domain.Record, len(table.Rows))
	for i, row := range table.Rows {
		nr := make(domain.Record, len(cols))
		for _, c := range cols {
			nr[c] = row[c]
		}
		rows[i] = nr
	}
	return &domain.Table{Columns: cols, Rows: rows, Key: key}
}

func checkCorrespondence(ltable, rtable *domain.Table, corres domain.Correspondence) error {
	for _, p := range corres {
		if p.Left == "" || p.Right == "" {
			return domain.ErrMalformedCorrespondence("correspondence pair (%q, %q) is not a well-formed (left, right) column pair", p.Left, p.Right)
		}
		if !ltable.Column(p.Left) {
			return domain.ErrUnknownColumn("column %q is not present in ltable", p.Left)
		}
		if !rtable.Column(p.Right) {
			return domain.ErrUnknownColumn("column %q is not present in rtable", p.Right)
		}
	}
	return nil
}
