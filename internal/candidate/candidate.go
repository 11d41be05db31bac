// Package candidate implements the Candidate Indexer: it translates a
// blocker-produced candidate set, expressed as (left-key, right-key) pairs,
// into (left-index, right-index) pairs against the aligned tables.
package candidate

import (
	"blockdebug/internal/domain"
)

// keyIndex builds a key -> row-index map for table, failing with
// *domain.DuplicateKeyError if any key value repeats.
func keyIndex(t *domain.Table) (map[interface{}]int, error) {
	idx := make(map[interface{}]int, len(t.Rows))
	for i, row := range t.Rows {
		k := row[t.Key]
		if _, exists := idx[k]; exists {
			return nil, domain.ErrDuplicateKey("duplicate key found: %v", k)
		}
		idx[k] = i
	}
	return idx, nil
}

// Index builds the per-table key->index maps and translates pairs into a
// set of domain.IndexPair, failing with *domain.UnknownKeyError if a pair
// references a key absent from its table.
func Index(ltable, rtable *domain.Table, pairs []domain.CandidatePair) (map[domain.IndexPair]struct{}, error) {
	lidx, err := keyIndex(ltable)
	if err != nil {
		return nil, err
	}
	ridx, err := keyIndex(rtable)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.IndexPair]struct{}, len(pairs))
	for _, p := range pairs {
		li, ok := lidx[p.LeftKey]
		if !ok {
			return nil, domain.ErrUnknownKey("left key %v not found in ltable", p.LeftKey)
		}
		ri, ok := ridx[p.RightKey]
		if !ok {
			return nil, domain.ErrUnknownKey("right key %v not found in rtable", p.RightKey)
		}
		out[domain.IndexPair{Left: li, Right: ri}] = struct{}{}
	}
	return out, nil
}
