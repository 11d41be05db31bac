// Package blocker orchestrates the blocking-debugger pipeline: schema
// alignment, feature selection, tokenization, token ordering, candidate
// indexing, and the top-K similarity join, in that order.
package blocker

import (
	"context"
	"log/slog"

	"blockdebug/internal/align"
	"blockdebug/internal/candidate"
	"blockdebug/internal/domain"
	"blockdebug/internal/feature"
	"blockdebug/internal/tokenize"
	"blockdebug/internal/topk"
)

// Options controls one DebugBlock invocation.
type Options struct {
	// Correspondence is the user-supplied attribute correspondence. May be
	// nil/empty, in which case DefaultCorrespondence is consulted.
	Correspondence domain.Correspondence

	// DefaultCorrespondence builds a correspondence when Correspondence is
	// empty; this is an external schema collaborator kept out of the core's
	// scope.
	DefaultCorrespondence func(ltable, rtable *domain.Table) domain.Correspondence

	// K is the requested output size; must be > 0.
	K int

	// Parallel, when > 1, runs the join with topk.JoinParallel using this
	// many workers instead of the single-threaded topk.Join reference path.
	Parallel int

	// Logger receives one Debug-level line per pipeline stage. Nil uses
	// slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of one DebugBlock call: the selected feature
// columns (for callers that want to explain the run) and the ranked pairs.
type Result struct {
	SelectedColumns []string
	Pairs           []domain.ScoredPair
}

// DebugBlock runs the full pipeline over ltable and rtable, excluding
// candidates, and returns at most opts.K ranked pairs.
func DebugBlock(_ context.Context, ltable, rtable *domain.Table, candidates []domain.CandidatePair, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	if opts.K <= 0 {
		return nil, domain.ErrInvalidArgument("output size K must be > 0, got %d", opts.K)
	}
	if len(ltable.Rows) == 0 {
		return nil, domain.ErrInvalidArgument("ltable is empty")
	}
	if len(rtable.Rows) == 0 {
		return nil, domain.ErrInvalidArgument("rtable is empty")
	}

	corres, lfiltered, rfiltered, err := align.Align(ltable, rtable, ltable.Key, rtable.Key, opts.Correspondence, opts.DefaultCorrespondence)
	if err != nil {
		return nil, err
	}
	log.Debug("blocker: aligned schema", "pairs", len(corres))

	lkeyIndex := -1
	for i, c := range lfiltered.Columns {
		if c == ltable.Key {
			lkeyIndex = i
			break
		}
	}

	selected, err := feature.Select(lfiltered, rfiltered, lkeyIndex)
	if err != nil {
		return nil, err
	}

	selectedCols := make([]string, len(selected))
	for i, idx := range selected {
		selectedCols[i] = lfiltered.Columns[idx]
	}
	log.Debug("blocker: selected features", "columns", selectedCols)

	lrecords, err := tokenize.Tokenize(lfiltered, selectedCols)
	if err != nil {
		return nil, err
	}
	rselectedCols := make([]string, len(selected))
	for i, idx := range selected {
		rselectedCols[i] = rfiltered.Columns[idx]
	}
	rrecords, err := tokenize.Tokenize(rfiltered, rselectedCols)
	if err != nil {
		return nil, err
	}

	order := tokenize.BuildOrder(lrecords, rrecords)
	tokenize.OrderTokens(lrecords, order)
	tokenize.OrderTokens(rrecords, order)
	log.Debug("blocker: built token order", "distinct_tokens", len(order))

	excluded, err := candidate.Index(ltable, rtable, candidates)
	if err != nil {
		return nil, err
	}
	log.Debug("blocker: indexed candidates", "excluded_pairs", len(excluded))

	var pairs []domain.ScoredPair
	if opts.Parallel > 1 {
		pairs = topk.JoinParallel(lrecords, rrecords, excluded, opts.K, opts.Parallel)
	} else {
		pairs = topk.Join(lrecords, rrecords, excluded, opts.K)
	}
	log.Debug("blocker: join complete", "results", len(pairs))

	return &Result{SelectedColumns: selectedCols, Pairs: pairs}, nil
}
