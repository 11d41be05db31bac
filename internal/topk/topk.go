// Package topk implements the top-K similarity join with candidate
// exclusion: the algorithmic core of the blocking debugger. It is a
// prefix-event driven priority-queue join over sorted, rarity-first
// token lists, pruned by the Jaccard upper bound implied by the position a
// token occupies within its record.
package topk

import (
	"container/heap"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"blockdebug/internal/domain"
)

// prefixEvent is one (upper-bound, side, record-index, position, token)
// marker popped in descending upper-bound order.
type prefixEvent struct {
	upperBound float64
	side       int // 0 = left, 1 = right
	rec        int
	pos        int
	token      string
}

// eventHeap is a max-heap of prefixEvent ordered by upperBound descending,
// so the next-popped event always carries the loosest still-available
// pruning bound.
type eventHeap []prefixEvent

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].upperBound > h[j].upperBound }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(prefixEvent)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}

// resultHeap is a min-heap of at most K domain.ScoredPair, ordered by
// Similarity ascending, so the current K-th best result is always at index 0.
type resultHeap []domain.ScoredPair

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].Similarity < h[j].Similarity }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(domain.ScoredPair)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// threshold is the Jaccard upper bound implied by matching at position pos
// (0-based) within a record of the given length: 1 - pos/length.
func threshold(pos, length int) float64 {
	return 1 - float64(pos)/float64(length)
}

func generateEvents(lrecords, rrecords [][]string) *eventHeap {
	h := &eventHeap{}
	push := func(records [][]string, side int) {
		for i, rec := range records {
			length := len(rec)
			for j, tok := range rec {
				heap.Push(h, prefixEvent{upperBound: threshold(j, length), side: side, rec: i, pos: j, token: tok})
			}
		}
	}
	push(lrecords, 0)
	push(rrecords, 1)
	return h
}

// jaccard computes the token-set Jaccard similarity of two already-computed
// token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a)+len(b) == 0 {
		return 0
	}
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	inter := 0
	for tok := range small {
		if _, ok := big[tok]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

func toSet(rec []string) map[string]struct{} {
	s := make(map[string]struct{}, len(rec))
	for _, tok := range rec {
		s[tok] = struct{}{}
	}
	return s
}

// joiner holds all state owned by a single Join/JoinParallel call: the event
// heap, the two inverted indexes, the bounded top-K heap, and the compared
// set. This state is entirely call-local, so concurrent Join/JoinParallel
// calls never share or race on it.
type joiner struct {
	lrecords, rrecords [][]string
	lsets, rsets       []map[string]struct{}
	linv, rinv         map[string][]int
	excluded           map[domain.IndexPair]struct{}
	seen               map[domain.IndexPair]struct{}
	top                resultHeap
	k                  int
	mu                 sync.Mutex // guards top and seen; no-op in the sequential path
}

func newJoiner(lrecords, rrecords [][]string, excluded map[domain.IndexPair]struct{}, k int) *joiner {
	return &joiner{
		lrecords: lrecords,
		rrecords: rrecords,
		lsets:    make([]map[string]struct{}, len(lrecords)),
		rsets:    make([]map[string]struct{}, len(rrecords)),
		linv:     make(map[string][]int),
		rinv:     make(map[string][]int),
		excluded: excluded,
		seen:     make(map[domain.IndexPair]struct{}),
		k:        k,
	}
}

func (j *joiner) setFor(left bool, i int) map[string]struct{} {
	if left {
		if j.lsets[i] == nil {
			j.lsets[i] = toSet(j.lrecords[i])
		}
		return j.lsets[i]
	}
	if j.rsets[i] == nil {
		j.rsets[i] = toSet(j.rrecords[i])
	}
	return j.rsets[i]
}

// score computes the pair's similarity without touching shared state — safe
// to call concurrently.
func (j *joiner) score(li, ri int) float64 {
	return jaccard(j.setFor(true, li), j.setFor(false, ri))
}

// admit records a scored pair into seen/top. Callers under JoinParallel must
// hold j.mu; the sequential path calls it directly since nothing else runs
// concurrently.
func (j *joiner) admit(li, ri int, sim float64) {
	p := domain.IndexPair{Left: li, Right: ri}
	if _, ok := j.seen[p]; ok {
		return
	}
	j.seen[p] = struct{}{}

	entry := domain.ScoredPair{Similarity: sim, Left: li, Right: ri}
	if j.top.Len() < j.k {
		heap.Push(&j.top, entry)
	} else if j.top.Len() > 0 && sim > j.top[0].Similarity {
		j.top[0] = entry
		heap.Fix(&j.top, 0)
	}
}

// candidatePairs returns the (left, right) index pairs implied by matching
// ev against the opposite side's inverted index, skipping excluded and
// already-seen pairs, without mutating state.
func (j *joiner) candidatePairs(ev prefixEvent) []domain.IndexPair {
	var others []int
	if ev.side == 0 {
		others = j.rinv[ev.token]
	} else {
		others = j.linv[ev.token]
	}
	if len(others) == 0 {
		return nil
	}
	pairs := make([]domain.IndexPair, 0, len(others))
	for _, o := range others {
		var p domain.IndexPair
		if ev.side == 0 {
			p = domain.IndexPair{Left: ev.rec, Right: o}
		} else {
			p = domain.IndexPair{Left: o, Right: ev.rec}
		}
		if _, excl := j.excluded[p]; excl {
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func (j *joiner) recordEvent(ev prefixEvent) {
	if ev.side == 0 {
		j.linv[ev.token] = append(j.linv[ev.token], ev.rec)
	} else {
		j.rinv[ev.token] = append(j.rinv[ev.token], ev.rec)
	}
}

func (j *joiner) drain() []domain.ScoredPair {
	out := make([]domain.ScoredPair, j.top.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&j.top).(domain.ScoredPair)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Similarity > out[b].Similarity })
	return out
}

// Join runs the single-threaded reference top-K similarity join over
// lrecords/rrecords (already sorted by global token order), excluding any
// pair present in excluded, and returns at most k results ordered by
// similarity descending. This is the §5 synchronous reference
// implementation the contract is defined against.
func Join(lrecords, rrecords [][]string, excluded map[domain.IndexPair]struct{}, k int) []domain.ScoredPair {
	events := generateEvents(lrecords, rrecords)
	j := newJoiner(lrecords, rrecords, excluded, k)

	for events.Len() > 0 {
		if j.top.Len() == k && j.top[0].Similarity >= (*events)[0].upperBound {
			break
		}
		ev := heap.Pop(events).(prefixEvent)

		for _, p := range j.candidatePairs(ev) {
			if _, ok := j.seen[p]; ok {
				continue
			}
			j.admit(p.Left, p.Right, j.score(p.Left, p.Right))
		}
		j.recordEvent(ev)
	}

	return j.drain()
}

// JoinParallel fans pairwise similarity scoring for a popped event's
// candidate pairs out across a bounded worker group
// (golang.org/x/sync/errgroup), while seen/top mutation — and the
// termination check against the event heap's current peek — stay
// serialized on the calling goroutine. Output is identical to Join up to
// tie-break order among equally-scored pairs.
func JoinParallel(lrecords, rrecords [][]string, excluded map[domain.IndexPair]struct{}, k, workers int) []domain.ScoredPair {
	if workers < 2 {
		return Join(lrecords, rrecords, excluded, k)
	}

	events := generateEvents(lrecords, rrecords)
	j := newJoiner(lrecords, rrecords, excluded, k)

	for events.Len() > 0 {
		if j.top.Len() == k && j.top[0].Similarity >= (*events)[0].upperBound {
			break
		}
		ev := heap.Pop(events).(prefixEvent)

		pairs := j.candidatePairs(ev)
		unseen := pairs[:0]
		for _, p := range pairs {
			if _, ok := j.seen[p]; !ok {
				unseen = append(unseen, p)
			}
		}

		if len(unseen) > 0 {
			sims := make([]float64, len(unseen))
			var g errgroup.Group
			g.SetLimit(workers)
			for idx, p := range unseen {
				idx, p := idx, p
				g.Go(func() error {
					sims[idx] = j.score(p.Left, p.Right)
					return nil
				})
			}
			_ = g.Wait() // score() never errors

			j.mu.Lock()
			for idx, p := range unseen {
				j.admit(p.Left, p.Right, sims[idx])
			}
			j.mu.Unlock()
		}

		j.recordEvent(ev)
	}

	return j.drain()
}
