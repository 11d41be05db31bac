package topk

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdebug/internal/domain"
)

func TestJoin_SimpleExactMatch(t *testing.T) {
	lrecords := [][]string{{"a", "b"}}
	rrecords := [][]string{{"a", "b"}, {"c", "d"}}

	out := Join(lrecords, rrecords, nil, 1)
	require.Len(t, out, 1)
	assert.Equal(t, domain.IndexPair{Left: 0, Right: 0}, domain.IndexPair{Left: out[0].Left, Right: out[0].Right})
	assert.InDelta(t, 1.0, out[0].Similarity, 1e-9)
}

func TestJoin_ExclusionSkipsCandidate(t *testing.T) {
	lrecords := [][]string{{"a", "b"}}
	rrecords := [][]string{{"a", "b"}, {"a", "c"}}

	excluded := map[domain.IndexPair]struct{}{{Left: 0, Right: 0}: {}}

	out := Join(lrecords, rrecords, excluded, 1)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Left)
	assert.Equal(t, 1, out[0].Right)
	assert.InDelta(t, 1.0/3.0, out[0].Similarity, 1e-9)
}

func TestJoin_MultiTokenJaccardPointSix(t *testing.T) {
	// A = {a,b,c,d}, B = {a,b,c,e}: intersection 3, union 5 -> 0.6
	lrecords := [][]string{{"a", "b", "c", "d"}}
	rrecords := [][]string{{"a", "b", "c", "e"}}

	out := Join(lrecords, rrecords, nil, 1)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.6, out[0].Similarity, 1e-9)
}

func TestJoin_DuplicateTokenWithinRecordJaccardPointFive(t *testing.T) {
	// left tokenized from "foo foo bar baz" -> {foo, foo_1, bar, baz}
	// right tokenized from "foo bar" -> {foo, bar}
	// intersection {foo,bar} = 2, union = 4 -> 0.5
	lrecords := [][]string{{"foo", "foo_1", "bar", "baz"}}
	rrecords := [][]string{{"foo", "bar"}}

	out := Join(lrecords, rrecords, nil, 1)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.5, out[0].Similarity, 1e-9)
}

func TestJoin_KLargerThanUniverseReturnsAllAvailable(t *testing.T) {
	lrecords := [][]string{{"a", "b"}}
	rrecords := [][]string{{"a", "b"}}

	out := Join(lrecords, rrecords, nil, 5)
	require.Len(t, out, 1)
}

func TestJoin_ResultsMonotoneNonIncreasing(t *testing.T) {
	lrecords := [][]string{{"a", "b", "c"}}
	rrecords := [][]string{
		{"a", "b", "c"}, // 1.0
		{"a", "b", "d"}, // 2/4 = 0.5
		{"a", "x", "y"}, // 1/5 = 0.2
	}

	out := Join(lrecords, rrecords, nil, 3)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Similarity, out[i].Similarity)
	}
}

func TestJoin_ResultLengthNeverExceedsK(t *testing.T) {
	lrecords := [][]string{{"a"}, {"b"}, {"c"}}
	rrecords := [][]string{{"a"}, {"b"}, {"c"}}

	out := Join(lrecords, rrecords, nil, 2)
	assert.LessOrEqual(t, len(out), 2)
}

func TestJoin_ExcludedPairsNeverAppear(t *testing.T) {
	lrecords := [][]string{{"a", "b"}, {"a", "b"}}
	rrecords := [][]string{{"a", "b"}}

	excluded := map[domain.IndexPair]struct{}{
		{Left: 0, Right: 0}: {},
	}

	out := Join(lrecords, rrecords, excluded, 5)
	for _, p := range out {
		_, isExcluded := excluded[domain.IndexPair{Left: p.Left, Right: p.Right}]
		assert.False(t, isExcluded)
	}
}

func TestJoinParallel_MatchesSequentialResultSet(t *testing.T) {
	lrecords := [][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"a", "e", "g"},
	}
	rrecords := [][]string{
		{"a", "b", "c"},
		{"a", "e", "h"},
		{"d", "f", "x"},
	}

	seq := Join(lrecords, rrecords, nil, 3)
	par := JoinParallel(lrecords, rrecords, nil, 3, 4)

	require.Equal(t, len(seq), len(par))

	norm := func(pairs []domain.ScoredPair) []domain.IndexPair {
		out := make([]domain.IndexPair, len(pairs))
		for i, p := range pairs {
			out[i] = domain.IndexPair{Left: p.Left, Right: p.Right}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Left != out[j].Left {
				return out[i].Left < out[j].Left
			}
			return out[i].Right < out[j].Right
		})
		return out
	}

	assert.Equal(t, norm(seq), norm(par))
}

func TestJoinParallel_FallsBackToSequentialForSingleWorker(t *testing.T) {
	lrecords := [][]string{{"a", "b"}}
	rrecords := [][]string{{"a", "b"}}

	out := JoinParallel(lrecords, rrecords, nil, 1, 1)
	require.Len(t, out, 1)
	assert.InDelta(t, 1.0, out[0].Similarity, 1e-9)
}

func TestThreshold_FirstPositionIsOne(t *testing.T) {
	assert.InDelta(t, 1.0, threshold(0, 4), 1e-9)
}

func TestThreshold_DecreasesWithPosition(t *testing.T) {
	assert.Less(t, threshold(2, 4), threshold(0, 4))
}

func TestJaccard_EmptySetsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestJaccard_IdenticalSetsAreOne(t *testing.T) {
	a := toSet([]string{"x", "y"})
	b := toSet([]string{"x", "y"})
	assert.InDelta(t, 1.0, jaccard(a, b), 1e-9)
}
