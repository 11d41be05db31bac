package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdebug/internal/domain"
)

func tables() (*domain.Table, *domain.Table) {
	l := &domain.Table{
		Key:     "id",
		Columns: []string{"id", "name"},
		Rows: []domain.Record{
			{"id": 1, "name": "alan"},
			{"id": 2, "name": "marie"},
		},
	}
	r := &domain.Table{
		Key:     "id",
		Columns: []string{"id", "name"},
		Rows: []domain.Record{
			{"id": 10, "name": "alan"},
		},
	}
	return l, r
}

func TestAssemble_MapsIndexPairsBackToRows(t *testing.T) {
	l, r := tables()
	pairs := []domain.ScoredPair{
		{Similarity: 1.0, Left: 0, Right: 0},
		{Similarity: 0.2, Left: 1, Right: 0},
	}

	rows := Assemble(pairs, l, r)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Rank)
	assert.Equal(t, 1, rows[0].LeftKey)
	assert.Equal(t, 10, rows[0].RightKey)
	assert.Equal(t, "alan", rows[0].Left["name"])

	assert.Equal(t, 1, rows[1].Rank)
	assert.Equal(t, 2, rows[1].LeftKey)
}

func TestAssemble_EmptyPairsYieldsEmptyRows(t *testing.T) {
	l, r := tables()
	rows := Assemble(nil, l, r)
	assert.Empty(t, rows)
}

func TestFlatten_PrefixesColumnsAndIncludesRankSimilarity(t *testing.T) {
	l, r := tables()
	rows := Assemble([]domain.ScoredPair{{Similarity: 0.5, Left: 0, Right: 0}}, l, r)

	flat := Flatten(rows, "l_", "r_")
	require.Len(t, flat, 1)
	assert.Equal(t, 0, flat[0]["rank"])
	assert.Equal(t, 0.5, flat[0]["similarity"])
	assert.Equal(t, 1, flat[0]["l_id"])
	assert.Equal(t, "alan", flat[0]["l_name"])
	assert.Equal(t, 10, flat[0]["r_id"])
	assert.Equal(t, "alan", flat[0]["r_name"])
}
