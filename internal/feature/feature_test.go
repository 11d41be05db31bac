package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdebug/internal/domain"
)

func mkTable(cols []string, rows []domain.Record) *domain.Table {
	return &domain.Table{Columns: cols, Rows: rows}
}

func TestSelect_FewColumnsSelectsAll(t *testing.T) {
	l := mkTable([]string{"id", "name", "city"}, []domain.Record{
		{"id": 1, "name": "alan", "city": "london"},
		{"id": 2, "name": "marie", "city": "paris"},
	})
	r := mkTable([]string{"id", "name", "city"}, []domain.Record{
		{"id": 10, "name": "alan", "city": "london"},
		{"id": 11, "name": "isaac", "city": "york"},
	})

	selected, err := Select(l, r, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, selected)
}

func TestSelect_SixOrMoreTakesHalf(t *testing.T) {
	cols := []string{"id", "a", "b", "c", "d", "e", "f"}
	rows := func(offset int) []domain.Record {
		return []domain.Record{
			{"id": offset, "a": "x1", "b": "y1", "c": "z1", "d": "w1", "e": "v1", "f": "u1"},
			{"id": offset + 1, "a": "x2", "b": "y2", "c": "z2", "d": "w2", "e": "v2", "f": "u2"},
		}
	}
	l := mkTable(cols, rows(1))
	r := mkTable(cols, rows(10))

	selected, err := Select(l, r, 0)
	require.NoError(t, err)
	assert.Len(t, selected, 3) // 6 non-key columns -> floor(6/2) = 3
	for i := 1; i < len(selected); i++ {
		assert.Less(t, selected[i-1], selected[i]) // ascending by original index
	}
}

func TestSelect_EmptyTableErrors(t *testing.T) {
	l := mkTable([]string{"id", "name"}, nil)
	r := mkTable([]string{"id", "name"}, []domain.Record{{"id": 1, "name": "a"}})

	_, err := Select(l, r, 0)
	require.Error(t, err)
}

func TestSelect_ColumnCountMismatch(t *testing.T) {
	l := mkTable([]string{"id", "name"}, []domain.Record{{"id": 1, "name": "a"}})
	r := mkTable([]string{"id"}, []domain.Record{{"id": 1}})

	_, err := Select(l, r, 0)
	require.Error(t, err)
	var e *domain.SchemaMismatchError
	require.ErrorAs(t, err, &e)
}

func TestWeight_EmptyAndNullValuesScoreZero(t *testing.T) {
	tbl := mkTable([]string{"a"}, []domain.Record{
		{"a": ""}, {"a": nil}, {"a": "x"},
	})
	w := weight(tbl)
	require.Len(t, w, 1)
	// 1 of 3 rows non-empty, and that 1 row is a distinct value: 1/3 + 1/1
	assert.InDelta(t, 1.0/3.0+1.0, w[0], 1e-9)
}
