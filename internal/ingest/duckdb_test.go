package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDBSource_LoadMaterializesRows(t *testing.T) {
	src := DuckDBSource{
		DSN:   ":memory:",
		Query: "SELECT * FROM (VALUES (1, 'alan'), (2, 'marie')) AS t(id, name)",
		Key:   "id",
	}

	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "alan", tbl.Rows[0]["name"])
}

func TestDuckDBSource_MissingKeyColumnRejected(t *testing.T) {
	src := DuckDBSource{
		DSN:   ":memory:",
		Query: "SELECT * FROM (VALUES (1)) AS t(a)",
		Key:   "id",
	}

	_, err := src.Load(context.Background())
	require.Error(t, err)
}
