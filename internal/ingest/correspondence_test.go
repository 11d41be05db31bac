package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockdebug/internal/domain"
)

func TestDefaultCorrespondence_PairsSameNameCaseInsensitive(t *testing.T) {
	l := &domain.Table{Columns: []string{"ID", "Name", "City"}}
	r := &domain.Table{Columns: []string{"id", "name", "town"}}

	corres := DefaultCorrespondence(l, r)
	assert.Contains(t, corres, domain.AttrPair{Left: "ID", Right: "id"})
	assert.Contains(t, corres, domain.AttrPair{Left: "Name", Right: "name"})
	assert.NotContains(t, corres, domain.AttrPair{Left: "City", Right: "town"})
}

func TestDefaultCorrespondence_NoOverlapYieldsEmpty(t *testing.T) {
	l := &domain.Table{Columns: []string{"a"}}
	r := &domain.Table{Columns: []string{"b"}}

	corres := DefaultCorrespondence(l, r)
	assert.Empty(t, corres)
}

func TestLoadCorrespondenceFile_HappyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corres.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  - left: name\n    right: full_name\n  - left: city\n    right: town\n"), 0o644))

	corres, err := LoadCorrespondenceFile(path)
	require.NoError(t, err)
	require.Len(t, corres, 2)
	assert.Equal(t, domain.AttrPair{Left: "name", Right: "full_name"}, corres[0])
}

func TestLoadCorrespondenceFile_BlankColumnRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corres.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  - left: \"\"\n    right: full_name\n"), 0o644))

	_, err := LoadCorrespondenceFile(path)
	require.Error(t, err)
	var e *domain.MalformedCorrespondenceError
	require.ErrorAs(t, err, &e)
}

func TestLoadCorrespondenceFile_MissingFileRejected(t *testing.T) {
	_, err := LoadCorrespondenceFile("/nonexistent/corres.yaml")
	require.Error(t, err)
	var e *domain.InvalidArgumentError
	require.ErrorAs(t, err, &e)
}
