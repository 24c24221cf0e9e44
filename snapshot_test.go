package sheetmirror

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	s, _ := newTestCached(t)
	path := filepath.Join(t.TempDir(), "mirror.xlsx")

	require.NoError(t, s.ExportXLSX(path))

	f := &fakeRemote{getData: [][]string{{"stale"}}}
	other, err := NewCachedSheet(context.Background(), f, "doc-2")
	require.NoError(t, err)
	require.NoError(t, other.ImportXLSX(path, ""))

	assert.Equal(t, s.Grid().Rows(), other.Grid().Rows())
	assert.Equal(t, initialTestData[0], TrimTrailing(other.ReadRow(1)))
	assert.Equal(t, "Cal A", other.ReadCellAt(2, 2))
}

func TestSnapshot_ImportMarksDirty(t *testing.T) {
	s, _ := newTestCached(t)
	path := filepath.Join(t.TempDir(), "mirror.xlsx")
	require.NoError(t, s.ExportXLSX(path))

	f := &fakeRemote{getData: [][]string{{"stale"}}}
	other, err := NewCachedSheet(context.Background(), f, "doc-2")
	require.NoError(t, err)
	require.False(t, other.Dirty())

	require.NoError(t, other.ImportXLSX(path, ""))
	assert.True(t, other.Dirty())
}

func TestSnapshot_ImportMissingFile(t *testing.T) {
	s, _ := newTestCached(t)
	err := s.ImportXLSX(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	assert.Error(t, err)
}

func TestSnapshot_ImportUnknownSheet(t *testing.T) {
	s, _ := newTestCached(t)
	path := filepath.Join(t.TempDir(), "mirror.xlsx")
	require.NoError(t, s.ExportXLSX(path))

	err := s.ImportXLSX(path, "NoSuchSheet")
	assert.Error(t, err)
}
