package sheetmirror

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterSheet(t *testing.T) *CachedSheet {
	t.Helper()
	f := &fakeRemote{getData: copyBlock(initialTestData)}
	s, err := NewCachedSheet(context.Background(), f, "doc-1", WithHeaderRow())
	require.NoError(t, err)
	return s
}

func TestMatchRows_ByHeaderColumn(t *testing.T) {
	s := newFilterSheet(t)

	rows, err := s.MatchRows(`Calendar == "Cal A"`)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, rows)
}

func TestMatchRows_SkipsHeaderRow(t *testing.T) {
	s := newFilterSheet(t)

	rows, err := s.MatchRows(`Calendar != ""`)
	require.NoError(t, err)
	assert.NotContains(t, rows, 1)
	assert.Len(t, rows, 5)
}

func TestMatchRows_RowAndRownum(t *testing.T) {
	s := newFilterSheet(t)

	rows, err := s.MatchRows(`rownum > 4 && row[1] == "Cal B"`)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, rows)
}

func TestMatchRows_NoHeaderScansAllRows(t *testing.T) {
	f := &fakeRemote{getData: [][]string{{"a"}, {"b"}, {"a"}}}
	s, err := NewCachedSheet(context.Background(), f, "doc-1")
	require.NoError(t, err)

	rows, err := s.MatchRows(`row[0] == "a"`)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, rows)
}

func TestMatchRows_NoMatches(t *testing.T) {
	s := newFilterSheet(t)

	rows, err := s.MatchRows(`Calendar == "Cal Z"`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMatchRows_BadPredicate(t *testing.T) {
	s := newFilterSheet(t)

	_, err := s.MatchRows(`Calendar ==`)
	assert.Error(t, err)
}

func TestMatchRows_NonBoolPredicate(t *testing.T) {
	s := newFilterSheet(t)

	_, err := s.MatchRows(`Calendar`)
	assert.ErrorContains(t, err, "expected bool")
}
