package sheetmirror

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCached(t *testing.T) (*CachedSheet, *fakeRemote) {
	t.Helper()
	f := &fakeRemote{getData: copyBlock(initialTestData)}
	s, err := NewCachedSheet(context.Background(), f, "doc-1")
	require.NoError(t, err)
	f.calls = nil
	return s, f
}

func TestNewCachedSheet_EagerFetch(t *testing.T) {
	f := &fakeRemote{getData: copyBlock(initialTestData)}
	s, err := NewCachedSheet(context.Background(), f, "doc-1")
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "get A1:ZZ500", f.calls[0])
	assert.Equal(t, initialTestData, s.Grid().Data())
}

func TestNewCachedSheet_NoDocument(t *testing.T) {
	_, err := NewCachedSheet(context.Background(), &fakeRemote{}, "")
	assert.ErrorIs(t, err, ErrNoRemoteDocument)
}

func TestNewCachedSheet_FetchFailure(t *testing.T) {
	f := &fakeRemote{err: errors.New("transport down")}
	_, err := NewCachedSheet(context.Background(), f, "doc-1")
	assert.Error(t, err)
}

func TestNewCachedSheetByName_UnresolvedName(t *testing.T) {
	loc := &fakeLocator{err: errors.New("listing failed")}
	_, err := NewCachedSheetByName(context.Background(), &fakeRemote{}, loc, "roster")
	assert.ErrorIs(t, err, ErrNoRemoteDocument)
}

func TestCached_OperationsStayLocal(t *testing.T) {
	s, f := newTestCached(t)

	require.NoError(t, s.WriteRange("B1:B3", [][]string{{"A"}, {"B"}, {"C"}}, RowMajor))
	require.NoError(t, s.WriteCellAt(1, 1, "X"))
	require.NoError(t, s.AppendRow([]string{"tail"}))
	require.NoError(t, s.InsertBlankRow(1))
	require.NoError(t, s.DeleteRow(2))
	require.NoError(t, s.SortByColumn(1, true))
	_, err := s.ReadRange("A1:C3", RowMajor)
	require.NoError(t, err)

	assert.Empty(t, f.calls, "cached mode must not touch the remote before Push")
}

func TestCached_WriteThenRead(t *testing.T) {
	s, _ := newTestCached(t)

	require.NoError(t, s.WriteRange("B1:B3", [][]string{{"A"}, {"B"}, {"C"}}, RowMajor))
	assert.Equal(t, "A", s.ReadCellAt(1, 2))
	assert.Equal(t, "B", s.ReadCellAt(2, 2))
	assert.Equal(t, "C", s.ReadCellAt(3, 2))

	col := s.ReadColumn(2)
	assert.Equal(t, []string{"A", "B", "C"}, col[:3])
}

func TestCached_ReadRow(t *testing.T) {
	s, _ := newTestCached(t)
	assert.Equal(t, initialTestData[2], s.ReadRow(3))
}

func TestCached_ReadCellByRef(t *testing.T) {
	s, _ := newTestCached(t)
	v, err := s.ReadCell("B2")
	require.NoError(t, err)
	assert.Equal(t, "Cal A", v)
}

func TestCached_InsertThenDeleteRoundTrip(t *testing.T) {
	s, _ := newTestCached(t)
	before := s.Grid().Rows()

	require.NoError(t, s.InsertBlankRow(1))
	assert.Equal(t, before+1, s.Grid().Rows())
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, s.ReadRow(2))

	require.NoError(t, s.DeleteRow(2))
	assert.Equal(t, before, s.Grid().Rows())
	assert.Equal(t, initialTestData[1], s.ReadRow(2))
}

func TestCached_SortByColumnWithHeader(t *testing.T) {
	s, _ := newTestCached(t)

	require.NoError(t, s.SortByColumn(2, true))
	assert.Equal(t, initialTestData[0], s.ReadRow(1))
	col := s.ReadColumn(2)[1:]
	for i := 1; i < len(col); i++ {
		assert.LessOrEqual(t, col[i-1], col[i])
	}
}

func TestCached_Push(t *testing.T) {
	s, f := newTestCached(t)
	require.NoError(t, s.WriteCellAt(1, 1, "X"))

	require.NoError(t, s.Push(context.Background()))
	require.Len(t, f.calls, 2)
	assert.Equal(t, "clear 6", f.calls[0])
	assert.Equal(t, "update A1:G6", f.calls[1])
	assert.Equal(t, "X", f.lastValues[0][0])
}

func TestCached_PushEmptyGridIsNoop(t *testing.T) {
	s, f := newTestCached(t)
	s.DeleteAll()

	require.NoError(t, s.Push(context.Background()))
	assert.Empty(t, f.calls)
}

func TestCached_PushClearFailureStopsWrite(t *testing.T) {
	s, f := newTestCached(t)
	f.err = errors.New("transport down")

	require.Error(t, s.Push(context.Background()))
	require.Len(t, f.calls, 1)
	assert.Equal(t, "clear 6", f.calls[0])
}

func TestCached_AppendRowColumnMajorUnsupported(t *testing.T) {
	f := &fakeRemote{getData: [][]string{{"a"}}}
	s, err := NewCachedSheet(context.Background(), f, "doc-1", WithOrientation(ColumnMajor))
	require.NoError(t, err)

	assert.ErrorIs(t, s.AppendRow([]string{"x"}), ErrUnsupportedOrientation)
}

func TestCached_DeleteAll(t *testing.T) {
	s, _ := newTestCached(t)
	s.DeleteAll()
	assert.True(t, s.Grid().Empty())
	assert.Equal(t, "", s.ReadCellAt(1, 1))
}
