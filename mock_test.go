package sheetmirror

import (
	"context"
	"fmt"
)

// fakeRemote records every call and serves canned responses. Prime err to
// make every operation fail, or getData to answer the next fetch.
type fakeRemote struct {
	getData [][]string
	err     error

	calls      []string
	lastRange  string
	lastOrient Orientation
	lastValues [][]string
}

func (f *fakeRemote) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeRemote) GetValues(_ context.Context, _, rng string, opts ReadOptions) ([][]string, error) {
	f.record("get %s", rng)
	f.lastRange = rng
	f.lastOrient = opts.Orientation
	if f.err != nil {
		return nil, f.err
	}
	return f.getData, nil
}

func (f *fakeRemote) UpdateValues(_ context.Context, _, rng string, orient Orientation, values [][]string) error {
	f.record("update %s", rng)
	f.lastRange = rng
	f.lastOrient = orient
	f.lastValues = values
	return f.err
}

func (f *fakeRemote) AppendValues(_ context.Context, _ string, values [][]string) error {
	f.record("append")
	f.lastValues = values
	return f.err
}

func (f *fakeRemote) DeleteRows(_ context.Context, _ string, start, end int) error {
	f.record("delete %d:%d", start, end)
	return f.err
}

func (f *fakeRemote) InsertRows(_ context.Context, _ string, start, end int) error {
	f.record("insert %d:%d", start, end)
	return f.err
}

func (f *fakeRemote) SortRows(_ context.Context, _ string, col int, skipHeader bool) error {
	f.record("sort %d header=%t", col, skipHeader)
	return f.err
}

func (f *fakeRemote) ClearRows(_ context.Context, _ string, rows int) error {
	f.record("clear %d", rows)
	return f.err
}

func (f *fakeRemote) FormatHeaderRow(_ context.Context, _ string) error {
	f.record("format-header")
	return f.err
}

func (f *fakeRemote) FormatBold(_ context.Context, _ string, rng Range) error {
	f.record("format-bold %s", rng)
	return f.err
}

// fakeLocator resolves a fixed name table and can create on miss.
type fakeLocator struct {
	byName  map[string]string
	nextID  string
	created []string
	err     error
}

func (f *fakeLocator) Find(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.byName[name], nil
}

func (f *fakeLocator) Create(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, name)
	return f.nextID, nil
}
