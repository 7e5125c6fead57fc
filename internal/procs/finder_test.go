package procs

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records []Record
	err     error
	calls   int
}

func (s *fakeSource) Processes() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		s.calls++
		if s.err != nil {
			yield(Record{}, s.err)
			return
		}
		for _, rec := range s.records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func newTree() *fakeSource {
	return &fakeSource{records: []Record{
		{PID: 0, ParentPID: 0, ExecutableName: "[System Process]"},
		{PID: 4, ParentPID: 0, ExecutableName: "System"},
		{PID: 100, ParentPID: 4, ExecutableName: "explorer.exe"},
		{PID: 200, ParentPID: 100, ExecutableName: "Code.exe"},
		{PID: 201, ParentPID: 200, ExecutableName: "Code.exe"},
		{PID: 202, ParentPID: 201, ExecutableName: "Code Helper.exe"},
		{PID: 300, ParentPID: 100, ExecutableName: "notepad.exe"},
		{PID: 400, ParentPID: 100, ExecutableName: "wrapapp.exe"},
	}}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\x\Foo.EXE`, "foo.exe"},
		{"/usr/bin/Firefox", "firefox"},
		{"  notepad  ", "notepad"},
		{`dir/sub\Mixed.exe`, "mixed.exe"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestMatch_CaseAndPathInsensitive(t *testing.T) {
	src := &fakeSource{records: []Record{{PID: 7, ParentPID: 1, ExecutableName: "foo.exe"}}}
	f := NewFinder(src, nil)

	for _, target := range []string{`C:\x\Foo.EXE`, "foo", "FOO", "/opt/foo"} {
		got, err := f.Match(target)
		require.NoError(t, err)
		assert.Equal(t, NewSet(7), got, "target %q", target)
	}
}

func TestMatch_SubstringAlongsideExact(t *testing.T) {
	f := NewFinder(newTree(), nil)

	got, err := f.Match("app")
	require.NoError(t, err)
	assert.Equal(t, NewSet(400), got)

	got, err = f.Match("code")
	require.NoError(t, err)
	assert.Equal(t, NewSet(200, 201, 202), got)
}

func TestMatch_EmptyTargetMatchesNothing(t *testing.T) {
	src := newTree()
	f := NewFinder(src, nil)

	for _, target := range []string{"", "   ", `C:\dir\`} {
		got, err := f.Match(target)
		require.NoError(t, err)
		assert.Empty(t, got, "target %q", target)
	}
	assert.Zero(t, src.calls, "empty target should not take a snapshot")
}

func TestFindByName_NoMatch(t *testing.T) {
	f := NewFinder(newTree(), nil)

	_, err := f.FindByName("calc")
	require.ErrorIs(t, err, ErrNoProcessesMatched)

	got, err := f.FindByName("notepad")
	require.NoError(t, err)
	assert.Equal(t, NewSet(300), got)
}

func TestSnapshotFailureIsTyped(t *testing.T) {
	f := NewFinder(&fakeSource{err: errors.New("access denied")}, nil)

	_, err := f.Match("notepad")
	var serr *SnapshotError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "access denied")

	_, err = f.Descendants(NewSet(1))
	require.ErrorAs(t, err, &serr)

	_, err = f.NameOf(1)
	require.ErrorAs(t, err, &serr)
}

func TestDescendants_ExcludesRoots(t *testing.T) {
	f := NewFinder(newTree(), nil)

	got, err := f.Descendants(NewSet(200))
	require.NoError(t, err)
	assert.Equal(t, NewSet(201, 202), got)

	got, err = f.Descendants(NewSet(100, 201))
	require.NoError(t, err)
	assert.Equal(t, NewSet(200, 202, 300, 400), got)
	assert.False(t, got.Contains(100))
	assert.False(t, got.Contains(201))
}

func TestDescendants_Idempotent(t *testing.T) {
	f := NewFinder(newTree(), nil)
	roots := NewSet(100)

	first, err := f.Descendants(roots)
	require.NoError(t, err)

	closure := roots.Union(first)
	second, err := f.Descendants(closure)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestDescendants_SelfParentedRoot(t *testing.T) {
	f := NewFinder(newTree(), nil)

	got, err := f.Descendants(NewSet(0))
	require.NoError(t, err)
	assert.False(t, got.Contains(0))
	assert.True(t, got.Contains(4))
	assert.True(t, got.Contains(202))
}

func TestDescendants_EmptyRoots(t *testing.T) {
	src := newTree()
	got, err := NewFinder(src, nil).Descendants(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, src.calls)
}

func TestNameOf(t *testing.T) {
	f := NewFinder(newTree(), nil)

	name, err := f.NameOf(300)
	require.NoError(t, err)
	assert.Equal(t, "notepad.exe", name)

	_, err = f.NameOf(9999)
	require.ErrorIs(t, err, ErrProcessNotFound)
}

func TestSetHelpers(t *testing.T) {
	s := NewSet(3, 1)
	s.Add(2)
	assert.Equal(t, []uint32{1, 2, 3}, s.Sorted())
	u := s.Union(NewSet(5))
	assert.Len(t, u, 4)
	assert.Len(t, s, 3)
}
