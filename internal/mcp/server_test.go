package mcp

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winarrange/internal/config"
	"github.com/1broseidon/winarrange/internal/engine"
	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
	"github.com/1broseidon/winarrange/internal/tiling"
)

type fakeBackend struct {
	records []procs.Record
	owners  map[platform.WindowID]uint32
	order   []platform.WindowID
	cursor  platform.Point
	moved   []platform.WindowID
	moveErr map[platform.WindowID]error
}

func (b *fakeBackend) Processes() iter.Seq2[procs.Record, error] {
	return func(yield func(procs.Record, error) bool) {
		for _, r := range b.records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (b *fakeBackend) Windows() iter.Seq2[platform.WindowID, error] {
	return func(yield func(platform.WindowID, error) bool) {
		for _, id := range b.order {
			if !yield(id, nil) {
				return
			}
		}
	}
}

func (b *fakeBackend) IsMainWindow(platform.WindowID) bool { return true }

func (b *fakeBackend) WindowPID(id platform.WindowID) (uint32, error) {
	pid, ok := b.owners[id]
	if !ok {
		return 0, errors.New("gone")
	}
	return pid, nil
}

func (b *fakeBackend) Restore(platform.WindowID) error { return nil }

func (b *fakeBackend) MoveResize(id platform.WindowID, _ platform.Rect) error {
	b.moved = append(b.moved, id)
	return b.moveErr[id]
}

func (b *fakeBackend) CursorPosition() (platform.Point, error) { return b.cursor, nil }

func (b *fakeBackend) WorkArea() (platform.WorkArea, error) {
	return platform.WorkArea{Right: 1920, Bottom: 1080}, nil
}

func (b *fakeBackend) Close() error { return nil }

func newTestServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{
		records: []procs.Record{
			{PID: 10, ParentPID: 1, ExecutableName: "notepad.exe"},
			{PID: 11, ParentPID: 1, ExecutableName: "notepad.exe"},
			{PID: 12, ParentPID: 11, ExecutableName: "helper"},
		},
		owners: map[platform.WindowID]uint32{100: 10, 101: 11, 102: 12},
		order:  []platform.WindowID{100, 101, 102},
		cursor: platform.Point{X: 50, Y: 60},
	}
	cfg := config.DefaultConfig()
	cfg.Discovery.MaxAttempts = 1
	cfg.Discovery.Interval = 0
	return NewServer(engine.New(b, engine.Options{}), cfg, nil), b
}

func intPtr(v int) *int { return &v }

func TestFindProcessesAndWindows(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, pids, err := s.handleFindProcesses(ctx, nil, FindProcessesInput{Name: "NOTEPAD"})
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 11}, pids.PIDs)

	_, desc, err := s.handleFindDescendants(ctx, nil, FindDescendantsInput{PIDs: pids.PIDs})
	require.NoError(t, err)
	assert.Equal(t, []uint32{12}, desc.PIDs)

	_, wins, err := s.handleFindWindows(ctx, nil, FindWindowsInput{PIDs: []uint32{11, 12}})
	require.NoError(t, err)
	assert.Equal(t, []uint64{101, 102}, wins.Windows)

	_, _, err = s.handleFindProcesses(ctx, nil, FindProcessesInput{Name: "missing"})
	require.ErrorIs(t, err, procs.ErrNoProcessesMatched)
}

func TestAwaitWindow(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleAwaitWindow(context.Background(), nil, AwaitWindowInput{PID: 11})
	require.NoError(t, err)
	assert.Equal(t, uint64(101), out.Window)

	_, _, err = s.handleAwaitWindow(context.Background(), nil, AwaitWindowInput{PID: 99})
	require.Error(t, err)

	_, _, err = s.handleAwaitWindow(context.Background(), nil, AwaitWindowInput{PID: 11, MaxAttempts: intPtr(0)})
	require.ErrorContains(t, err, "max_attempts")
}

func TestPlanGrid(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handlePlanGrid(context.Background(), nil, PlanGridInput{
		GridInput: GridInput{
			WindowWidth:       intPtr(100),
			WindowHeight:      intPtr(100),
			MaxHorizontal:     intPtr(2),
			MaxVertical:       intPtr(3),
			HorizontalSpacing: intPtr(10),
			VerticalSpacing:   intPtr(10),
		},
		Count: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Dropped)
	require.Len(t, out.Positions, 6)
	assert.Equal(t, Position{X: 110, Y: 220}, out.Positions[5])

	_, _, err = s.handlePlanGrid(context.Background(), nil, PlanGridInput{GridInput: GridInput{MaxVertical: intPtr(0)}, Count: 1})
	require.ErrorIs(t, err, tiling.ErrInvalidConfig)

	_, _, err = s.handlePlanGrid(context.Background(), nil, PlanGridInput{GridInput: GridInput{Profile: "nope"}, Count: 1})
	require.Error(t, err)
}

func TestResolveGrid_AutoKeepsExplicitStacks(t *testing.T) {
	s, _ := newTestServer(t)

	grid, err := s.resolveGrid(GridInput{Auto: true}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, grid.MaxHorizontal)
	assert.Equal(t, 2, grid.MaxVertical)

	grid, err = s.resolveGrid(GridInput{Auto: true, MaxHorizontal: intPtr(5)}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, grid.MaxHorizontal)
	assert.Equal(t, 2, grid.MaxVertical)

	grid, err = s.resolveGrid(GridInput{Auto: true, MaxVertical: intPtr(1)}, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, grid.MaxHorizontal)
	assert.Equal(t, 1, grid.MaxVertical)
}

func TestArrangeProgram(t *testing.T) {
	s, b := newTestServer(t)
	b.moveErr = map[platform.WindowID]error{101: errors.New("access denied")}

	_, out, err := s.handleArrangeProgram(context.Background(), nil, ArrangeProgramInput{
		GridInput: GridInput{Profile: "large", Auto: true},
		Program:   "notepad",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Found)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Placements, 2)
	assert.Equal(t, Placement{Index: 0, Window: 100, X: 50, Y: 60}, out.Placements[0])
	assert.Equal(t, 860, out.Placements[1].X)
	assert.Contains(t, out.Placements[1].Error, "access denied")
	assert.Equal(t, []platform.WindowID{100, 101}, b.moved)
}

func TestArrangeProgram_Origin(t *testing.T) {
	s, _ := newTestServer(t)

	_, _, err := s.handleArrangeProgram(context.Background(), nil, ArrangeProgramInput{
		Program: "notepad",
		OriginX: intPtr(5000),
		OriginY: intPtr(0),
	})
	require.ErrorIs(t, err, tiling.ErrInvalidPosition)

	_, _, err = s.handleArrangeProgram(context.Background(), nil, ArrangeProgramInput{
		Program: "notepad",
		OriginX: intPtr(5),
	})
	require.ErrorContains(t, err, "together")

	_, out, err := s.handleArrangeProgram(context.Background(), nil, ArrangeProgramInput{
		Program:     "notepad",
		OriginX:     intPtr(0),
		OriginY:     intPtr(0),
		Descendants: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Found)
}
