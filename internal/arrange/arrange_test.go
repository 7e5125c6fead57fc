package arrange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/tiling"
)

type call struct {
	op     string
	id     platform.WindowID
	bounds platform.Rect
	at     time.Time
}

type fakePlacer struct {
	calls       []call
	restoreErrs map[platform.WindowID]error
	moveErrs    map[platform.WindowID]error
	onMove      func()
}

func (f *fakePlacer) Restore(id platform.WindowID) error {
	f.calls = append(f.calls, call{op: "restore", id: id, at: time.Now()})
	return f.restoreErrs[id]
}

func (f *fakePlacer) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.calls = append(f.calls, call{op: "move", id: id, bounds: bounds, at: time.Now()})
	if f.onMove != nil {
		f.onMove()
	}
	return f.moveErrs[id]
}

func (f *fakePlacer) ops() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

var positions = []tiling.Position{{X: 0, Y: 0}, {X: 110, Y: 0}, {X: 0, Y: 110}}

func TestArrange_RestoresThenMovesInOrder(t *testing.T) {
	p := &fakePlacer{}
	a := New(p, Options{Width: 100, Height: 90})

	outcomes := a.Arrange(context.Background(), []platform.WindowID{1, 2, 3}, positions)
	require.Len(t, outcomes, 3)
	assert.Empty(t, Failed(outcomes))

	assert.Equal(t, []string{"restore", "move", "restore", "move", "restore", "move"}, p.ops())
	assert.Equal(t, platform.Rect{X: 110, Y: 0, Width: 100, Height: 90}, p.calls[3].bounds)
	assert.Equal(t, platform.WindowID(3), p.calls[5].id)
}

func TestArrange_ZipsToShorterList(t *testing.T) {
	p := &fakePlacer{}
	a := New(p, Options{Width: 10, Height: 10})

	outcomes := a.Arrange(context.Background(), []platform.WindowID{1, 2, 3, 4, 5}, positions[:2])
	assert.Len(t, outcomes, 2)

	outcomes = a.Arrange(context.Background(), []platform.WindowID{7}, positions)
	require.Len(t, outcomes, 1)
	assert.Equal(t, positions[0], outcomes[0].Position)
}

func TestArrange_FailureDoesNotAbortRest(t *testing.T) {
	gone := errors.New("invalid window handle")
	p := &fakePlacer{
		restoreErrs: map[platform.WindowID]error{2: gone},
		moveErrs:    map[platform.WindowID]error{3: gone},
	}
	a := New(p, Options{Width: 10, Height: 10})

	outcomes := a.Arrange(context.Background(), []platform.WindowID{1, 2, 3}, positions)
	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)

	var perr *PlacementError
	require.ErrorAs(t, outcomes[1].Err, &perr)
	assert.Equal(t, "restore", perr.Op)
	assert.Equal(t, 1, perr.Index)
	assert.ErrorIs(t, outcomes[1].Err, gone)

	require.ErrorAs(t, outcomes[2].Err, &perr)
	assert.Equal(t, "move", perr.Op)

	// The window whose restore failed is never moved.
	assert.Equal(t, []string{"restore", "move", "restore", "restore", "move"}, p.ops())
	assert.Len(t, Failed(outcomes), 2)
}

func TestArrange_Pacing(t *testing.T) {
	p := &fakePlacer{}
	a := New(p, Options{Width: 10, Height: 10, Pacing: 30 * time.Millisecond})

	start := time.Now()
	a.Arrange(context.Background(), []platform.WindowID{1, 2, 3}, positions)
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestArrange_CancelledMarksRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakePlacer{}
	p.onMove = cancel
	a := New(p, Options{Width: 10, Height: 10, Pacing: time.Hour})

	outcomes := a.Arrange(ctx, []platform.WindowID{1, 2, 3}, positions)
	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, context.Canceled)
	assert.ErrorIs(t, outcomes[2].Err, context.Canceled)
	assert.Equal(t, []string{"restore", "move"}, p.ops())
}

func TestArrange_DeadlineBeforeNextPlacement(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	p := &fakePlacer{}
	a := New(p, Options{Width: 10, Height: 10, Pacing: time.Second})

	outcomes := a.Arrange(ctx, []platform.WindowID{1, 2, 3}, positions)
	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.ErrorIs(t, outcomes[1].Err, context.DeadlineExceeded)
	assert.ErrorIs(t, outcomes[2].Err, context.DeadlineExceeded)
	assert.Len(t, Failed(outcomes), 2)
	assert.Equal(t, []string{"restore", "move"}, p.ops())
}

func TestArrange_Empty(t *testing.T) {
	a := New(&fakePlacer{}, Options{})
	assert.Empty(t, a.Arrange(context.Background(), nil, positions))
}
