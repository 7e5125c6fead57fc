// Package arrange restores and moves windows onto planned grid cells.
package arrange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/1broseidon/winarrange/internal/actionlog"
	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/tiling"
)

// DefaultPacing is the delay between consecutive placements. Some window
// managers drop a move that arrives while the previous one is animating.
const DefaultPacing = 500 * time.Millisecond

// Placer is the subset of the window system that arranging needs.
type Placer interface {
	Restore(id platform.WindowID) error
	MoveResize(id platform.WindowID, bounds platform.Rect) error
}

// PlacementError reports a failed restore or move of one window.
type PlacementError struct {
	Index  int
	Window platform.WindowID
	Op     string
	Err    error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("window %d (0x%x): %s failed: %v", e.Index, uintptr(e.Window), e.Op, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Outcome is the result of placing the window at Index.
type Outcome struct {
	Index    int
	Window   platform.WindowID
	Position tiling.Position
	Err      error
}

// Options configures an Arranger.
type Options struct {
	Width  int
	Height int
	// Pacing is the minimum gap between placements. Zero disables it.
	Pacing  time.Duration
	Logger  *slog.Logger
	Actions *actionlog.Logger
}

// Arranger places windows one at a time in list order.
type Arranger struct {
	placer  Placer
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New returns an Arranger that sizes every window to opts.Width x
// opts.Height.
func New(placer Placer, opts Options) *Arranger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := rate.Inf
	if opts.Pacing > 0 {
		limit = rate.Every(opts.Pacing)
	}
	return &Arranger{
		placer:  placer,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Arrange restores windows[i] and moves it to positions[i]. The lists are
// zipped to the shorter length. A failure on one window never aborts the
// rest; it is reported in that window's Outcome as a *PlacementError. When
// ctx is cancelled, or its deadline would pass before the next placement,
// the windows not yet attempted report the context error.
func (a *Arranger) Arrange(ctx context.Context, windows []platform.WindowID, positions []tiling.Position) []Outcome {
	n := min(len(windows), len(positions))
	if len(windows) != len(positions) {
		a.logger.Debug("window and position counts differ", "windows", len(windows), "positions", len(positions), "placing", n)
	}

	outcomes := make([]Outcome, n)
	for i := range n {
		outcomes[i] = Outcome{Index: i, Window: windows[i], Position: positions[i]}
		if err := a.limiter.Wait(ctx); err != nil {
			err = notAttempted(ctx, err)
			for j := i; j < n; j++ {
				outcomes[j] = Outcome{Index: j, Window: windows[j], Position: positions[j], Err: err}
			}
			a.logger.Warn("arrangement stopped", "placed", i, "remaining", n-i, "error", err)
			break
		}
		outcomes[i].Err = a.place(i, windows[i], positions[i])
	}
	return outcomes
}

// notAttempted explains why the placement loop stopped. The limiter gives
// up before a deadline that the next placement would overrun, while ctx
// itself is still live.
func notAttempted(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: next placement is past the deadline", context.DeadlineExceeded)
	}
	return fmt.Errorf("placement pacing: %w", err)
}

func (a *Arranger) place(index int, id platform.WindowID, pos tiling.Position) error {
	if err := a.placer.Restore(id); err != nil {
		return a.fail(index, id, pos, "restore", err)
	}

	bounds := platform.Rect{X: pos.X, Y: pos.Y, Width: a.opts.Width, Height: a.opts.Height}
	if err := a.placer.MoveResize(id, bounds); err != nil {
		return a.fail(index, id, pos, "move", err)
	}

	a.logger.Debug("placed window", "index", index, "window", uintptr(id), "x", pos.X, "y", pos.Y)
	a.opts.Actions.Log(actionlog.ActionPlace, index, map[string]any{
		"window": fmt.Sprintf("0x%x", uintptr(id)),
		"x":      pos.X,
		"y":      pos.Y,
	})
	return nil
}

func (a *Arranger) fail(index int, id platform.WindowID, pos tiling.Position, op string, err error) error {
	perr := &PlacementError{Index: index, Window: id, Op: op, Err: err}
	a.logger.Warn("placement failed", "index", index, "window", uintptr(id), "op", op, "error", err)
	a.opts.Actions.Log(actionlog.ActionPlaceFail, index, map[string]any{
		"window": fmt.Sprintf("0x%x", uintptr(id)),
		"op":     op,
		"x":      pos.X,
		"y":      pos.Y,
		"error":  err,
	})
	return perr
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}
