// Package engine ties the process, discovery, tiling and arrange layers to
// one platform backend. It is the surface the CLI and the MCP server use.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winarrange/internal/actionlog"
	"github.com/1broseidon/winarrange/internal/arrange"
	"github.com/1broseidon/winarrange/internal/discovery"
	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
	"github.com/1broseidon/winarrange/internal/tiling"
)

// Options configures an Engine.
type Options struct {
	Logger  *slog.Logger
	Actions *actionlog.Logger
	// Pacing is the gap between window placements.
	Pacing time.Duration
}

// Engine finds processes and their windows and arranges them in a grid.
type Engine struct {
	backend platform.Backend
	finder  *procs.Finder
	enum    *discovery.Enumerator
	opts    Options
	logger  *slog.Logger
}

// New returns an Engine over backend. The caller keeps ownership of
// backend and closes it.
func New(backend platform.Backend, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
		opts.Logger = logger
	}
	return &Engine{
		backend: backend,
		finder:  procs.NewFinder(backend, logger),
		enum:    discovery.NewEnumerator(backend, logger),
		opts:    opts,
		logger:  logger,
	}
}

// Finder exposes the process matcher.
func (e *Engine) Finder() *procs.Finder { return e.finder }

// Actions returns the action log, which may be nil.
func (e *Engine) Actions() *actionlog.Logger { return e.opts.Actions }

// FindProcessesByName returns every running process whose executable
// matches name. It fails with procs.ErrNoProcessesMatched when none does.
func (e *Engine) FindProcessesByName(name string) (procs.Set, error) {
	return e.finder.FindByName(name)
}

// FindDescendants returns the transitive children of roots, excluding the
// roots themselves.
func (e *Engine) FindDescendants(roots procs.Set) (procs.Set, error) {
	return e.finder.Descendants(roots)
}

// FindWindows returns the main windows owned by pids.
func (e *Engine) FindWindows(pids procs.Set) ([]platform.WindowID, error) {
	return e.enum.WindowsFor(pids)
}

// Retrier returns a discovery retrier with policy, for callers that need
// AwaitExcept or AwaitLaunch.
func (e *Engine) Retrier(policy discovery.Policy) *discovery.Retrier {
	return discovery.NewRetrier(e.enum, e.finder, policy, e.logger).WithMatcher(e.finder)
}

// AwaitWindowForProcess polls for the first main window of pid.
func (e *Engine) AwaitWindowForProcess(ctx context.Context, pid uint32, policy discovery.Policy) (platform.WindowID, error) {
	id, err := e.Retrier(policy).Await(ctx, pid)
	if err != nil {
		return 0, err
	}
	e.opts.Actions.Log(actionlog.ActionDiscover, -1, map[string]any{
		"pid":    pid,
		"window": fmt.Sprintf("0x%x", uintptr(id)),
	})
	return id, nil
}

// WindowsForProgram resolves name to its processes, optionally widened to
// their descendants, and returns their main windows.
func (e *Engine) WindowsForProgram(name string, descendants bool) ([]platform.WindowID, procs.Set, error) {
	pids, err := e.FindProcessesByName(name)
	if err != nil {
		return nil, nil, err
	}
	if descendants {
		desc, err := e.FindDescendants(pids)
		if err != nil {
			return nil, nil, err
		}
		pids = pids.Union(desc)
	}

	windows, err := e.FindWindows(pids)
	if err != nil {
		return nil, pids, err
	}
	e.logger.Debug("resolved program windows", "program", name, "pids", len(pids), "windows", len(windows))
	return windows, pids, nil
}

// PlanGrid computes positions for count windows. Windows that do not fit
// the grid are dropped with a warning.
func (e *Engine) PlanGrid(count int, grid tiling.Grid, origin tiling.Position) ([]tiling.Position, error) {
	positions, err := tiling.Plan(count, grid, origin)
	if err != nil {
		return nil, err
	}
	if dropped := grid.Dropped(count); dropped > 0 {
		e.logger.Warn("grid too small, extra windows will not be arranged",
			"requested", count,
			"planned", len(positions),
			"capacity", grid.Capacity(),
		)
	}
	return positions, nil
}

// Arrange restores and moves each window to its position, sized to the
// grid's window dimensions. Failures are reported per window.
func (e *Engine) Arrange(ctx context.Context, grid tiling.Grid, windows []platform.WindowID, positions []tiling.Position) []arrange.Outcome {
	a := arrange.New(e.backend, arrange.Options{
		Width:   grid.WindowWidth,
		Height:  grid.WindowHeight,
		Pacing:  e.opts.Pacing,
		Logger:  e.logger,
		Actions: e.opts.Actions,
	})
	return a.Arrange(ctx, windows, positions)
}

// CheckOrigin validates origin against the work area of the foreground
// monitor.
func (e *Engine) CheckOrigin(origin tiling.Position) error {
	area, err := e.backend.WorkArea()
	if err != nil {
		return fmt.Errorf("read work area: %w", err)
	}
	return tiling.ValidateOrigin(origin, area)
}

// CursorOrigin reads the mouse position and validates it as a grid origin.
func (e *Engine) CursorOrigin() (tiling.Position, error) {
	p, err := e.backend.CursorPosition()
	if err != nil {
		return tiling.Position{}, fmt.Errorf("read cursor position: %w", err)
	}
	origin := tiling.Position{X: p.X, Y: p.Y}
	if err := e.CheckOrigin(origin); err != nil {
		return tiling.Position{}, err
	}
	return origin, nil
}
