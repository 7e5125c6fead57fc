package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winarrange/internal/arrange"
	"github.com/1broseidon/winarrange/internal/discovery"
	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
	"github.com/1broseidon/winarrange/internal/tiling"
)

func (s *Server) handleFindProcesses(_ context.Context, _ *mcpsdk.CallToolRequest, args FindProcessesInput) (*mcpsdk.CallToolResult, ProcessSetOutput, error) {
	pids, err := s.engine.FindProcessesByName(args.Name)
	if err != nil {
		return nil, ProcessSetOutput{}, err
	}
	return nil, ProcessSetOutput{PIDs: pids.Sorted()}, nil
}

func (s *Server) handleFindDescendants(_ context.Context, _ *mcpsdk.CallToolRequest, args FindDescendantsInput) (*mcpsdk.CallToolResult, ProcessSetOutput, error) {
	desc, err := s.engine.FindDescendants(procs.NewSet(args.PIDs...))
	if err != nil {
		return nil, ProcessSetOutput{}, err
	}
	return nil, ProcessSetOutput{PIDs: desc.Sorted()}, nil
}

func (s *Server) handleFindWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args FindWindowsInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	windows, err := s.engine.FindWindows(procs.NewSet(args.PIDs...))
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	return nil, WindowsOutput{Windows: handles(windows)}, nil
}

func (s *Server) handleAwaitWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args AwaitWindowInput) (*mcpsdk.CallToolResult, AwaitWindowOutput, error) {
	policy := discovery.Policy{
		MaxAttempts:       s.config.Discovery.MaxAttempts,
		Interval:          s.config.Discovery.Interval,
		FollowDescendants: s.config.Discovery.FollowDescendants,
	}
	if args.MaxAttempts != nil {
		if *args.MaxAttempts < 1 {
			return nil, AwaitWindowOutput{}, fmt.Errorf("max_attempts must be >= 1, got %d", *args.MaxAttempts)
		}
		policy.MaxAttempts = *args.MaxAttempts
	}
	if args.IntervalMS != nil {
		if *args.IntervalMS < 0 {
			return nil, AwaitWindowOutput{}, fmt.Errorf("interval_ms must be >= 0, got %d", *args.IntervalMS)
		}
		policy.Interval = time.Duration(*args.IntervalMS) * time.Millisecond
	}
	if args.FollowDescendants != nil {
		policy.FollowDescendants = *args.FollowDescendants
	}

	id, err := s.engine.AwaitWindowForProcess(ctx, args.PID, policy)
	if err != nil {
		return nil, AwaitWindowOutput{}, err
	}
	return nil, AwaitWindowOutput{PID: args.PID, Window: uint64(id)}, nil
}

func (s *Server) handlePlanGrid(_ context.Context, _ *mcpsdk.CallToolRequest, args PlanGridInput) (*mcpsdk.CallToolResult, PlanGridOutput, error) {
	grid, err := s.resolveGrid(args.GridInput, args.Count)
	if err != nil {
		return nil, PlanGridOutput{}, err
	}
	positions, err := s.engine.PlanGrid(args.Count, grid, tiling.Position{X: args.OriginX, Y: args.OriginY})
	if err != nil {
		return nil, PlanGridOutput{}, err
	}

	out := PlanGridOutput{Positions: make([]Position, 0, len(positions)), Dropped: grid.Dropped(args.Count)}
	for _, p := range positions {
		out.Positions = append(out.Positions, Position{X: p.X, Y: p.Y})
	}
	return nil, out, nil
}

func (s *Server) handleArrangeProgram(ctx context.Context, _ *mcpsdk.CallToolRequest, args ArrangeProgramInput) (*mcpsdk.CallToolResult, ArrangeProgramOutput, error) {
	origin, err := s.resolveOrigin(args.OriginX, args.OriginY)
	if err != nil {
		return nil, ArrangeProgramOutput{}, err
	}

	windows, _, err := s.engine.WindowsForProgram(args.Program, args.Descendants)
	if err != nil {
		return nil, ArrangeProgramOutput{}, err
	}
	grid, err := s.resolveGrid(args.GridInput, len(windows))
	if err != nil {
		return nil, ArrangeProgramOutput{}, err
	}
	positions, err := s.engine.PlanGrid(len(windows), grid, origin)
	if err != nil {
		return nil, ArrangeProgramOutput{}, err
	}

	outcomes := s.engine.Arrange(ctx, grid, windows, positions)
	out := ArrangeProgramOutput{
		RunID:      s.engine.Actions().RunID(),
		Found:      len(windows),
		Dropped:    grid.Dropped(len(windows)),
		Placements: placements(outcomes),
		Failed:     len(arrange.Failed(outcomes)),
	}
	s.logger.Info("arranged program via mcp",
		"program", args.Program,
		"found", out.Found,
		"failed", out.Failed,
	)
	return nil, out, nil
}

// resolveGrid layers tool arguments over the selected profile.
func (s *Server) resolveGrid(in GridInput, count int) (tiling.Grid, error) {
	profile, err := s.config.Profile(in.Profile)
	if err != nil {
		return tiling.Grid{}, err
	}
	grid := profile.Grid()
	override := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	override(&grid.WindowWidth, in.WindowWidth)
	override(&grid.WindowHeight, in.WindowHeight)
	override(&grid.MaxHorizontal, in.MaxHorizontal)
	override(&grid.MaxVertical, in.MaxVertical)
	override(&grid.HorizontalSpacing, in.HorizontalSpacing)
	override(&grid.VerticalSpacing, in.VerticalSpacing)
	if in.Auto {
		cols, rows := tiling.AutoStacks(count)
		if in.MaxHorizontal == nil {
			grid.MaxHorizontal = cols
		}
		if in.MaxVertical == nil {
			grid.MaxVertical = rows
		}
	}
	return grid, grid.Validate()
}

func (s *Server) resolveOrigin(x, y *int) (tiling.Position, error) {
	if x == nil && y == nil {
		return s.engine.CursorOrigin()
	}
	if x == nil || y == nil {
		return tiling.Position{}, fmt.Errorf("origin_x and origin_y must be given together")
	}
	origin := tiling.Position{X: *x, Y: *y}
	if err := s.engine.CheckOrigin(origin); err != nil {
		return tiling.Position{}, err
	}
	return origin, nil
}

func placements(outcomes []arrange.Outcome) []Placement {
	out := make([]Placement, 0, len(outcomes))
	for _, o := range outcomes {
		p := Placement{Index: o.Index, Window: uint64(o.Window), X: o.Position.X, Y: o.Position.Y}
		if o.Err != nil {
			p.Error = o.Err.Error()
		}
		out = append(out, p)
	}
	return out
}

func handles(windows []platform.WindowID) []uint64 {
	out := make([]uint64, 0, len(windows))
	for _, w := range windows {
		out = append(out, uint64(w))
	}
	return out
}
