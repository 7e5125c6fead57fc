// Package tiling computes grid placements. It is pure: nothing here talks
// to the window system.
package tiling

import (
	"errors"
	"fmt"
	"math"

	"github.com/1broseidon/winarrange/internal/platform"
)

var (
	// ErrInvalidConfig matches every *ConfigError.
	ErrInvalidConfig = errors.New("invalid grid configuration")
	// ErrInvalidPosition matches every *PositionError.
	ErrInvalidPosition = errors.New("invalid starting position")
)

// ConfigError names the grid field that makes a layout impossible.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s must be >= 1, got %d", e.Field, e.Value)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// PositionError reports an origin outside the monitor work area.
type PositionError struct {
	Origin Position
	Area   platform.WorkArea
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("starting position (%d,%d) is outside the work area (%d,%d)-(%d,%d)",
		e.Origin.X, e.Origin.Y, e.Area.Left, e.Area.Top, e.Area.Right, e.Area.Bottom)
}

func (e *PositionError) Is(target error) bool { return target == ErrInvalidPosition }

// Position is the top-left corner of a grid cell.
type Position struct {
	X int
	Y int
}

// Grid describes a fixed-size window grid. Spacing may be negative, which
// overlaps neighbouring windows.
type Grid struct {
	MaxHorizontal     int
	MaxVertical       int
	HorizontalSpacing int
	VerticalSpacing   int
	WindowWidth       int
	WindowHeight      int
}

// Validate rejects grids with no room for a window.
func (g Grid) Validate() error {
	checks := []struct {
		field string
		value int
	}{
		{"max_horizontal_stack", g.MaxHorizontal},
		{"max_vertical_stack", g.MaxVertical},
		{"window_width", g.WindowWidth},
		{"window_height", g.WindowHeight},
	}
	for _, c := range checks {
		if c.value < 1 {
			return &ConfigError{Field: c.field, Value: c.value}
		}
	}
	return nil
}

// Capacity is the number of cells in the grid.
func (g Grid) Capacity() int {
	return g.MaxHorizontal * g.MaxVertical
}

// Dropped is how many of count windows do not fit in the grid.
func (g Grid) Dropped(count int) int {
	return max(count-g.Capacity(), 0)
}

// Bounds returns the window rectangle for a cell.
func (g Grid) Bounds(p Position) platform.Rect {
	return platform.Rect{X: p.X, Y: p.Y, Width: g.WindowWidth, Height: g.WindowHeight}
}

// Plan lays out min(count, capacity) positions row by row from origin:
//
//	x = origin.X + col*(WindowWidth+HorizontalSpacing)
//	y = origin.Y + row*(WindowHeight+VerticalSpacing)
//
// Windows beyond capacity are dropped silently; callers report them via
// Grid.Dropped.
func Plan(count int, grid Grid, origin Position) ([]Position, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &ConfigError{Field: "count", Value: count}
	}

	n := min(count, grid.Capacity())
	positions := make([]Position, 0, n)
	for row := 0; row < grid.MaxVertical && len(positions) < n; row++ {
		for col := 0; col < grid.MaxHorizontal && len(positions) < n; col++ {
			positions = append(positions, Position{
				X: origin.X + col*(grid.WindowWidth+grid.HorizontalSpacing),
				Y: origin.Y + row*(grid.WindowHeight+grid.VerticalSpacing),
			})
		}
	}
	return positions, nil
}

// ValidateOrigin rejects an origin outside area. Points on the edge are
// accepted.
func ValidateOrigin(origin Position, area platform.WorkArea) error {
	if !area.Contains(platform.Point{X: origin.X, Y: origin.Y}) {
		return &PositionError{Origin: origin, Area: area}
	}
	return nil
}

// AutoStacks picks stack limits for count windows: columns are the ceiling
// of the square root, rows what is needed to hold the rest.
func AutoStacks(count int) (maxHorizontal, maxVertical int) {
	if count <= 0 {
		return 1, 1
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := int(math.Ceil(float64(count) / float64(cols)))
	return cols, rows
}
