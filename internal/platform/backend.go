package platform

import (
	"errors"
	"iter"

	"github.com/1broseidon/winarrange/internal/procs"
)

// WindowID is a platform-neutral top-level window handle. It is only
// meaningful at the moment it was enumerated; any call using it may fail
// because the window has since closed.
type WindowID uintptr

// Point is a screen coordinate.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WorkArea is the usable region of a monitor, excluding taskbars and docks.
// Right and Bottom are the far edges (X+Width, Y+Height).
type WorkArea struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Contains reports whether p lies in the area. All four edges are inclusive.
func (a WorkArea) Contains(p Point) bool {
	return p.X >= a.Left && p.X <= a.Right && p.Y >= a.Top && p.Y <= a.Bottom
}

// ErrUnsupported is returned by Open on platforms without a backend.
var ErrUnsupported = errors.New("window arrangement is not supported on this platform")

// Backend abstracts the process table and window-system operations.
type Backend interface {
	procs.Source

	// Windows enumerates every top-level window in the OS order. An
	// enumeration failure is yielded once as an error.
	Windows() iter.Seq2[WindowID, error]
	// IsMainWindow reports whether id is a user-facing application window.
	IsMainWindow(id WindowID) bool
	// WindowPID returns the process that owns id.
	WindowPID(id WindowID) (uint32, error)

	// Restore un-minimizes id. Calling it on a normal window is a no-op.
	Restore(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error

	CursorPosition() (Point, error)
	// WorkArea returns the usable region of the monitor nearest the
	// foreground window.
	WorkArea() (WorkArea, error)

	Close() error
}
