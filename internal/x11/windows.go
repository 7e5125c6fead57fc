package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Window types that never count as an application's main window.
var auxiliaryWindowTypes = []string{
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
}

const sourcePager = 2

// ClientList returns managed client windows bottom-to-top, falling back to
// the unordered client list when the WM does not publish stacking order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	if clients, err := ewmh.ClientListStackingGet(c.XUtil); err == nil {
		return clients, nil
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to read _NET_CLIENT_LIST: %w", err)
	}
	return clients, nil
}

// WindowPID returns the owning process from _NET_WM_PID.
func (c *Connection) WindowPID(windowID xproto.Window) (uint32, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0, fmt.Errorf("window 0x%x has no _NET_WM_PID: %w", windowID, err)
	}
	return uint32(pid), nil
}

// IsMainWindow checks if a window is a user-facing application window:
// not withdrawn, not transient for another window, not an auxiliary type
// and not hidden from the taskbar.
func (c *Connection) IsMainWindow(windowID xproto.Window) bool {
	if !c.isShown(windowID) {
		return false
	}

	if owner, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && owner != 0 {
		return false
	}

	if types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID); err == nil {
		if !slices.Contains(types, "_NET_WM_WINDOW_TYPE_NORMAL") {
			for _, t := range types {
				if slices.Contains(auxiliaryWindowTypes, t) {
					return false
				}
			}
		}
	}

	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		if slices.Contains(states, "_NET_WM_STATE_SKIP_TASKBAR") {
			return false
		}
	}
	return true
}

// isShown treats normal and iconic (minimized) windows as shown. Without
// WM_STATE the map state decides.
func (c *Connection) isShown(windowID xproto.Window) bool {
	if state, err := icccm.WmStateGet(c.XUtil, windowID); err == nil {
		return state.State == icccm.StateNormal || state.State == icccm.StateIconic
	}
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// RestoreWindow un-minimizes and un-maximizes a window and pulls it onto the
// current desktop. It is a no-op for windows already in the normal state.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	if _, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err != nil {
		return fmt.Errorf("window 0x%x no longer exists: %w", windowID, err)
	}

	states, _ := ewmh.WmStateGet(c.XUtil, windowID)
	if slices.Contains(states, "_NET_WM_STATE_HIDDEN") {
		if err := c.sendRootMessage("_NET_ACTIVE_WINDOW", windowID, sourcePager); err != nil {
			return fmt.Errorf("failed to activate window 0x%x: %w", windowID, err)
		}
	}
	c.unmaximizeWindow(windowID, states)
	return c.bringToCurrentDesktop(windowID)
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized states; a maximized window ignores
// move requests on most window managers.
func (c *Connection) unmaximizeWindow(windowID xproto.Window, states []string) {
	for _, state := range []string{"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"} {
		if slices.Contains(states, state) {
			ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
}

// PointerPosition returns the pointer location in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}
