package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// allDesktops is the _NET_WM_DESKTOP value of a sticky window.
const allDesktops = 0xFFFFFFFF

// bringToCurrentDesktop moves a window onto the visible virtual desktop so
// that a grid placed there is actually seen. Window managers without
// virtual desktops are left alone.
func (c *Connection) bringToCurrentDesktop(windowID xproto.Window) error {
	current, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return nil
	}
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil || !onOtherDesktop(current, desktop) {
		return nil
	}
	if err := c.sendRootMessage("_NET_WM_DESKTOP", windowID, uint32(current), sourcePager); err != nil {
		return fmt.Errorf("failed to move window 0x%x to desktop %d: %w", windowID, current, err)
	}
	return nil
}

func onOtherDesktop(current, window uint) bool {
	return window != allDesktops && window != current
}
