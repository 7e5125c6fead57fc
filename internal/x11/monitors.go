package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs have no size or no outputs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// WorkArea returns the usable region of the monitor holding the active
// window, or the pointer when no window is active. Dock struts are
// subtracted; when no dock publishes struts, _NET_WORKAREA is intersected
// instead.
func (c *Connection) WorkArea() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	active := c.activeMonitor(monitors)
	if !c.applyDockStruts(&active) {
		c.clipToWorkarea(&active)
	}
	return active, nil
}

func (c *Connection) activeMonitor(monitors []Monitor) Monitor {
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		if x, y, ok := c.windowCenter(win); ok {
			if i := slices.IndexFunc(monitors, func(m Monitor) bool { return m.contains(x, y) }); i >= 0 {
				return monitors[i]
			}
		}
	}
	if x, y, err := c.PointerPosition(); err == nil {
		if i := slices.IndexFunc(monitors, func(m Monitor) bool { return m.contains(x, y) }); i >= 0 {
			return monitors[i]
		}
	}
	return monitors[0]
}

func (c *Connection) windowCenter(win xproto.Window) (int, int, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, false
	}
	translated, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(translated.DstX) + int(geom.Width)/2, int(translated.DstY) + int(geom.Height)/2, true
}

func (c *Connection) clipToWorkarea(m *Monitor) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(areas) {
		desktop = int(current)
	}
	wa := areas[desktop]

	x1 := max(m.X, int(wa.X))
	y1 := max(m.Y, int(wa.Y))
	x2 := min(m.X+m.Width, int(wa.X)+int(wa.Width))
	y2 := min(m.Y+m.Height, int(wa.Y)+int(wa.Height))
	if x2 > x1 && y2 > y1 {
		m.X, m.Y, m.Width, m.Height = x1, y1, x2-x1, y2-y1
	}
}

type struts struct {
	left, right, top, bottom int
}

// span is a half-open screen rectangle.
type span struct {
	x1, y1, x2, y2 int
}

func (s span) overlap(o span) (w, h int) {
	w = min(s.x2, o.x2) - max(s.x1, o.x1)
	h = min(s.y2, o.y2) - max(s.y1, o.y1)
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}

func (c *Connection) applyDockStruts(m *Monitor) bool {
	root, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW, rootH := int(root.Width), int(root.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	mon := span{m.X, m.Y, m.X + m.Width, m.Y + m.Height}
	var acc struts
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Some docks only set _NET_WM_STRUT; treat it as spanning the root.
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rootH - 1), RightEndY: uint(rootH - 1),
				TopEndX: uint(rootW - 1), BottomEndX: uint(rootW - 1),
			}
		}
		accumulateStruts(mon, rootW, rootH, sp, &acc)
	}

	if acc == (struts{}) {
		return false
	}

	m.X += acc.left
	m.Y += acc.top
	m.Width = max(m.Width-acc.left-acc.right, 1)
	m.Height = max(m.Height-acc.top-acc.bottom, 1)
	return true
}

func accumulateStruts(mon span, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *struts) {
	if sp.Top > 0 {
		_, h := mon.overlap(span{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)})
		acc.top = max(acc.top, h)
	}
	if sp.Bottom > 0 {
		_, h := mon.overlap(span{int(sp.BottomStartX), rootH - int(sp.Bottom), int(sp.BottomEndX) + 1, rootH})
		acc.bottom = max(acc.bottom, h)
	}
	if sp.Left > 0 {
		w, _ := mon.overlap(span{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1})
		acc.left = max(acc.left, w)
	}
	if sp.Right > 0 {
		w, _ := mon.overlap(span{rootW - int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY) + 1})
		acc.right = max(acc.right, w)
	}
}
